package aggregate

import (
	"sync"
	"sync/atomic"

	"github.com/huandu/go-clone"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// ScalarAggregateNode is the zero-key aggregate: no Grouper, one
// accumulator per kernel per thread, all rows folding into group id 0.
// Finalize merges every thread's accumulator pairwise into thread 0's
// (merge_all) and emits a single one-row chunk.
type ScalarAggregateNode struct {
	ctx        *ExecContext
	specs      []AggregateSpec
	numThreads int

	states [][]KernelState // states[thread][spec]

	state        atomic.Int32
	pendingDone  atomic.Int32
	finalizeOnce sync.Once
	mu           sync.Mutex
	err          error
}

func NewScalarAggregateNode(ctx *ExecContext, specs []AggregateSpec, numThreads int) *ScalarAggregateNode {
	if numThreads < 1 {
		numThreads = 1
	}
	n := &ScalarAggregateNode{ctx: ctx, specs: specs, numThreads: numThreads}
	n.states = make([][]KernelState, numThreads)
	for t := range n.states {
		n.states[t] = make([]KernelState, len(specs))
		for i, spec := range specs {
			opts := clone.Clone(spec.Options).(Options)
			st := spec.Kernel.Init(opts, spec.ValueType)
			st.Resize(1)
			n.states[t][i] = st
		}
	}
	n.pendingDone.Store(int32(numThreads))
	return n
}

func (n *ScalarAggregateNode) State() NodeState { return NodeState(n.state.Load()) }

func (n *ScalarAggregateNode) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if NodeState(n.state.Load()) != StateCreated {
		return Invalid("Start called in state %v", n.State())
	}
	n.state.Store(int32(StateProducing))
	return nil
}

// OnInput folds one batch's values directly into thread threadIdx's
// accumulators: every row maps to group id 0, so ids is a zero-filled
// slice of length count rather than anything a Grouper produced.
func (n *ScalarAggregateNode) OnInput(threadIdx int, valueVecs []*chunk.Vector, count int) error {
	if NodeState(n.state.Load()) != StateProducing {
		return Invalid("OnInput called in state %v", n.State())
	}
	if threadIdx < 0 || threadIdx >= n.numThreads {
		return IndexError("thread index %d out of range [0, %d)", threadIdx, n.numThreads)
	}
	ids := make([]uint32, count)
	for i, spec := range n.specs {
		spec.Kernel.Consume(n.states[threadIdx][i], valueVecs[spec.ValueCol], ids, count)
	}
	return nil
}

func (n *ScalarAggregateNode) OnInputTotal(rows int64) error {
	if NodeState(n.state.Load()) != StateProducing {
		return Invalid("OnInputTotal called in state %v", n.State())
	}
	remaining := n.pendingDone.Add(-1)
	if remaining < 0 {
		return Invalid("OnInputTotal called more times than there are threads")
	}
	if remaining == 0 {
		n.mu.Lock()
		if NodeState(n.state.Load()) == StateProducing {
			n.state.Store(int32(StateFinalizing))
		}
		n.mu.Unlock()
	}
	return nil
}

func (n *ScalarAggregateNode) OnError(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err == nil {
		n.err = err
	}
	n.state.Store(int32(StateStopped))
}

func (n *ScalarAggregateNode) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Store(int32(StateStopped))
	return nil
}

func (n *ScalarAggregateNode) Err() error { return n.err }

// Finalize pairwise-folds every thread's accumulators into thread 0's
// (mergeAll), then finalizes each kernel into a single-row output chunk.
func (n *ScalarAggregateNode) Finalize() (*chunk.Chunk, error) {
	if NodeState(n.state.Load()) != StateFinalizing {
		return nil, Invalid("Finalize called in state %v", n.State())
	}
	var out *chunk.Chunk
	var retErr error
	n.finalizeOnce.Do(func() {
		out, retErr = n.finalizeOnceBody()
	})
	return out, retErr
}

func (n *ScalarAggregateNode) finalizeOnceBody() (*chunk.Chunk, error) {
	identityTransposition := []uint32{0}
	for t := 1; t < n.numThreads; t++ {
		for i := range n.specs {
			n.states[0][i].Merge(n.states[t][i], identityTransposition)
		}
	}

	outTypes := make([]common.LType, 0, len(n.specs))
	outVecs := make([]*chunk.Vector, 0, len(n.specs))
	for i := range n.specs {
		if mm, ok := n.states[0][i].(*minMaxState); ok && mm.project == projectBoth {
			pair := mm.FinalizePair()
			outTypes = append(outTypes, pair.Min.Typ(), pair.Max.Typ())
			outVecs = append(outVecs, pair.Min, pair.Max)
			continue
		}
		v := n.states[0][i].Finalize()
		outTypes = append(outTypes, v.Typ())
		outVecs = append(outVecs, v)
	}

	out := &chunk.Chunk{}
	out.Init(outTypes, 1)
	for c, vec := range outVecs {
		out.Data[c].SetValueTyped(0, vec.GetValue(0))
	}
	out.SetCard(1)

	n.mu.Lock()
	if NodeState(n.state.Load()) == StateFinalizing {
		n.state.Store(int32(StateFinished))
	}
	n.mu.Unlock()
	return out, nil
}
