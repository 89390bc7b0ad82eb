package aggregate

import (
	"sync"
	"sync/atomic"

	"github.com/huandu/go-clone"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/axon-data/hashagg/pkg/chunk"
	"github.com/axon-data/hashagg/pkg/common"
)

// NodeState is the AggregateNode lifecycle: Created, then Producing while
// input batches arrive (possibly from several threads concurrently), then
// Finalizing once every input source has reported completion, ending in
// Finished or, on an upstream error or explicit Stop, Stopped.
type NodeState int32

const (
	StateCreated NodeState = iota
	StateProducing
	StateFinalizing
	StateFinished
	StateStopped
)

func (s NodeState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateProducing:
		return "Producing"
	case StateFinalizing:
		return "Finalizing"
	case StateFinished:
		return "Finished"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// AggregateSpec binds one kernel to the value column it consumes and the
// options it was constructed with.
type AggregateSpec struct {
	Name      string
	Kernel    Kernel
	ValueCol  int
	ValueType common.LType
	Options   Options
}

// NewAggregateSpec resolves name through the kernel registry and binds it
// to the column and options it will consume. This is the entry point
// query planning code should use instead of constructing AggregateSpec
// literals directly, so every spec's Kernel is always the one its Name
// actually names.
func NewAggregateSpec(name string, valueCol int, valueType common.LType, opts Options) (AggregateSpec, error) {
	kernel, err := LookupKernel(name)
	if err != nil {
		return AggregateSpec{}, err
	}
	return AggregateSpec{
		Name:      name,
		Kernel:    kernel,
		ValueCol:  valueCol,
		ValueType: valueType,
		Options:   opts,
	}, nil
}

// partition is the per-thread accumulation unit: its own Grouper (so
// concurrent threads never contend on group-id assignment) and one
// KernelState per aggregate spec, indexed the same as AggregateNode.specs.
type partition struct {
	grouper Grouper
	states  []KernelState
}

func newPartition(keyTypes []common.LType, specs []AggregateSpec) (*partition, error) {
	g, err := NewGrouper(keyTypes)
	if err != nil {
		return nil, err
	}
	p := &partition{grouper: g, states: make([]KernelState, len(specs))}
	for i, spec := range specs {
		// Each partition gets its own deep copy of Options: Quantiles is a
		// slice, and two partitions sharing its backing array would race
		// the moment either kernel mutated it in place.
		opts := clone.Clone(spec.Options).(Options)
		p.states[i] = spec.Kernel.Init(opts, spec.ValueType)
	}
	return p, nil
}

// AggregateNode drives the grouped hash-aggregation lifecycle: one or
// more producer threads feed it batches via OnInput, each threaded into
// its own partition; once every thread reports completion through
// OnInputTotal the node merges all partitions into partition 0 and
// finalizes.
type AggregateNode struct {
	ctx        *ExecContext
	keyTypes   []common.LType
	keyCols    []int
	specs      []AggregateSpec
	numThreads int

	partitions []*partition

	state        atomic.Int32
	pendingDone  atomic.Int32
	rowsConsumed atomic.Int64
	finalizeOnce sync.Once
	mu           sync.Mutex
	err          error
}

func NewAggregateNode(ctx *ExecContext, keyTypes []common.LType, keyCols []int, specs []AggregateSpec, numThreads int) (*AggregateNode, error) {
	if numThreads < 1 {
		numThreads = 1
	}
	n := &AggregateNode{
		ctx:        ctx,
		keyTypes:   keyTypes,
		keyCols:    keyCols,
		specs:      specs,
		numThreads: numThreads,
	}
	n.partitions = make([]*partition, numThreads)
	for i := range n.partitions {
		p, err := newPartition(keyTypes, specs)
		if err != nil {
			return nil, err
		}
		n.partitions[i] = p
	}
	n.pendingDone.Store(int32(numThreads))
	return n, nil
}

func (n *AggregateNode) State() NodeState { return NodeState(n.state.Load()) }

// Start transitions Created -> Producing. Calling it more than once, or
// after the node has moved past Producing, is an error.
func (n *AggregateNode) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if NodeState(n.state.Load()) != StateCreated {
		return Invalid("Start called in state %v", n.State())
	}
	n.state.Store(int32(StateProducing))
	n.ctx.Log.Debug("aggregate node started", zap.Int("threads", n.numThreads))
	return nil
}

// OnInput consumes one batch of rows into thread threadIdx's partition.
// keyVecs and valueVecs are the resolved column vectors for this batch;
// the caller has already sliced the input chunk by AggregateNode's
// configured key/value column indices.
func (n *AggregateNode) OnInput(threadIdx int, keyVecs []*chunk.Vector, valueVecs []*chunk.Vector, count int) error {
	if NodeState(n.state.Load()) != StateProducing {
		return Invalid("OnInput called in state %v", n.State())
	}
	if threadIdx < 0 || threadIdx >= n.numThreads {
		return IndexError("thread index %d out of range [0, %d)", threadIdx, n.numThreads)
	}
	p := n.partitions[threadIdx]
	ids, err := p.grouper.Consume(keyVecs, count)
	if err != nil {
		n.OnError(err)
		return err
	}
	for i, spec := range n.specs {
		state := p.states[i]
		if state.NumGroups() < p.grouper.NumGroups() {
			state.Resize(p.grouper.NumGroups())
		}
		spec.Kernel.Consume(state, valueVecs[spec.ValueCol], ids, count)
	}
	n.rowsConsumed.Add(int64(count))
	return nil
}

// OnInputTotal reports that one producer thread has delivered its last
// batch, having sent n rows in total. The Producing -> Finalizing
// transition fires exactly once, when every thread has reported.
func (n *AggregateNode) OnInputTotal(n64 int64) error {
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

// OnError aborts the node: Producing or Finalizing -> Stopped, recording
// the first error seen.
func (n *AggregateNode) OnError(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err == nil {
		n.err = err
	}
	n.state.Store(int32(StateStopped))
}

// Stop forces the node to Stopped from any state, e.g. on a downstream
// cancellation.
func (n *AggregateNode) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Store(int32(StateStopped))
	return nil
}

// Err returns the error OnError recorded, if any.
func (n *AggregateNode) Err() error { return n.err }

// Finalize merges every partition into partition 0, finalizes each
// kernel's accumulator into an output column, and calls emit once per
// output_batch_size rows. Finalize is only valid from Finalizing and
// transitions to Finished on success.
func (n *AggregateNode) Finalize(emit func(*chunk.Chunk) error) error {
	if NodeState(n.state.Load()) != StateFinalizing {
		return Invalid("Finalize called in state %v", n.State())
	}
	var retErr error
	n.finalizeOnce.Do(func() {
		retErr = n.finalizeOnceBody(emit)
	})
	return retErr
}

func (n *AggregateNode) finalizeOnceBody(emit func(*chunk.Chunk) error) error {
	leader := n.partitions[0]
	for _, p := range n.partitions[1:] {
		if err := n.mergePartition(leader, p); err != nil {
			n.OnError(err)
			return err
		}
	}

	numGroups := int(leader.grouper.NumGroups())

	// Every kernel's Finalize reads only its own accumulator, so the
	// per-spec finalize pass fans out across goroutines, at most
	// Pool.Size() at a time, instead of running one kernel at a time. hash_min_max is the one
	// kernel that finalizes to two columns instead of one: it reports
	// min and max side by side rather than dropping max on the floor.
	finalized := make([][]*chunk.Vector, len(n.specs))
	var eg errgroup.Group
	eg.SetLimit(n.ctx.Pool.Size())
	for i := range n.specs {
		i := i
		eg.Go(func() error {
			if mm, ok := leader.states[i].(*minMaxState); ok && mm.project == projectBoth {
				pair := mm.FinalizePair()
				finalized[i] = []*chunk.Vector{pair.Min, pair.Max}
			} else {
				finalized[i] = []*chunk.Vector{leader.states[i].Finalize()}
			}
			return nil
		})
	}
	_ = eg.Wait()

	outTypes := make([]common.LType, 0, len(n.specs)+len(n.keyTypes))
	outVecs := make([]*chunk.Vector, 0, len(n.specs)+len(n.keyTypes))
	for i := range n.specs {
		for _, v := range finalized[i] {
			outTypes = append(outTypes, v.Typ())
			outVecs = append(outVecs, v)
		}
	}
	keyChunk := leader.grouper.GetUniques()
	for _, kv := range keyChunk.Data {
		outTypes = append(outTypes, kv.Typ())
		outVecs = append(outVecs, kv)
	}

	batchSize := n.ctx.OutputBatchSize
	if batchSize <= 0 {
		batchSize = DefaultOutputBatchSize
	}
	for offset := 0; offset < numGroups; offset += batchSize {
		rows := numGroups - offset
		if rows > batchSize {
			rows = batchSize
		}
		out := &chunk.Chunk{}
		out.Init(outTypes, rows)
		for c, vec := range outVecs {
			for r := 0; r < rows; r++ {
				out.Data[c].SetValueTyped(r, vec.GetValue(offset+r))
			}
		}
		out.SetCard(rows)
		if err := emit(out); err != nil {
			n.OnError(err)
			return err
		}
	}

	n.mu.Lock()
	if NodeState(n.state.Load()) == StateFinalizing {
		n.state.Store(int32(StateFinished))
	}
	n.mu.Unlock()
	return nil
}

// mergePartition folds src into dst: src's unique key rows are replayed
// through dst's grouper to get a transposition from src's group ids to
// dst's, then every kernel state merges under that transposition.
func (n *AggregateNode) mergePartition(dst, src *partition) error {
	srcUniques := src.grouper.GetUniques()
	transposition, err := dst.grouper.Consume(srcUniques.Data, int(src.grouper.NumGroups()))
	if err != nil {
		return err
	}
	for i := range n.specs {
		if dst.states[i].NumGroups() < dst.grouper.NumGroups() {
			dst.states[i].Resize(dst.grouper.NumGroups())
		}
		dst.states[i].Merge(src.states[i], transposition)
	}
	return nil
}
