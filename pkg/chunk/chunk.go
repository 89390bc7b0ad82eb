package chunk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/axon-data/hashagg/pkg/common"
	"github.com/axon-data/hashagg/pkg/util"
)

// Chunk is one batch: a fixed set of same-length Vectors plus a row count.
// The Grouper returns its unique key rows as a Chunk, and AggregateNode
// emits its finalized output as Chunks; its input side takes key and value
// columns as []*Vector slices.
type Chunk struct {
	Data  []*Vector
	Count int
	cap   int
}

func (c *Chunk) Init(types []common.LType, cap int) {
	c.cap = cap
	c.Data = make([]*Vector, 0, len(types))
	for _, lt := range types {
		c.Data = append(c.Data, NewFlatVector(lt, cap))
	}
}

// NewView builds a Chunk whose columns alias cols (no copy) with the given
// row count, for returning a live look at a subset/snapshot of another
// chunk's columns (the Grouper's GetUniques uses this).
func NewView(cols []*Vector, count int) *Chunk {
	c := &Chunk{Data: make([]*Vector, len(cols)), cap: count}
	for i, v := range cols {
		alias := &Vector{}
		alias.Reference(v)
		c.Data[i] = alias
	}
	c.Count = count
	return c
}

func (c *Chunk) Reset() {
	for _, vec := range c.Data {
		vec.Reset()
	}
	c.Count = 0
}

func (c *Chunk) Cap() int {
	return c.cap
}

func (c *Chunk) SetCard(count int) {
	util.AssertFunc(count <= c.cap)
	c.Count = count
}

func (c *Chunk) Card() int {
	return c.Count
}

func (c *Chunk) ColumnCount() int {
	if c == nil {
		return 0
	}
	return len(c.Data)
}

// Reference makes every column of c alias the matching column of other,
// for passing a batch down a pipeline stage without copying.
func (c *Chunk) Reference(other *Chunk) {
	util.AssertFunc(other.ColumnCount() <= c.ColumnCount())
	c.cap = other.cap
	c.SetCard(other.Card())
	for i := 0; i < other.ColumnCount(); i++ {
		c.Data[i].Reference(other.Data[i])
	}
}

func (c *Chunk) Flatten() {
	for _, vec := range c.Data {
		vec.Flatten(c.Card())
	}
}

func (c *Chunk) Print() {
	for i := 0; i < c.Card(); i++ {
		for j := 0; j < c.ColumnCount(); j++ {
			fmt.Print(c.Data[j].GetValue(i).String())
			fmt.Print("\t")
		}
		fmt.Println()
	}
}

func (c *Chunk) LogFields(rowPrefix string) []zap.Field {
	fields := make([]zap.Field, 0, c.Card())
	for i := 0; i < c.Card(); i++ {
		row := ""
		for j := 0; j < c.ColumnCount(); j++ {
			row += c.Data[j].GetValue(i).String()
			if j != c.ColumnCount()-1 {
				row += "\t"
			}
		}
		fields = append(fields, zap.String(rowPrefix, row))
	}
	return fields
}
