package chunk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/axon-data/hashagg/pkg/common"
	"github.com/axon-data/hashagg/pkg/util"
)

// Vector is one column of one batch. Data holds the column's values as a
// concrete Go slice (e.g. []int32, []common.String) boxed in an any field;
// the teacher's Vector instead holds a []byte arena and reinterprets it
// through unsafe.Pointer, a layout this module has no buffer manager to
// justify. PhyFormat picks which of Data/dictChild/dictSel is live.
type Vector struct {
	phyFormat PhyFormat
	typ       common.LType
	Data      any
	Mask      *util.Bitmap

	dictChild *Vector
	dictSel   []int
}

func NewFlatVector(typ common.LType, cap int) *Vector {
	vec := &Vector{typ: typ, Mask: &util.Bitmap{}}
	vec.phyFormat = PF_FLAT
	vec.Data = makeTypedSlice(typ, cap)
	return vec
}

func NewConstVector(typ common.LType) *Vector {
	vec := &Vector{typ: typ, Mask: &util.Bitmap{}}
	vec.phyFormat = PF_CONST
	vec.Data = makeTypedSlice(typ, 1)
	return vec
}

func makeTypedSlice(typ common.LType, cap int) any {
	switch typ.GetInternalType() {
	case common.BOOL:
		return make([]bool, cap)
	case common.INT8:
		return make([]int8, cap)
	case common.INT16:
		return make([]int16, cap)
	case common.INT32:
		return make([]int32, cap)
	case common.INT64:
		return make([]int64, cap)
	case common.UINT8:
		return make([]uint8, cap)
	case common.UINT16:
		return make([]uint16, cap)
	case common.UINT32:
		return make([]uint32, cap)
	case common.UINT64:
		return make([]uint64, cap)
	case common.FLOAT:
		return make([]float32, cap)
	case common.DOUBLE:
		return make([]float64, cap)
	case common.VARCHAR, common.FIXED:
		return make([]common.String, cap)
	case common.DECIMAL128, common.DECIMAL256:
		return make([]common.Decimal, cap)
	case common.HUGEINT:
		return make([]common.Hugeint, cap)
	case common.INTERVAL:
		return make([]common.Interval, cap)
	case common.LIST:
		return make([][]Value, cap)
	default:
		panic(fmt.Sprintf("unsupported physical type %v for vector data", typ.GetInternalType()))
	}
}

func (vec *Vector) Typ() common.LType {
	return vec.typ
}

func (vec *Vector) PhyFormat() PhyFormat {
	return vec.phyFormat
}

func (vec *Vector) SetPhyFormat(pf PhyFormat) {
	vec.phyFormat = pf
}

// Reference makes vec an alias of other: same data, same mask, same
// dictionary child. Used to fan a batch column out to multiple temporary
// views without copying.
func (vec *Vector) Reference(other *Vector) {
	vec.typ = other.typ
	vec.phyFormat = other.phyFormat
	vec.Data = other.Data
	vec.Mask = other.Mask
	vec.dictChild = other.dictChild
	vec.dictSel = other.dictSel
}

// ReferenceDict turns vec into a dictionary vector over child, indexed by
// sel.
func (vec *Vector) ReferenceDict(child *Vector, sel []int) {
	vec.phyFormat = PF_DICT
	vec.typ = child.typ
	vec.dictChild = child
	vec.dictSel = sel
	vec.Mask = &util.Bitmap{}
}

func (vec *Vector) DictChild() *Vector {
	util.AssertFunc(vec.phyFormat.IsDict())
	return vec.dictChild
}

func (vec *Vector) DictSel() []int {
	util.AssertFunc(vec.phyFormat.IsDict())
	return vec.dictSel
}

// resolvedIndex maps a logical row index to the index its backing data
// slice actually holds the value at, following CONST/DICT indirection.
func (vec *Vector) resolvedIndex(idx int) (*Vector, int) {
	switch vec.phyFormat {
	case PF_CONST:
		return vec, 0
	case PF_DICT:
		return vec.dictChild.resolvedIndex(vec.dictSel[idx])
	default:
		return vec, idx
	}
}

func (vec *Vector) RowIsValid(idx int) bool {
	target, tIdx := vec.resolvedIndex(idx)
	return target.Mask.RowIsValid(uint64(tIdx))
}

func (vec *Vector) SetRowValid(idx int, valid bool) {
	util.AssertFunc(!vec.phyFormat.IsDict())
	vec.Mask.Set(uint64(idx), valid)
}

// GetValue boxes the cell at idx, following CONST/DICT indirection. The
// kernels and the key encoder read their input cells through it; GetSlice
// gives direct typed access to a vector's own data slice.
func (vec *Vector) GetValue(idx int) Value {
	target, tIdx := vec.resolvedIndex(idx)
	if !target.Mask.RowIsValid(uint64(tIdx)) {
		return Value{Typ: vec.typ, IsNull: true}
	}
	switch target.typ.GetInternalType() {
	case common.BOOL:
		return Value{Typ: vec.typ, Bool: GetSlice[bool](target)[tIdx]}
	case common.INT8:
		return Value{Typ: vec.typ, I64: int64(GetSlice[int8](target)[tIdx])}
	case common.INT16:
		return Value{Typ: vec.typ, I64: int64(GetSlice[int16](target)[tIdx])}
	case common.INT32:
		return Value{Typ: vec.typ, I64: int64(GetSlice[int32](target)[tIdx])}
	case common.INT64:
		return Value{Typ: vec.typ, I64: GetSlice[int64](target)[tIdx]}
	case common.UINT8:
		return Value{Typ: vec.typ, U64: uint64(GetSlice[uint8](target)[tIdx])}
	case common.UINT16:
		return Value{Typ: vec.typ, U64: uint64(GetSlice[uint16](target)[tIdx])}
	case common.UINT32:
		return Value{Typ: vec.typ, U64: uint64(GetSlice[uint32](target)[tIdx])}
	case common.UINT64:
		return Value{Typ: vec.typ, U64: GetSlice[uint64](target)[tIdx]}
	case common.FLOAT:
		return Value{Typ: vec.typ, F64: float64(GetSlice[float32](target)[tIdx])}
	case common.DOUBLE:
		return Value{Typ: vec.typ, F64: GetSlice[float64](target)[tIdx]}
	case common.VARCHAR, common.FIXED:
		return Value{Typ: vec.typ, Str: GetSlice[common.String](target)[tIdx].Val}
	case common.DECIMAL128, common.DECIMAL256:
		return Value{Typ: vec.typ, Decimal: GetSlice[common.Decimal](target)[tIdx]}
	case common.HUGEINT:
		return Value{Typ: vec.typ, Hugeint: GetSlice[common.Hugeint](target)[tIdx]}
	case common.INTERVAL:
		return Value{Typ: vec.typ, Interval: GetSlice[common.Interval](target)[tIdx]}
	case common.LIST:
		return Value{Typ: vec.typ, List: GetSlice[[]Value](target)[tIdx]}
	default:
		panic(fmt.Sprintf("unsupported physical type %v in GetValue", target.typ.GetInternalType()))
	}
}

// GetSlice returns the vector's backing data as a typed slice. The caller
// is responsible for knowing T matches the vector's physical type; use
// together with resolvedIndex/ flattening for CONST/DICT vectors.
func GetSlice[T any](vec *Vector) []T {
	return vec.Data.([]T)
}

// Flatten materializes a CONST or DICT vector into a FLAT vector of the
// given row count, the same normalization step the teacher's
// Chunk.Flatten performs before a kernel or the key encoder walks a batch
// linearly.
func (vec *Vector) Flatten(count int) {
	switch vec.phyFormat {
	case PF_FLAT:
		return
	case PF_CONST:
		isNull := !vec.Mask.RowIsValid(0)
		flat := &Vector{typ: vec.typ, Mask: &util.Bitmap{}}
		flat.phyFormat = PF_FLAT
		flat.Data = makeTypedSlice(vec.typ, count)
		if isNull {
			flat.Mask.SetAllInvalid(count)
		} else {
			broadcastConst(vec, flat, count)
		}
		vec.phyFormat = PF_FLAT
		vec.Data = flat.Data
		vec.Mask = flat.Mask
	case PF_DICT:
		flat := &Vector{typ: vec.typ, Mask: &util.Bitmap{}}
		flat.phyFormat = PF_FLAT
		flat.Data = makeTypedSlice(vec.typ, count)
		for i := 0; i < count; i++ {
			v := vec.GetValue(i)
			flat.Mask.Set(uint64(i), !v.IsNull)
			if !v.IsNull {
				flat.SetValueTyped(i, v)
			}
		}
		vec.phyFormat = PF_FLAT
		vec.Data = flat.Data
		vec.Mask = flat.Mask
		vec.dictChild = nil
		vec.dictSel = nil
	}
}

func broadcastConst(src *Vector, dst *Vector, count int) {
	v := src.GetValue(0)
	for i := 0; i < count; i++ {
		dst.SetValueTyped(i, v)
	}
}

// SetValueTyped writes a boxed Value into the backing typed slice at idx.
// Only usable against a FLAT vector; CONST/DICT vectors are written by
// flattening first.
func (vec *Vector) SetValueTyped(idx int, val Value) {
	util.AssertFunc(vec.phyFormat.IsFlat())
	vec.Mask.Set(uint64(idx), !val.IsNull)
	if val.IsNull {
		return
	}
	switch vec.typ.GetInternalType() {
	case common.BOOL:
		GetSlice[bool](vec)[idx] = val.Bool
	case common.INT8:
		GetSlice[int8](vec)[idx] = int8(val.I64)
	case common.INT16:
		GetSlice[int16](vec)[idx] = int16(val.I64)
	case common.INT32:
		GetSlice[int32](vec)[idx] = int32(val.I64)
	case common.INT64:
		GetSlice[int64](vec)[idx] = val.I64
	case common.UINT8:
		GetSlice[uint8](vec)[idx] = uint8(val.U64)
	case common.UINT16:
		GetSlice[uint16](vec)[idx] = uint16(val.U64)
	case common.UINT32:
		GetSlice[uint32](vec)[idx] = uint32(val.U64)
	case common.UINT64:
		GetSlice[uint64](vec)[idx] = val.U64
	case common.FLOAT:
		GetSlice[float32](vec)[idx] = float32(val.F64)
	case common.DOUBLE:
		GetSlice[float64](vec)[idx] = val.F64
	case common.VARCHAR, common.FIXED:
		GetSlice[common.String](vec)[idx] = common.String{Val: val.Str}
	case common.DECIMAL128, common.DECIMAL256:
		GetSlice[common.Decimal](vec)[idx] = val.Decimal
	case common.HUGEINT:
		GetSlice[common.Hugeint](vec)[idx] = val.Hugeint
	case common.INTERVAL:
		GetSlice[common.Interval](vec)[idx] = val.Interval
	case common.LIST:
		GetSlice[[]Value](vec)[idx] = val.List
	default:
		panic(fmt.Sprintf("unsupported physical type %v in SetValueTyped", vec.typ.GetInternalType()))
	}
}

func (vec *Vector) Reset() {
	vec.phyFormat = PF_FLAT
	vec.Mask.Reset()
	vec.dictChild = nil
	vec.dictSel = nil
}

func (vec *Vector) Print(rowCount int) {
	for j := 0; j < rowCount; j++ {
		fmt.Println(vec.GetValue(j).String())
	}
}

func (vec *Vector) LogFields(count int) []zap.Field {
	fields := make([]zap.Field, 0, count)
	for i := 0; i < count; i++ {
		fields = append(fields, zap.String("", vec.GetValue(i).String()))
	}
	return fields
}

// HasNull reports whether any of the first count rows is null.
func HasNull(vec *Vector, count int) bool {
	if count == 0 {
		return false
	}
	if vec.phyFormat == PF_CONST {
		return !vec.Mask.RowIsValid(0)
	}
	if vec.Mask.AllValid() && vec.phyFormat != PF_DICT {
		return false
	}
	for i := 0; i < count; i++ {
		if !vec.RowIsValid(i) {
			return true
		}
	}
	return false
}
