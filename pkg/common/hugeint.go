package common

import (
	"fmt"
	"math"
)

// Hugeint is the 128-bit widened accumulator the sum and product kernels
// fold integer inputs into.
type Hugeint struct {
	Lower uint64
	Upper int64
}

func HugeintFromInt64(v int64) Hugeint {
	if v >= 0 {
		return Hugeint{Lower: uint64(v), Upper: 0}
	}
	return Hugeint{Lower: uint64(v), Upper: -1}
}

func (h Hugeint) String() string {
	return fmt.Sprintf("[%d %d]", h.Upper, h.Lower)
}

func (h Hugeint) Equal(o Hugeint) bool {
	return h.Lower == o.Lower && h.Upper == o.Upper
}

func (h Hugeint) Negate() Hugeint {
	if h.Upper == math.MinInt64 && h.Lower == 0 {
		panic("hugeint negate overflow")
	}
	result := Hugeint{Lower: math.MaxUint64 - h.Lower + 1}
	if h.Lower == 0 {
		result.Upper = -1 - h.Upper + 1
	} else {
		result.Upper = -1 - h.Upper
	}
	return result
}

// Add adds in place, wrapping around on overflow. Integer product wraps on
// overflow by the same rule; sum in practice never overflows 128 bits for
// realistic batch sizes, so the wraparound path is shared.
func (h *Hugeint) Add(rhs Hugeint) {
	lower := h.Lower + rhs.Lower
	carry := int64(0)
	if lower < h.Lower {
		carry = 1
	}
	h.Upper += rhs.Upper + carry
	h.Lower = lower
}

// Mul multiplies in place using schoolbook 64x64->128 partial products,
// wrapping on overflow (the product kernel's documented behavior).
func (h *Hugeint) Mul(rhs Hugeint) {
	a0, a1 := h.Lower&0xFFFFFFFF, h.Lower>>32
	b0, b1 := rhs.Lower&0xFFFFFFFF, rhs.Lower>>32

	t := a0 * b0
	w0 := t & 0xFFFFFFFF
	k := t >> 32

	t = a1*b0 + k
	w1 := t & 0xFFFFFFFF
	w2 := t >> 32

	t = a0*b1 + w1
	k = t >> 32

	lower := w0 | ((t & 0xFFFFFFFF) << 32)
	upper := a1*b1 + w2 + k
	upper += uint64(h.Upper)*rhs.Lower + h.Lower*uint64(rhs.Upper)

	h.Lower = lower
	h.Upper = int64(upper)
}

func (h Hugeint) Less(o Hugeint) bool {
	if h.Upper != o.Upper {
		return h.Upper < o.Upper
	}
	return h.Lower < o.Lower
}

// Float64 widens to a float64, used by mean/variance when the underlying
// sum accumulator is a Hugeint.
func (h Hugeint) Float64() float64 {
	return float64(h.Upper)*18446744073709551616.0 + float64(h.Lower)
}
