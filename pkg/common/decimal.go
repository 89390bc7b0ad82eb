package common

import (
	decimal2 "github.com/govalues/decimal"
)

// Decimal wraps govalues/decimal.Decimal. Both DECIMAL128 and DECIMAL256
// key/value columns share this Go representation; the width only changes
// the column's LType tag (no kernel checks values against it), not the wire
// representation, since this module never serializes to a native
// 128/256-bit decimal byte layout.
type Decimal struct {
	decimal2.Decimal
}

// DecimalFromInt64 returns the decimal whose unscaled value is v at the
// given scale, so DecimalFromInt64(125, 2) is 1.25.
func DecimalFromInt64(v int64, scale int) Decimal {
	d, err := decimal2.New(v, scale)
	if err != nil {
		panic(err)
	}
	return Decimal{d}
}

func (dec Decimal) Equal(o Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) == 0
}

func (dec Decimal) Add(o Decimal) Decimal {
	res, err := dec.Decimal.Add(o.Decimal)
	if err != nil {
		panic(err)
	}
	return Decimal{res}
}

func (dec Decimal) Mul(o Decimal) Decimal {
	res, err := dec.Decimal.Mul(o.Decimal)
	if err != nil {
		panic(err)
	}
	return Decimal{res}
}

func (dec Decimal) Less(o Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) < 0
}

func (dec Decimal) Greater(o Decimal) bool {
	return dec.Decimal.Cmp(o.Decimal) > 0
}

func (dec Decimal) Negate() Decimal {
	return Decimal{dec.Decimal.Neg()}
}

func (dec Decimal) Float64() float64 {
	f, _ := dec.Decimal.Float64()
	return f
}
