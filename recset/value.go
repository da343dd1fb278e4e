package recset

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Kind enumerates the logical types a field value can carry. Values arrive
// from heterogeneous sources (drivers, CSV cells, JSON documents) and are
// classified once at construction; comparison code never re-guesses types.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	}
	return "unknown"
}

// Value is a tagged variant over the kinds above. The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	d    *apd.Decimal
	s    string
	t    time.Time
}

func Null() Value {
	return Value{kind: KindNull}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

func Decimal(d *apd.Decimal) Value {
	return Value{kind: KindDecimal, d: d}
}

func String(s string) Value {
	return Value{kind: KindString, s: s}
}

func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInt, KindFloat, KindDecimal:
		return true
	}
	return false
}

// FromAny classifies a value handed over by a driver or decoder. Anything
// unrecognised is kept as its string form rather than rejected; comparison
// then degrades to structural equality.
func FromAny(val any) Value {
	switch val := val.(type) {
	case nil:
		return Null()
	case int:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint32:
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case string:
		return String(val)
	case []byte:
		return String(string(val))
	case bool:
		return String(strconv.FormatBool(val))
	case time.Time:
		return Time(val)
	case *apd.Decimal:
		return Decimal(val)
	case apd.Decimal:
		return Decimal(&val)
	}
	return String(fmt.Sprint(val))
}

// ParseString classifies a raw text cell, as read from a CSV file. Integers
// and decimal-looking strings become numeric values; everything else stays
// text. Dates are deliberately not parsed here: sources that know their
// column types supply time.Time values directly.
func ParseString(s string) Value {
	if s == "" {
		return String("")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if looksNumeric(s) {
		if d, _, err := apd.NewFromString(s); err == nil {
			return Decimal(d)
		}
	}
	return String(s)
}

func looksNumeric(s string) bool {
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '-' || r == '+':
			if i != 0 {
				return false
			}
		case r == '.' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return seenDigit
}

// Int64 returns the integer payload. Callers must check Kind first.
func (v Value) Int64() int64 {
	return v.i
}

func (v Value) Float64() float64 {
	return v.f
}

func (v Value) Text() string {
	return v.s
}

func (v Value) TimeVal() time.Time {
	return v.t
}

// AsDecimal unifies any numeric value into a decimal so that 5, 5.0 and
// "5.00" compare equal regardless of the representation the source chose.
func (v Value) AsDecimal() (*apd.Decimal, bool) {
	switch v.kind {
	case KindInt:
		return apd.New(v.i, 0), true
	case KindFloat:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(v.f); err != nil {
			return nil, false
		}
		return d, true
	case KindDecimal:
		return v.d, true
	}
	return nil, false
}

// String renders the value for keys, logs and exports.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		return v.d.String()
	case KindString:
		return v.s
	case KindTime:
		return v.t.UTC().Format(time.RFC3339Nano)
	}
	return ""
}

// Identical reports whether two values are the same under strict structural
// equality, with numeric kinds unified. Omission and tolerance rules layer on
// top of this in the normalize and compare packages.
func (v Value) Identical(o Value) bool {
	if v.IsNumeric() && o.IsNumeric() {
		vd, vok := v.AsDecimal()
		od, ook := o.AsDecimal()
		if vok && ook {
			return vd.Cmp(od) == 0
		}
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}
