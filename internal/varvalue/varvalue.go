// Package varvalue defines the tagged value type shared by UI variables,
// equations and simulation modules. A Value is one of five kinds - number,
// string, array, matrix or table - backed by a cty.Value so that values
// decoded from declarative configuration flow through the engine unchanged.
package varvalue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind discriminates the five value shapes a variable may hold.
type Kind int

const (
	// KindInvalid is the kind of the zero Value, meaning "no value".
	KindInvalid Kind = iota
	KindNumber
	KindString
	KindArray
	KindMatrix
	KindTable
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMatrix:
		return "matrix"
	case KindTable:
		return "table"
	default:
		return "invalid"
	}
}

// Value is an immutable variable value. The zero Value reports
// IsSet() == false and belongs to no kind.
type Value struct {
	v    cty.Value
	kind Kind
}

// Number builds a numeric Value.
func Number(f float64) Value {
	return Value{v: cty.NumberFloatVal(f), kind: KindNumber}
}

// String builds a string Value.
func String(s string) Value {
	return Value{v: cty.StringVal(s), kind: KindString}
}

// Array builds a one-dimensional numeric Value.
func Array(fs []float64) Value {
	elems := make([]cty.Value, len(fs))
	for i, f := range fs {
		elems[i] = cty.NumberFloatVal(f)
	}
	if len(elems) == 0 {
		return Value{v: cty.ListValEmpty(cty.Number), kind: KindArray}
	}
	return Value{v: cty.ListVal(elems), kind: KindArray}
}

// Matrix builds a two-dimensional numeric Value. All rows must have the
// same length; cty enforces this when the list is assembled.
func Matrix(rows [][]float64) Value {
	outer := make([]cty.Value, len(rows))
	for i, row := range rows {
		outer[i] = Array(row).v
	}
	if len(outer) == 0 {
		return Value{v: cty.ListValEmpty(cty.List(cty.Number)), kind: KindMatrix}
	}
	return Value{v: cty.ListVal(outer), kind: KindMatrix}
}

// Table builds a keyed Value from named members.
func Table(members map[string]Value) Value {
	attrs := make(map[string]cty.Value, len(members))
	for name, member := range members {
		attrs[name] = member.v
	}
	if len(attrs) == 0 {
		return Value{v: cty.EmptyObjectVal, kind: KindTable}
	}
	return Value{v: cty.ObjectVal(attrs), kind: KindTable}
}

// FromCty classifies a cty.Value into one of the five kinds. It is the
// bridge used by the configuration loaders; shapes outside the variable
// model (bools, sets, mixed tuples) are rejected.
func FromCty(v cty.Value) (Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return Value{}, nil
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("unknown value cannot be classified")
	}
	ty := v.Type()
	switch {
	case ty == cty.Number:
		return Value{v: v, kind: KindNumber}, nil
	case ty == cty.String:
		return Value{v: v, kind: KindString}, nil
	case ty.IsListType() || ty.IsTupleType():
		return fromCtySequence(v)
	case ty.IsObjectType() || ty.IsMapType():
		return fromCtyTable(v)
	default:
		return Value{}, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

func fromCtySequence(v cty.Value) (Value, error) {
	if v.LengthInt() == 0 {
		return Value{v: cty.ListValEmpty(cty.Number), kind: KindArray}, nil
	}
	var scalars, rows []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		switch {
		case elem.Type() == cty.Number:
			scalars = append(scalars, elem)
		case elem.Type().IsListType() || elem.Type().IsTupleType():
			row, err := fromCtySequence(elem)
			if err != nil || row.kind != KindArray {
				return Value{}, fmt.Errorf("matrix row must contain only numbers")
			}
			rows = append(rows, row.v)
		default:
			return Value{}, fmt.Errorf("sequence element has unsupported type %s", elem.Type().FriendlyName())
		}
	}
	if len(scalars) > 0 && len(rows) > 0 {
		return Value{}, fmt.Errorf("sequence mixes scalars and rows")
	}
	if len(rows) > 0 {
		return Value{v: cty.ListVal(rows), kind: KindMatrix}, nil
	}
	return Value{v: cty.ListVal(scalars), kind: KindArray}, nil
}

func fromCtyTable(v cty.Value) (Value, error) {
	attrs := make(map[string]cty.Value)
	for it := v.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		member, err := FromCty(elem)
		if err != nil {
			return Value{}, fmt.Errorf("table member %q: %w", key.AsString(), err)
		}
		attrs[key.AsString()] = member.v
	}
	if len(attrs) == 0 {
		return Value{v: cty.EmptyObjectVal, kind: KindTable}, nil
	}
	return Value{v: cty.ObjectVal(attrs), kind: KindTable}, nil
}

// Kind reports which of the five shapes the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsSet reports whether the value holds anything at all.
func (v Value) IsSet() bool { return v.kind != KindInvalid }

// Cty exposes the underlying cty.Value for loaders and exporters.
func (v Value) Cty() cty.Value { return v.v }

// AsFloat returns the numeric payload. It panics on non-number kinds,
// mirroring cty's own accessor discipline.
func (v Value) AsFloat() float64 {
	if v.kind != KindNumber {
		panic(fmt.Sprintf("varvalue: AsFloat on %s value", v.kind))
	}
	f, _ := v.v.AsBigFloat().Float64()
	return f
}

// AsString returns the string payload. It panics on non-string kinds.
func (v Value) AsString() string {
	if v.kind != KindString {
		panic(fmt.Sprintf("varvalue: AsString on %s value", v.kind))
	}
	return v.v.AsString()
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindInvalid {
		return true
	}
	return v.v.RawEquals(o.v)
}

// String renders a stable, human-readable form used by the exporter.
// Kinds render exhaustively; there is exactly one rendering per shape.
func (v Value) String() string {
	switch v.kind {
	case KindInvalid:
		return "<unset>"
	case KindNumber:
		return v.v.AsBigFloat().Text('g', -1)
	case KindString:
		return fmt.Sprintf("'%s'", v.v.AsString())
	case KindArray, KindMatrix:
		var parts []string
		for it := v.v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			inner, _ := FromCty(elem)
			parts = append(parts, inner.String())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindTable:
		keys := make([]string, 0, v.v.LengthInt())
		members := make(map[string]string)
		for it := v.v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			inner, _ := FromCty(elem)
			keys = append(keys, key.AsString())
			members[key.AsString()] = inner.String()
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("'%s': %s", k, members[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<unset>"
	}
}
