// Package hcl - decoded attribute values.
// CTY values are NEVER blindly passed through.
// Unevaluable expressions MUST be kept as raw source text.
package hcl

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind indicates the shape of a decoded value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	// KindExpr is an expression that could not be evaluated statically
	// (variable references, function calls, interpolations). Str holds
	// the raw source text.
	KindExpr
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindExpr:
		return "expr"
	default:
		return "null"
	}
}

// Value is a decoded attribute value. The zero Value is null.
type Value struct {
	Kind Kind

	// Bool is set for KindBool
	Bool bool

	// Num is set for KindNumber
	Num float64

	// Str holds string content for KindString, raw source for KindExpr
	Str string

	// List is set for KindList
	List []Value

	// Map is set for KindMap
	Map *Body
}

// Scalar unwraps a one-element list. Attribute values sometimes arrive
// as a single-element list wrapping the scalar; every reader of a
// scalar attribute goes through this so the ambiguity is resolved in
// exactly one place.
func (v Value) Scalar() Value {
	if v.Kind == KindList && len(v.List) == 1 {
		return v.List[0]
	}
	return v
}

// IsTruthy reports whether the value is non-empty and non-false:
// null, false, zero, the empty string, and empty collections are all
// falsy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindMap:
		return v.Map.Len() > 0
	case KindExpr:
		return v.Str != ""
	default:
		return false
	}
}

// IsEmptyLiteral reports whether the value is one of the three empty
// literals: null, "" or []. False, zero and empty maps do NOT count
// as empty here.
func (v Value) IsEmptyLiteral() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindString:
		return v.Str == ""
	case KindList:
		return len(v.List) == 0
	default:
		return false
	}
}

// AsString returns the string content, or empty if not a string
func (v Value) AsString() string {
	if v.Kind != KindString {
		return ""
	}
	return v.Str
}

// Text renders the value for substring matching. A plain string
// renders bare; an unevaluated expression renders as ${raw};
// containers render in literal form with their strings single-quoted,
// so that double quotes inside string content (for example embedded
// JSON policy documents) remain searchable.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindExpr:
		return "${" + v.Str + "}"
	default:
		var sb strings.Builder
		v.render(&sb)
		return sb.String()
	}
}

func (v Value) render(sb *strings.Builder) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.Num, 'f', -1, 64))
	case KindString:
		sb.WriteString("'")
		sb.WriteString(v.Str)
		sb.WriteString("'")
	case KindExpr:
		sb.WriteString("'${")
		sb.WriteString(v.Str)
		sb.WriteString("}'")
	case KindList:
		sb.WriteString("[")
		for i, elem := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			elem.render(sb)
		}
		sb.WriteString("]")
	case KindMap:
		v.Map.render(sb)
	}
}

// FromCty converts a known cty.Value into a Value. Unknown elements
// inside containers degrade to null rather than failing the whole
// conversion.
func FromCty(val cty.Value) Value {
	if !val.IsKnown() {
		return Value{}
	}
	if val.IsNull() {
		return Value{}
	}

	switch {
	case val.Type() == cty.String:
		return Value{Kind: KindString, Str: val.AsString()}

	case val.Type() == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return Value{Kind: KindNumber, Num: f}

	case val.Type() == cty.Bool:
		return Value{Kind: KindBool, Bool: val.True()}

	case val.Type().IsListType() || val.Type().IsSetType() || val.Type().IsTupleType():
		return Value{Kind: KindList, List: convertElems(val)}

	case val.Type().IsMapType() || val.Type().IsObjectType():
		return Value{Kind: KindMap, Map: convertPairs(val)}

	default:
		return Value{}
	}
}

func convertElems(val cty.Value) []Value {
	if !val.CanIterateElements() {
		return nil
	}
	result := make([]Value, 0, val.LengthInt())
	iter := val.ElementIterator()
	for iter.Next() {
		_, elem := iter.Element()
		result = append(result, FromCty(elem))
	}
	return result
}

func convertPairs(val cty.Value) *Body {
	body := newBody()
	if !val.CanIterateElements() {
		return body
	}
	iter := val.ElementIterator()
	for iter.Next() {
		k, elem := iter.Element()
		if k.Type() != cty.String || k.IsNull() || !k.IsKnown() {
			continue
		}
		body.put(k.AsString(), FromCty(elem))
	}
	return body
}

// Body is an ordered attribute mapping: a block body, or a map value.
// Keys preserve insertion order. A nil Body behaves as empty.
type Body struct {
	keys  []string
	attrs map[string]Value
}

func newBody() *Body {
	return &Body{attrs: make(map[string]Value)}
}

// Has reports whether the attribute is present
func (b *Body) Has(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.attrs[name]
	return ok
}

// Get returns the attribute value, or a null Value if absent
func (b *Body) Get(name string) Value {
	if b == nil {
		return Value{}
	}
	return b.attrs[name]
}

// Keys returns attribute names in insertion order
func (b *Body) Keys() []string {
	if b == nil {
		return nil
	}
	return b.keys
}

// Len returns the number of attributes
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Text renders the body in literal form for substring matching
func (b *Body) Text() string {
	var sb strings.Builder
	b.render(&sb)
	return sb.String()
}

func (b *Body) render(sb *strings.Builder) {
	sb.WriteString("{")
	if b != nil {
		for i, key := range b.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("'")
			sb.WriteString(key)
			sb.WriteString("': ")
			b.attrs[key].render(sb)
		}
	}
	sb.WriteString("}")
}

func (b *Body) put(name string, v Value) {
	if _, ok := b.attrs[name]; !ok {
		b.keys = append(b.keys, name)
	}
	b.attrs[name] = v
}

// appendBlock records one occurrence of a nested block. Repeated
// blocks of the same type accumulate into a list, matching how
// repeated blocks (ingress, ebs_block_device, ...) behave.
func (b *Body) appendBlock(name string, v Value) {
	existing, ok := b.attrs[name]
	if ok && existing.Kind == KindList {
		existing.List = append(existing.List, v)
		b.attrs[name] = existing
		return
	}
	b.put(name, Value{Kind: KindList, List: []Value{v}})
}
