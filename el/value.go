package el

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindMap
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "Undefined"
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindRange:
		return "Range"
	default:
		return "Unknown"
	}
}

// Location is an optional source position, attached to a Value by the
// expression evaluator so error messages can point back at the
// literal or subscript that produced it.
type Location struct {
	Line, Column int
	Valid        bool
}

// RangeData is the payload of a Range value: an inclusive integer
// sequence, ascending if From <= To, descending otherwise.
type RangeData struct {
	From, To int
}

// Len returns the number of integers in the range.
func (r RangeData) Len() int {
	if r.From <= r.To {
		return r.To - r.From + 1
	}
	return r.From - r.To + 1
}

// At returns the i-th integer in the range's natural direction.
func (r RangeData) At(i int) int {
	if r.From <= r.To {
		return r.From + i
	}
	return r.From - i
}

// Values materializes the range as a slice of ints.
func (r RangeData) Values() []int {
	out := make([]int, r.Len())
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Value is an immutable, tagged JSON-like value: the unit of data the
// expression language computes with. Every operation on a Value
// returns a new Value (or an error); none mutate the receiver.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	m    map[string]Value
	rng  RangeData
	loc  Location
}

// Undefined is the value produced by a failed lookup, a switch with no
// matching case, or an out-of-range subscript.
var Undefined = Value{kind: KindUndefined}

// Null is the explicit absence-of-value literal.
var Null = Value{kind: KindNull}

// NewBoolean wraps a bool.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// NewNumber wraps a float64.
func NewNumber(n float64) Value { return Value{kind: KindNumber, n: n} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: KindString, s: s} }

// NewArray wraps an ordered sequence of values. The slice is retained,
// not copied; callers must not mutate it afterward.
func NewArray(items []Value) Value { return Value{kind: KindArray, arr: items} }

// NewMap wraps a string-keyed association. The map is retained, not
// copied; callers must not mutate it afterward.
func NewMap(entries map[string]Value) Value { return Value{kind: KindMap, m: entries} }

// NewRange wraps an inclusive integer sequence.
func NewRange(from, to int) Value { return Value{kind: KindRange, rng: RangeData{From: from, To: to}} }

// WithLocation returns a copy of v carrying the given source location.
func (v Value) WithLocation(loc Location) Value {
	v.loc = loc
	return v
}

// Location returns v's source location, if any.
func (v Value) Location() Location { return v.loc }

// Kind returns v's discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the Undefined sentinel.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is the Null sentinel.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the raw bool payload; only meaningful when Kind() == KindBoolean.
func (v Value) BoolValue() bool { return v.b }

// NumberValue returns the raw float64 payload; only meaningful when Kind() == KindNumber.
func (v Value) NumberValue() float64 { return v.n }

// StringValue returns the raw string payload; only meaningful when Kind() == KindString.
func (v Value) StringValue() string { return v.s }

// ArrayValue returns the raw slice payload; only meaningful when Kind() == KindArray.
func (v Value) ArrayValue() []Value { return v.arr }

// MapValue returns the raw map payload; only meaningful when Kind() == KindMap.
func (v Value) MapValue() map[string]Value { return v.m }

// RangeValue returns the raw range payload; only meaningful when Kind() == KindRange.
func (v Value) RangeValue() RangeData { return v.rng }

// ToBoolean coerces v per the language's truthiness rules: Booleans
// pass through, numbers are nonzero, strings are non-empty, Null is
// false, and anything else (Array/Map/Range/Undefined) is an
// InvalidOperands error.
func (v Value) ToBoolean() (bool, error) {
	switch v.kind {
	case KindBoolean:
		return v.b, nil
	case KindNumber:
		return v.n != 0, nil
	case KindString:
		return v.s != "", nil
	case KindNull:
		return false, nil
	default:
		return false, newEvalError(ErrInvalidOperands, "cannot coerce %s to Boolean", v.kind)
	}
}

// ToNumber coerces v per the language's numeric rules: Numbers pass
// through, Booleans become 0/1, Null becomes 0, numeric strings parse,
// and anything else is an InvalidOperands error.
func (v Value) ToNumber() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.n, nil
	case KindBoolean:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindNull:
		return 0, nil
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, newEvalError(ErrInvalidOperands, "cannot coerce %q to Number", v.s)
		}
		return n, nil
	default:
		return 0, newEvalError(ErrInvalidOperands, "cannot coerce %s to Number", v.kind)
	}
}

// ToString coerces v to its textual representation. Every kind has a
// defined string form; ToString never fails.
func (v Value) ToString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindBoolean:
		if v.b {
			return "true", nil
		}
		return "false", nil
	case KindNumber:
		return formatNumber(v.n), nil
	case KindNull:
		return "null", nil
	case KindUndefined:
		return "undefined", nil
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			s, _ := e.ToString()
			if e.kind == KindString {
				s = quoteString(s)
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case KindMap:
		keys := v.sortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			val := v.m[k]
			s, _ := val.ToString()
			if val.kind == KindString {
				s = quoteString(s)
			}
			parts[i] = k + ": " + s
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	case KindRange:
		return fmt.Sprintf("%d..%d", v.rng.From, v.rng.To), nil
	default:
		return "", newEvalError(ErrInvalidOperands, "cannot coerce %s to String", v.kind)
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if math.IsNaN(n) {
		return "NaN"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func (v Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Length returns the element count of an Array, String (rune count),
// Map or Range. It is the basis for the `..` auto-range subscript
// parameter (spec §4.1, __AutoRangeParameter).
func (v Value) Length() (int, error) {
	switch v.kind {
	case KindArray:
		return len(v.arr), nil
	case KindString:
		return len([]rune(v.s)), nil
	case KindMap:
		return len(v.m), nil
	case KindRange:
		return v.rng.Len(), nil
	default:
		return 0, newEvalError(ErrInvalidOperands, "%s has no length", v.kind)
	}
}
