// Package label defines the value domain shared between the grading
// harness and candidate implementations: a small tagged union over the
// label kinds the battery exercises, with type-strict equality and a
// single canonical representative for floating-point NaN.
package label

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrLengthMismatch is the error kind a metric implementation must
// return when the truth and predicted sequences differ in length.
// Wrapping it with fmt.Errorf("...: %w", ...) is fine; the harness
// matches with errors.Is.
var ErrLengthMismatch = errors.New("truth and predicted must have the same length")

// Kind discriminates the concrete label variants.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindNaN
	KindBool
	KindString
	KindTuple
	KindSet
)

// Value is one classification label. The zero value is Int(0).
//
// Value is comparable, so it can be used directly as a map key. Two
// caveats follow from that: a Float holding NaN never compares equal
// to anything (including itself) until normalized, and composite
// values compare by their canonical member encoding, which makes set
// equality independent of insertion order.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string // text for String; canonical member encoding for Tuple/Set
}

// Int returns an integer label.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point label. NaN inputs are kept as-is;
// Normalize collapses them to the shared NaN tag.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// NaN returns the shared canonical NaN label, the normalized form of
// every NaN-valued Float.
func NaN() Value { return Value{kind: KindNaN} }

// Bool returns a boolean label. Bool(true) is a distinct class from
// Int(1).
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// String returns a string label.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Tuple returns an ordered composite label. Member order is
// significant: Tuple(a, b) and Tuple(b, a) are different classes.
func Tuple(members ...Value) Value {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key()
	}
	return Value{kind: KindTuple, s: joinKeys(keys)}
}

// Set returns an unordered composite label. Insertion order is
// irrelevant: Set(a, b) equals Set(b, a).
func Set(members ...Value) Value {
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key()
	}
	sort.Strings(keys)
	return Value{kind: KindSet, s: joinKeys(keys)}
}

// joinKeys frames each member key with its length before joining, so
// a member whose key happens to contain the separator (a crafted
// string label, a nested composite) cannot collide with a different
// member list.
func joinKeys(keys []string) string {
	framed := make([]string, len(keys))
	for i, k := range keys {
		framed[i] = strconv.Itoa(len(k)) + ":" + k
	}
	return strings.Join(framed, "\x1f")
}

// splitKeys inverts joinKeys for rendering. A malformed encoding is
// returned as-is; it can only come from a hand-built Value.
func splitKeys(s string) []string {
	var out []string
	for len(s) > 0 {
		idx := strings.IndexByte(s, ':')
		if idx < 0 {
			return []string{s}
		}
		n, err := strconv.Atoi(s[:idx])
		if err != nil || idx+1+n > len(s) {
			return []string{s}
		}
		out = append(out, s[idx+1:idx+1+n])
		s = strings.TrimPrefix(s[idx+1+n:], "\x1f")
	}
	return out
}

// Kind reports the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNaN reports whether v is NaN-valued, either the canonical NaN tag
// or a not-yet-normalized Float holding NaN.
func (v Value) IsNaN() bool {
	return v.kind == KindNaN || (v.kind == KindFloat && math.IsNaN(v.f))
}

// Key returns a deterministic canonical encoding of v. Keys of values
// with different kinds never collide, and all NaN-valued labels share
// one key. Useful as a map key in candidate code and for stable
// enumeration order in diagnostics.
func (v Value) Key() string {
	switch v.kind {
	case KindInt:
		return "int:" + strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return "nan"
		}
		return "float:" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindNaN:
		return "nan"
	case KindBool:
		return "bool:" + strconv.FormatBool(v.b)
	case KindString:
		return "str:" + v.s
	case KindTuple:
		return "tuple:(" + v.s + ")"
	case KindSet:
		return "set:{" + v.s + "}"
	}
	return "invalid"
}

// String renders v for human-readable output.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return "NaN"
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindNaN:
		return "NaN"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindTuple:
		return "(" + strings.Join(splitKeys(v.s), ", ") + ")"
	case KindSet:
		return "{" + strings.Join(splitKeys(v.s), ", ") + "}"
	}
	return "invalid"
}

// Normalize maps every NaN-valued Float to the shared NaN tag and
// returns all other values unchanged. It is pure and idempotent:
// Normalize(Normalize(v)) == Normalize(v) for every v.
func Normalize(v Value) Value {
	if v.kind == KindFloat && math.IsNaN(v.f) {
		return NaN()
	}
	return v
}

// Equal reports whether two labels belong to the same class: their
// normalized forms are identical under type-strict equality.
func Equal(a, b Value) bool {
	return Normalize(a) == Normalize(b)
}

// Ints builds a label slice from integers.
func Ints(vs ...int64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Int(v)
	}
	return out
}

// Strings builds a label slice from strings.
func Strings(vs ...string) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = String(v)
	}
	return out
}

// Floats builds a label slice from floats.
func Floats(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}
