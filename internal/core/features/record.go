// Package features holds the per-request feature record that flows through pipeline stages
package features

import (
	"math"
	"sort"
	"strconv"
)

// Kind tags what a Value carries
type Kind uint8

const (
	// KindNumber is a float64 value
	KindNumber Kind = iota + 1
	// KindString is a categorical or free text value
	KindString
)

// String renders the kind for error messages
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar, either a number or a string
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number builds a numeric value
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// String builds a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Kind returns the value kind
func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v carries a float64
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float returns the numeric payload and whether v is numeric
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string payload and whether v is a string
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Any returns the payload as float64 or string
func (v Value) Any() any {
	if v.kind == KindNumber {
		return v.num
	}
	return v.str
}

// Format renders the payload for logs and error messages
func (v Value) Format() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return strconv.Quote(v.str)
}

// Identical compares kinds and payloads, numbers bit for bit
func (v Value) Identical(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return math.Float64bits(v.num) == math.Float64bits(o.num)
	}
	return v.str == o.str
}

// Record is the mutable working copy of one input as it moves through stages
// a Record belongs to exactly one request and is never shared
type Record struct {
	vals map[string]Value
}

// NewRecord returns an empty record sized for n fields
func NewRecord(n int) Record { return Record{vals: make(map[string]Value, n)} }

// Clone returns a deep copy so stages can work without touching their input
func (r Record) Clone() Record {
	out := make(map[string]Value, len(r.vals))
	for k, v := range r.vals {
		out[k] = v
	}
	return Record{vals: out}
}

// Len returns the number of fields
func (r Record) Len() int { return len(r.vals) }

// Get returns the value for name
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.vals[name]
	return v, ok
}

// Has reports whether name is present
func (r Record) Has(name string) bool {
	_, ok := r.vals[name]
	return ok
}

// Set stores v under name
func (r Record) Set(name string, v Value) { r.vals[name] = v }

// SetNumber stores a numeric value
func (r Record) SetNumber(name string, f float64) { r.vals[name] = Number(f) }

// SetString stores a string value
func (r Record) SetString(name, s string) { r.vals[name] = String(s) }

// Delete removes name if present
func (r Record) Delete(name string) { delete(r.vals, name) }

// Names returns field names in sorted order
func (r Record) Names() []string {
	out := make([]string, 0, len(r.vals))
	for k := range r.vals {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Shape returns the name to kind view of the record
func (r Record) Shape() Shape {
	s := make(Shape, len(r.vals))
	for k, v := range r.vals {
		s[k] = v.kind
	}
	return s
}

// Equal reports whether both records hold the same fields with identical values
func (r Record) Equal(o Record) bool {
	if len(r.vals) != len(o.vals) {
		return false
	}
	for k, v := range r.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Identical(ov) {
			return false
		}
	}
	return true
}

// Map returns a plain copy with float64 and string payloads, handy for logs and tests
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.vals))
	for k, v := range r.vals {
		out[k] = v.Any()
	}
	return out
}
