package features

import "sort"

// Shape is the static name to kind view of a record
// pipelines thread a Shape through every stage at build time to catch ordering mistakes
type Shape map[string]Kind

// Clone copies the shape
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Names returns the field names in sorted order
func (s Shape) Names() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Missing returns the names not present in s
func (s Shape) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if _, ok := s[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
