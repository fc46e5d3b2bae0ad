// Package codec provides frozen bidirectional mappings between string labels and integer codes
package codec

import (
	"fmt"
	"sort"
	"strings"
)

// Categorical is a frozen bijection between labels and codes
// Encode and Decode are inverses over the known set, so Decode(Encode(l)) == l for every label
type Categorical struct {
	toCode  map[string]int
	toLabel map[int]string
}

// NewCategorical builds a codec from label -> code pairs
// duplicate codes or blank labels are rejected since they would break the round trip
func NewCategorical(pairs map[string]int) (*Categorical, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("codec: empty category table")
	}
	c := &Categorical{
		toCode:  make(map[string]int, len(pairs)),
		toLabel: make(map[int]string, len(pairs)),
	}
	for _, label := range sortedLabels(pairs) {
		code := pairs[label]
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("codec: blank label for code %d", code)
		}
		if prev, dup := c.toLabel[code]; dup {
			return nil, fmt.Errorf("codec: code %d used by both %q and %q", code, prev, label)
		}
		c.toCode[label] = code
		c.toLabel[code] = label
	}
	return c, nil
}

// NewCategoricalByCode builds a codec from code -> label pairs, the shape class tables usually come in
func NewCategoricalByCode(pairs map[int]string) (*Categorical, error) {
	inv := make(map[string]int, len(pairs))
	for code, label := range pairs {
		if prev, dup := inv[label]; dup {
			return nil, fmt.Errorf("codec: label %q used by both %d and %d", label, prev, code)
		}
		inv[label] = code
	}
	return NewCategorical(inv)
}

// Encode returns the code for label
func (c *Categorical) Encode(label string) (int, bool) {
	code, ok := c.toCode[label]
	return code, ok
}

// Decode returns the label for code
func (c *Categorical) Decode(code int) (string, bool) {
	label, ok := c.toLabel[code]
	return label, ok
}

// Len returns the number of categories
func (c *Categorical) Len() int { return len(c.toCode) }

// Labels returns the known labels ordered by code
func (c *Categorical) Labels() []string {
	codes := c.Codes()
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = c.toLabel[code]
	}
	return out
}

// Codes returns the known codes in ascending order
func (c *Categorical) Codes() []int {
	out := make([]int, 0, len(c.toLabel))
	for code := range c.toLabel {
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}

// Table returns a code -> label copy for description endpoints
func (c *Categorical) Table() map[int]string {
	out := make(map[int]string, len(c.toLabel))
	for k, v := range c.toLabel {
		out[k] = v
	}
	return out
}

func sortedLabels(pairs map[string]int) []string {
	out := make([]string, 0, len(pairs))
	for k := range pairs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
