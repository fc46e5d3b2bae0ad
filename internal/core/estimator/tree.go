package estimator

import (
	"fmt"
	"sort"
)

// KindDecisionTree is the artifact kind for DecisionTree
const KindDecisionTree = "decision_tree"

// TreeNode is one row of a flattened binary tree
// a node with Leaf set is terminal; otherwise x[Feature] <= Threshold goes Left, else Right
type TreeNode struct {
	Feature   string  `yaml:"feature"`
	Threshold float64 `yaml:"threshold"`
	Left      int     `yaml:"left"`
	Right     int     `yaml:"right"`
	Leaf      *int    `yaml:"leaf"`
}

type node struct {
	feature     int
	threshold   float64
	left, right int
	leaf        int
	terminal    bool
}

// DecisionTree walks a flat node table from node 0
// children always have larger indexes than their parent so every walk terminates
type DecisionTree struct {
	features []string
	nodes    []node
}

// NewDecisionTree validates and resolves the node table
func NewDecisionTree(features []string, rows []TreeNode) (*DecisionTree, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("decision tree: no nodes")
	}
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f] = i
	}
	t := &DecisionTree{features: append([]string(nil), features...), nodes: make([]node, len(rows))}
	for i, r := range rows {
		if r.Leaf != nil {
			t.nodes[i] = node{leaf: *r.Leaf, terminal: true}
			continue
		}
		fi, ok := index[r.Feature]
		if !ok {
			return nil, fmt.Errorf("decision tree: node %d splits on unknown feature %q", i, r.Feature)
		}
		for _, c := range []int{r.Left, r.Right} {
			if c <= i || c >= len(rows) {
				return nil, fmt.Errorf("decision tree: node %d has child %d outside (%d, %d)", i, c, i, len(rows))
			}
		}
		t.nodes[i] = node{feature: fi, threshold: r.Threshold, left: r.Left, right: r.Right}
	}
	return t, nil
}

// Kind implements Estimator
func (*DecisionTree) Kind() string { return KindDecisionTree }

// Features implements Estimator
func (t *DecisionTree) Features() []string { return append([]string(nil), t.features...) }

// Predict implements Estimator
func (t *DecisionTree) Predict(x []float64) (int, error) {
	if err := checkInput(x, len(t.features)); err != nil {
		return 0, err
	}
	i := 0
	for {
		n := t.nodes[i]
		if n.terminal {
			return n.leaf, nil
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// Outputs lists the distinct leaf codes in ascending order
func (t *DecisionTree) Outputs() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, n := range t.nodes {
		if !n.terminal {
			continue
		}
		if _, ok := seen[n.leaf]; !ok {
			seen[n.leaf] = struct{}{}
			out = append(out, n.leaf)
		}
	}
	sort.Ints(out)
	return out
}
