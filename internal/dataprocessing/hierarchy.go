package dataprocessing

import (
	"sort"
	"strings"

	"svcpulse/pkg/contracts/domain"
)

// CodeSeparator splits a classification code into its hierarchy levels.
const CodeSeparator = "."

const rootIndex = 0

// treeNode is addressed by its position in Tree.nodes. Parent and child
// links are indices, never pointers.
type treeNode struct {
	path     string
	parent   int
	own      int64
	value    int64
	children []int
}

// Tree is a prefix tree over dot-delimited classification codes. The root
// has the empty path and is never pruned.
type Tree struct {
	nodes  []treeNode
	byPath map[string]int
}

// NewTree returns a tree holding only the root.
func NewTree() *Tree {
	return &Tree{
		nodes:  []treeNode{{path: "", parent: -1}},
		byPath: map[string]int{"": rootIndex},
	}
}

// BuildTree inserts every non-blank code of counts, then aggregates and
// prunes the result. Insertion order does not affect the outcome.
func BuildTree(counts map[string]int64) *Tree {
	t := NewTree()
	for code, n := range counts {
		if strings.TrimSpace(code) == "" {
			continue
		}
		t.Insert(code, n)
	}
	t.Aggregate()
	t.Prune()
	return t
}

// Insert creates any missing prefix nodes of code and sets the own value of
// the node for the full code.
func (t *Tree) Insert(code string, count int64) {
	parent := rootIndex
	path := ""
	for i, seg := range strings.Split(code, CodeSeparator) {
		if i == 0 {
			path = seg
		} else {
			path = path + CodeSeparator + seg
		}

		idx, ok := t.byPath[path]
		if !ok {
			idx = len(t.nodes)
			t.nodes = append(t.nodes, treeNode{path: path, parent: parent})
			t.nodes[parent].children = append(t.nodes[parent].children, idx)
			t.byPath[path] = idx
		}
		parent = idx
	}
	t.nodes[parent].own = count
}

// Aggregate sets every node's value to its own value plus the aggregated
// values of its children, and returns the root total.
func (t *Tree) Aggregate() int64 {
	return t.aggregate(rootIndex)
}

func (t *Tree) aggregate(idx int) int64 {
	total := t.nodes[idx].own
	for _, c := range t.nodes[idx].children {
		total += t.aggregate(c)
	}
	t.nodes[idx].value = total
	return total
}

// Prune drops every non-root node whose aggregated value is zero and that
// keeps no children after its own subtree has been pruned. Aggregate must
// run first.
func (t *Tree) Prune() {
	t.prune(rootIndex)
}

// prune reports whether idx survives.
func (t *Tree) prune(idx int) bool {
	node := &t.nodes[idx]
	kept := node.children[:0]
	for _, c := range node.children {
		if t.prune(c) {
			kept = append(kept, c)
		} else {
			delete(t.byPath, t.nodes[c].path)
		}
	}
	node.children = kept
	return idx == rootIndex || node.value > 0 || len(node.children) > 0
}

// Total is the aggregated value of the root.
func (t *Tree) Total() int64 {
	return t.nodes[rootIndex].value
}

// Value returns the aggregated value of the node at path.
func (t *Tree) Value(path string) (int64, bool) {
	idx, ok := t.byPath[path]
	if !ok {
		return 0, false
	}
	return t.nodes[idx].value, true
}

// Children returns the paths of the node's children sorted ascending.
func (t *Tree) Children(path string) []string {
	idx, ok := t.byPath[path]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.nodes[idx].children))
	for _, c := range t.nodes[idx].children {
		out = append(out, t.nodes[c].path)
	}
	sort.Strings(out)
	return out
}

// Len is the number of retained nodes, root included.
func (t *Tree) Len() int {
	return len(t.byPath)
}

// ToNode converts the tree into its serialized form. Children are sorted by
// path and the root is named domain.KlasseRootName.
func (t *Tree) ToNode() *domain.KlasseNode {
	root := t.toNode(rootIndex)
	root.Name = domain.KlasseRootName
	return root
}

func (t *Tree) toNode(idx int) *domain.KlasseNode {
	n := t.nodes[idx]
	out := &domain.KlasseNode{
		Name:     n.path,
		Value:    n.value,
		Children: make([]*domain.KlasseNode, 0, len(n.children)),
	}
	for _, c := range n.children {
		out.Children = append(out.Children, t.toNode(c))
	}
	sort.Slice(out.Children, func(i, j int) bool {
		return out.Children[i].Name < out.Children[j].Name
	})
	return out
}
