package analysis

import (
	"ecommerce-analytics/core/table"
)

// Node is a tagged aggregation result: either a single flat table (Leaf)
// or a named collection of child nodes (Group). Export recursion walks
// the variant instead of duck-typing on structure.
type Node interface {
	isNode()
}

// Leaf is a single flat aggregation table
type Leaf struct {
	Table *table.Table
}

func (Leaf) isNode() {}

// Group is an ordered, named collection of result nodes
type Group struct {
	names    []string
	children map[string]Node
}

// NewGroup creates an empty group
func NewGroup() *Group {
	return &Group{children: make(map[string]Node)}
}

func (*Group) isNode() {}

// Add appends a named child, replacing any existing child of that name
func (g *Group) Add(name string, n Node) {
	if _, exists := g.children[name]; !exists {
		g.names = append(g.names, name)
	}
	g.children[name] = n
}

// Names returns the child names in insertion order
func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}

// Child returns a named child node
func (g *Group) Child(name string) (Node, bool) {
	n, ok := g.children[name]
	return n, ok
}

// Len returns the number of children
func (g *Group) Len() int {
	return len(g.names)
}

// Warning records a non-fatal failure of an optional breakdown. The
// owning call still succeeds; the affected breakdown is omitted.
type Warning struct {
	// Analysis names the breakdown that failed
	Analysis string

	// Message describes why it was omitted
	Message string
}

// CountLeaves returns the number of leaf tables reachable from a node
func CountLeaves(n Node) int {
	switch v := n.(type) {
	case Leaf:
		return 1
	case *Group:
		total := 0
		for _, name := range v.Names() {
			child, _ := v.Child(name)
			total += CountLeaves(child)
		}
		return total
	}
	return 0
}
