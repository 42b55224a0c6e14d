package domain

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Path is one row's lineage from root to leaf, e.g. ["Animals", "Mammals", "Dog"]
type Path []string

func (p Path) String() string {
	return strings.Join(p, " > ")
}

// Node is a labeled taxonomy node. Children keep the order in which their
// labels were first seen; lookup goes through the index.
type Node struct {
	Label    string
	children []*Node
	index    map[string]*Node
}

func newNode(label string) *Node {
	return &Node{
		Label: label,
		index: make(map[string]*Node),
	}
}

// Children returns the node's children in first-occurrence order
func (n *Node) Children() []*Node {
	return n.children
}

// Child looks up a direct child by label
func (n *Node) Child(label string) (*Node, bool) {
	child, ok := n.index[label]
	return child, ok
}

func (n *Node) childOrCreate(label string) (*Node, bool) {
	if child, ok := n.index[label]; ok {
		return child, false
	}
	child := newNode(label)
	n.index[label] = child
	n.children = append(n.children, child)
	return child, true
}

func (n *Node) count() int {
	total := 1
	for _, child := range n.children {
		total += child.count()
	}
	return total
}

// Forest is an ordered set of root nodes
type Forest struct {
	root *Node
	size int
}

func NewForest() *Forest {
	return &Forest{root: newNode("")}
}

// Insert walks the path from the top, creating missing nodes along the way.
// Rows sharing a prefix share the ancestor nodes.
func (f *Forest) Insert(path Path) {
	current := f.root
	for _, label := range path {
		var created bool
		current, created = current.childOrCreate(label)
		if created {
			f.size++
		}
	}
}

// Roots returns the top-level nodes in insertion order
func (f *Forest) Roots() []*Node {
	return f.root.children
}

// Root looks up a top-level node by label
func (f *Forest) Root(label string) (*Node, bool) {
	return f.root.Child(label)
}

// Len is the number of distinct nodes in the forest
func (f *Forest) Len() int {
	return f.size
}

// Descendants counts every node below n, n excluded
func Descendants(n *Node) int {
	return n.count() - 1
}

// MarshalYAML renders the forest as nested mappings, keeping child order.
// Leaves are rendered as empty mappings.
func (f *Forest) MarshalYAML() (interface{}, error) {
	return nodesToYAML(f.root.children), nil
}

func nodesToYAML(nodes []*Node) *yaml.Node {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, n := range nodes {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Label},
			nodesToYAML(n.children),
		)
	}
	return mapping
}
