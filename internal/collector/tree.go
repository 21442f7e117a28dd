package collector

import (
	"sort"
	"strings"
)

// Node is one entry of the rendered directory tree
type Node struct {
	Name     string
	children map[string]*Node
}

// NewNode creates an empty tree node
func NewNode(name string) *Node {
	return &Node{Name: name, children: make(map[string]*Node)}
}

// Add inserts a slash-separated relative path as a chain of nodes
func (n *Node) Add(relPath string) {
	curr := n
	for _, part := range strings.Split(relPath, "/") {
		if part == "" {
			continue
		}
		child, ok := curr.children[part]
		if !ok {
			child = NewNode(part)
			curr.children[part] = child
		}
		curr = child
	}
}

// Children returns the child nodes in byte-wise name order
func (n *Node) Children() []*Node {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Node, len(names))
	for i, name := range names {
		out[i] = n.children[name]
	}
	return out
}

// Render draws the tree with box-drawing connectors, one node per line
func (n *Node) Render() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	sb.WriteString("\n")
	n.renderChildren(&sb, "")
	return sb.String()
}

func (n *Node) renderChildren(sb *strings.Builder, prefix string) {
	children := n.Children()
	for i, child := range children {
		last := i == len(children)-1

		sb.WriteString(prefix)
		if last {
			sb.WriteString("└──")
		} else {
			sb.WriteString("├──")
		}
		sb.WriteString(child.Name)
		sb.WriteString("\n")

		childPrefix := prefix + "│  "
		if last {
			childPrefix = prefix + "    "
		}
		child.renderChildren(sb, childPrefix)
	}
}
