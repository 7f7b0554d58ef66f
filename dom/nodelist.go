package dom

// NodeList is an ordered list of nodes. A list obtained from ChildNodes
// follows its parent's children as the tree changes; one made with
// NewStaticNodeList is fixed at construction.
type NodeList struct {
	parent *Node
	nodes  []*Node
}

func newNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent}
}

// NewStaticNodeList snapshots nodes.
func NewStaticNodeList(nodes []*Node) *NodeList {
	return &NodeList{nodes: append([]*Node(nil), nodes...)}
}

// ToSlice returns the current members in order.
func (nl *NodeList) ToSlice() []*Node {
	if nl.parent == nil {
		return append([]*Node(nil), nl.nodes...)
	}
	var out []*Node
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

func (nl *NodeList) Length() int {
	if nl.parent == nil {
		return len(nl.nodes)
	}
	n := 0
	for c := nl.parent.firstChild; c != nil; c = c.nextSibling {
		n++
	}
	return n
}

// Item returns the node at index, or nil when index is out of range.
func (nl *NodeList) Item(index int) *Node {
	if index < 0 {
		return nil
	}
	if nl.parent == nil {
		if index >= len(nl.nodes) {
			return nil
		}
		return nl.nodes[index]
	}
	c := nl.parent.firstChild
	for ; c != nil && index > 0; index-- {
		c = c.nextSibling
	}
	return c
}
