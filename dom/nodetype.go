// Package dom provides the live document tree the toolkit operates on: nodes,
// elements, documents, class lists, live collections and the host-level
// listener tables used by both event registration models.
package dom

// NodeType is the numeric nodeType a host reports for a node.
type NodeType uint16

const (
	ElementNode          NodeType = 1
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentNode         NodeType = 9
	DocumentTypeNode     NodeType = 10
	DocumentFragmentNode NodeType = 11
)

var nodeTypeNames = map[NodeType]string{
	ElementNode:          "ELEMENT_NODE",
	TextNode:             "TEXT_NODE",
	CommentNode:          "COMMENT_NODE",
	DocumentNode:         "DOCUMENT_NODE",
	DocumentTypeNode:     "DOCUMENT_TYPE_NODE",
	DocumentFragmentNode: "DOCUMENT_FRAGMENT_NODE",
}

func (nt NodeType) String() string {
	if name, ok := nodeTypeNames[nt]; ok {
		return name
	}
	return "UNKNOWN_NODE"
}
