package html

import (
	"bytes"

	"golang.org/x/net/html"

	"github.com/chrisuehlinger/swell/dom"
)

// InnerHTML serializes the children of el.
func InnerHTML(el *dom.Element) string {
	if el == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := el.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
		if nn := toNetNode(c); nn != nil {
			// Render only fails on writer errors, which bytes.Buffer never returns.
			_ = html.Render(&buf, nn)
		}
	}
	return buf.String()
}

// OuterHTML serializes el and its subtree.
func OuterHTML(el *dom.Element) string {
	if el == nil {
		return ""
	}
	var buf bytes.Buffer
	if nn := toNetNode(el.AsNode()); nn != nil {
		_ = html.Render(&buf, nn)
	}
	return buf.String()
}

// toNetNode mirrors a dom subtree as golang.org/x/net/html nodes so the
// parser package's renderer can serialize it.
func toNetNode(n *dom.Node) *html.Node {
	switch n.NodeType() {
	case dom.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.NodeValue()}
	case dom.CommentNode:
		return &html.Node{Type: html.CommentNode, Data: n.NodeValue()}
	case dom.DocumentTypeNode:
		return &html.Node{Type: html.DoctypeNode, Data: n.NodeName()}
	case dom.ElementNode:
		el := n.AsElement()
		nn := &html.Node{Type: html.ElementNode, Data: el.LocalName(), DataAtom: el.Atom()}
		for _, a := range el.Attributes() {
			nn.Attr = append(nn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if child := toNetNode(c); child != nil {
				nn.AppendChild(child)
			}
		}
		return nn
	}
	return nil
}
