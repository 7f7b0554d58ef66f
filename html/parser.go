// Package html builds dom documents from HTML text using golang.org/x/net/html
// as the underlying parser implementation.
package html

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/swell/dom"
)

// Parse parses an HTML document from r into a new dom.Document.
// The document is left in the loading state.
func Parse(r io.Reader) (*dom.Document, error) {
	netNode, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := dom.NewDocument()
	for c := netNode.FirstChild; c != nil; c = c.NextSibling {
		if child := convertNode(doc, c); child != nil {
			doc.AppendChild(child)
		}
	}
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*dom.Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses an HTML fragment in the context of an element and
// returns the resulting top-level nodes, owned by doc but not yet inserted.
func ParseFragment(doc *dom.Document, fragment string, context *dom.Element) ([]*dom.Node, error) {
	var contextNode *html.Node
	if context != nil {
		contextNode = &html.Node{
			Type:     html.ElementNode,
			DataAtom: context.Atom(),
			Data:     context.LocalName(),
		}
	} else {
		contextNode = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	netNodes, err := html.ParseFragment(strings.NewReader(fragment), contextNode)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	nodes := make([]*dom.Node, 0, len(netNodes))
	for _, nn := range netNodes {
		if n := convertNode(doc, nn); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// SetInnerHTML replaces the children of el with the parsed fragment.
func SetInnerHTML(el *dom.Element, fragment string) error {
	doc := el.AsNode().OwnerDocument()
	nodes, err := ParseFragment(doc, fragment, el)
	if err != nil {
		return err
	}
	el.SetTextContent("")
	for _, n := range nodes {
		el.AppendChild(n)
	}
	return nil
}

// convertNode converts a golang.org/x/net/html node to a dom node owned by
// doc. Error nodes and elements with invalid names are dropped.
func convertNode(doc *dom.Document, n *html.Node) *dom.Node {
	switch n.Type {
	case html.TextNode:
		return doc.CreateTextNode(n.Data)
	case html.CommentNode:
		return doc.CreateComment(n.Data)
	case html.DoctypeNode:
		return doc.CreateDocumentType(n.Data)
	case html.ElementNode:
		el, err := doc.CreateElementWithError(n.Data)
		if err != nil {
			return nil
		}
		for _, attr := range n.Attr {
			// Attribute names the parser accepts but the DOM rejects are skipped.
			_ = el.SetAttributeWithError(attr.Key, attr.Val)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertNode(doc, c); child != nil {
				el.AppendChild(child)
			}
		}
		return el.AsNode()
	default:
		return nil
	}
}
