package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"
)

// Element represents an element in the DOM tree.
type Element Node

// Attr is a single name/value attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode.
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// NodeName returns the tag name of the element.
func (e *Element) NodeName() string {
	return e.AsNode().nodeName
}

// TagName returns the tag name of the element in uppercase.
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the lowercase local name of the element.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// Atom returns the known-tag atom for the element, or 0 for unknown tags.
func (e *Element) Atom() atom.Atom {
	return atom.Lookup([]byte(e.elementData.localName))
}

// Id returns the value of the id attribute.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the value of the id attribute.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the value of the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the value of the class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns a DOMTokenList view of the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.elementData.classList == nil {
		e.elementData.classList = newDOMTokenList(e, "class")
	}
	return e.elementData.classList
}

// Attributes returns a copy of the element's attributes in source order.
func (e *Element) Attributes() []Attr {
	out := make([]Attr, len(e.elementData.attrs))
	copy(out, e.elementData.attrs)
	return out
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	name = strings.ToLower(name)
	for _, a := range e.elementData.attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, a := range e.elementData.attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttribute sets the value of an attribute, creating it if needed.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError sets the value of an attribute, returning an
// InvalidCharacterError for names that are not valid attribute names.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !IsValidAttributeName(name) {
		return ErrInvalidCharacter(fmt.Sprintf("'%s' is not a valid attribute name.", name))
	}
	name = strings.ToLower(name)
	for i, a := range e.elementData.attrs {
		if a.Name == name {
			e.elementData.attrs[i].Value = value
			return nil
		}
	}
	e.elementData.attrs = append(e.elementData.attrs, Attr{Name: name, Value: value})
	return nil
}

// IsValidAttributeName reports whether name can be used as an attribute name.
func IsValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, " \t\n\r\f\"'>/=")
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	attrs := e.elementData.attrs
	for i, a := range attrs {
		if a.Name == name {
			e.elementData.attrs = append(attrs[:i], attrs[i+1:]...)
			return
		}
	}
}

// Children returns a live collection of the element's child elements.
func (e *Element) Children() *HTMLCollection {
	node := e.AsNode()
	return newHTMLCollection(node, func(el *Element) bool {
		return el.AsNode().parentNode == node
	})
}

// ChildElementCount returns the number of child elements.
func (e *Element) ChildElementCount() int {
	count := 0
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// FirstElementChild returns the first child element, or nil.
func (e *Element) FirstElementChild() *Element {
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// LastElementChild returns the last child element, or nil.
func (e *Element) LastElementChild() *Element {
	for child := e.lastChild; child != nil; child = child.prevSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// PreviousElementSibling returns the previous sibling element, or nil.
func (e *Element) PreviousElementSibling() *Element {
	for sib := e.prevSibling; sib != nil; sib = sib.prevSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// NextElementSibling returns the next sibling element, or nil.
func (e *Element) NextElementSibling() *Element {
	for sib := e.nextSibling; sib != nil; sib = sib.nextSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// GetElementsByTagName returns a live collection of descendant elements with
// the given tag name.
func (e *Element) GetElementsByTagName(tagName string) *HTMLCollection {
	return e.AsNode().GetElementsByTagName(tagName)
}

// GetElementsByClassName returns a live collection of descendant elements
// with all of the given class names.
func (e *Element) GetElementsByClassName(classNames string) *HTMLCollection {
	return e.AsNode().GetElementsByClassName(classNames)
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}

// AppendChild appends child to the element.
func (e *Element) AppendChild(child *Node) *Node {
	return e.AsNode().AppendChild(child)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.parentNode != nil {
		e.parentNode.removeChildInternal(e.AsNode())
	}
}

// String returns a short start-tag description, e.g. <div id="a" class="b">.
func (e *Element) String() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(e.LocalName())
	for _, a := range e.elementData.attrs {
		if a.Name != "id" && a.Name != "class" {
			continue
		}
		fmt.Fprintf(&sb, " %s=%q", a.Name, a.Value)
	}
	sb.WriteByte('>')
	return sb.String()
}
