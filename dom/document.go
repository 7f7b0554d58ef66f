package dom

import (
	"strings"
)

// Document represents the entire HTML document.
type Document Node

// ReadyState is the loading state of a document.
type ReadyState string

const (
	ReadyStateLoading     ReadyState = "loading"
	ReadyStateInteractive ReadyState = "interactive"
	ReadyStateComplete    ReadyState = "complete"
)

// NewDocument creates a new empty HTML Document in the loading state.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		url:        "about:blank",
		readyState: ReadyStateLoading,
		uids:       NewIDGenerator(""),
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the document as a *Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// NodeType returns DocumentNode.
func (d *Document) NodeType() NodeType {
	return DocumentNode
}

// NodeName returns "#document".
func (d *Document) NodeName() string {
	return "#document"
}

// URL returns the document's address.
func (d *Document) URL() string {
	return d.documentData.url
}

// SetURL sets the document's address.
func (d *Document) SetURL(url string) {
	d.documentData.url = url
}

// UIDs returns the generator used to stamp identities on this document's nodes.
func (d *Document) UIDs() *IDGenerator {
	return d.documentData.uids
}

// ReadyState returns the document's loading state.
func (d *Document) ReadyState() ReadyState {
	return d.documentData.readyState
}

// SetReadyState moves the document to state. Every change fires
// readystatechange to both listener tables; entering the interactive state
// also fires DOMContentLoaded to standard listeners.
func (d *Document) SetReadyState(state ReadyState) {
	if d.documentData.readyState == state {
		return
	}
	d.documentData.readyState = state
	node := d.AsNode()

	ev := d.CreateEvent("HTMLEvents")
	ev.InitEvent("readystatechange", false, false)
	node.DispatchEvent(ev)
	node.FireEvent("onreadystatechange", d.CreateEventObject())

	if state == ReadyStateInteractive {
		ready := d.CreateEvent("HTMLEvents")
		ready.InitEvent("DOMContentLoaded", true, false)
		node.DispatchEvent(ready)
	}
}

// Doctype returns the document type node, or nil.
func (d *Document) Doctype() *Node {
	for child := d.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == DocumentTypeNode {
			return child
		}
	}
	return nil
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	if d.documentData.documentElement == nil {
		return nil
	}
	return (*Element)(d.documentData.documentElement)
}

// Head returns the <head> element.
func (d *Document) Head() *Element {
	return d.rootChild("head")
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	return d.rootChild("body")
}

func (d *Document) rootChild(localName string) *Element {
	docEl := d.DocumentElement()
	if docEl == nil {
		return nil
	}
	for child := docEl.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode && child.elementData.localName == localName {
			return (*Element)(child)
		}
	}
	return nil
}

// CreateElement creates a new element with the given tag name.
// Use CreateElementWithError to observe invalid names.
func (d *Document) CreateElement(tagName string) *Element {
	el, _ := d.CreateElementWithError(tagName)
	return el
}

// CreateElementWithError creates a new element with the given tag name.
// Returns an InvalidCharacterError if the tag name is not a valid name.
func (d *Document) CreateElementWithError(tagName string) (*Element, error) {
	if !isValidName(tagName) {
		return nil, ErrInvalidCharacter("The string contains invalid characters.")
	}
	localName := strings.ToLower(tagName)
	upper := strings.ToUpper(tagName)
	node := newNode(ElementNode, upper, d)
	node.elementData = &elementData{
		localName: localName,
		tagName:   upper,
	}
	return (*Element)(node), nil
}

// isValidName is a relaxed form of the XML Name production: a letter or one
// of ":_" followed by letters, digits or ":_-.".
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == ':' || r == '_' || r >= 0x80:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// CreateTextNode creates a new Text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.textData = &data
	return node
}

// CreateComment creates a new Comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.textData = &data
	return node
}

// CreateDocumentType creates a DocumentType node with the given name.
func (d *Document) CreateDocumentType(name string) *Node {
	return newNode(DocumentTypeNode, name, d)
}

// CreateDocumentFragment creates a new empty DocumentFragment node.
func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

// AppendChild appends child to the document.
func (d *Document) AppendChild(child *Node) *Node {
	return d.AsNode().AppendChild(child)
}

// GetElementById returns the first element in document order with the given
// id, or nil. The empty id never matches.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().Walk(func(el *Element) bool {
		if el.Id() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns an HTMLCollection of elements with the given tag name.
func (d *Document) GetElementsByTagName(tagName string) *HTMLCollection {
	return NewHTMLCollectionByTagName(d.AsNode(), tagName)
}

// GetElementsByClassName returns an HTMLCollection of elements with the given class names.
func (d *Document) GetElementsByClassName(classNames string) *HTMLCollection {
	return NewHTMLCollectionByClassName(d.AsNode(), classNames)
}

// CreateEvent creates an uninitialized standard event. Only the HTMLEvents,
// Events, UIEvents, MouseEvents and KeyboardEvent interfaces are known.
func (d *Document) CreateEvent(iface string) *Event {
	ev, _ := d.CreateEventWithError(iface)
	return ev
}

// CreateEventWithError is CreateEvent returning a NotSupportedError for
// unknown interfaces.
func (d *Document) CreateEventWithError(iface string) (*Event, error) {
	switch strings.ToLower(iface) {
	case "htmlevents", "events", "event", "uievents", "uievent",
		"mouseevents", "mouseevent", "keyboardevent", "keyevents":
		return &Event{}, nil
	}
	return nil, ErrNotSupported("The provided event type ('" + iface + "') is invalid.")
}

// CreateEventObject creates an empty legacy event object for FireEvent.
func (d *Document) CreateEventObject() *LegacyEvent {
	return &LegacyEvent{}
}
