package dom

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()
	if doc == nil {
		t.Fatal("NewDocument returned nil")
	}
	if doc.NodeType() != DocumentNode {
		t.Errorf("Expected DocumentNode, got %v", doc.NodeType())
	}
	if doc.NodeName() != "#document" {
		t.Errorf("Expected '#document', got %s", doc.NodeName())
	}
	if doc.ReadyState() != ReadyStateLoading {
		t.Errorf("Expected loading state, got %s", doc.ReadyState())
	}
}

func TestDocument_CreateElement(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("Div")

	if el == nil {
		t.Fatal("CreateElement returned nil")
	}
	if el.TagName() != "DIV" {
		t.Errorf("Expected tagName 'DIV', got '%s'", el.TagName())
	}
	if el.LocalName() != "div" {
		t.Errorf("Expected localName 'div', got '%s'", el.LocalName())
	}
	if el.NodeType() != ElementNode {
		t.Errorf("Expected ElementNode, got %v", el.NodeType())
	}

	if _, err := doc.CreateElementWithError("1div"); err == nil {
		t.Error("Expected InvalidCharacterError for '1div'")
	}
}

func TestDocument_CreateTextNode(t *testing.T) {
	doc := NewDocument()
	text := doc.CreateTextNode("Hello, World!")

	if text.NodeType() != TextNode {
		t.Errorf("Expected TextNode, got %v", text.NodeType())
	}
	if text.NodeValue() != "Hello, World!" {
		t.Errorf("Expected 'Hello, World!', got '%s'", text.NodeValue())
	}
}

func TestElement_Attributes(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	el.SetAttribute("id", "main")
	el.SetAttribute("CLASS", "container")
	el.SetAttribute("data-value", "123")

	if el.GetAttribute("id") != "main" {
		t.Errorf("Expected id='main', got '%s'", el.GetAttribute("id"))
	}
	if el.GetAttribute("class") != "container" {
		t.Errorf("Expected class='container', got '%s'", el.GetAttribute("class"))
	}
	if el.GetAttribute("data-value") != "123" {
		t.Errorf("Expected data-value='123', got '%s'", el.GetAttribute("data-value"))
	}
	if len(el.Attributes()) != 3 {
		t.Errorf("Expected 3 attributes, got %d", len(el.Attributes()))
	}

	el.RemoveAttribute("id")
	if el.HasAttribute("id") {
		t.Error("Expected HasAttribute('id') to be false after removal")
	}
	if err := el.SetAttributeWithError("a b", "x"); err == nil {
		t.Error("Expected error for attribute name with whitespace")
	}
	if got := el.String(); got != `<div class="container">` {
		t.Errorf("Unexpected String(): %s", got)
	}
}

func TestElement_ClassList(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	classList := el.ClassList()

	if err := classList.Add("foo", "bar", "baz"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if !classList.Contains("foo") {
		t.Error("Expected classList to contain 'foo'")
	}
	if classList.Length() != 3 {
		t.Errorf("Expected 3 classes, got %d", classList.Length())
	}
	if el.ClassName() != "foo bar baz" {
		t.Errorf("Expected className 'foo bar baz', got '%s'", el.ClassName())
	}

	if err := classList.Remove("bar"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if classList.Contains("bar") {
		t.Error("Expected classList not to contain 'bar' after removal")
	}

	result, err := classList.Toggle("qux")
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if !result {
		t.Error("Expected toggle to return true when adding")
	}
	result, _ = classList.Toggle("qux")
	if result {
		t.Error("Expected toggle to return false when removing")
	}

	var domErr *DOMError
	if err := classList.Add(""); !errors.As(err, &domErr) || domErr.Name != "SyntaxError" {
		t.Errorf("Expected SyntaxError for empty token, got %v", err)
	}
	if err := classList.Add("foo\tbar"); !errors.As(err, &domErr) || domErr.Name != "InvalidCharacterError" {
		t.Errorf("Expected InvalidCharacterError, got %v", err)
	}
	if classList.Contains(" ") {
		t.Error("Expected contains to return false for whitespace token")
	}
}

func TestDOMTokenList_Deduplication(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	el.SetAttribute("class", "a b a c b a")
	classList := el.ClassList()
	if classList.Length() != 3 {
		t.Errorf("Expected length 3 for 'a b a c b a', got %d", classList.Length())
	}
	for i, want := range []string{"a", "b", "c"} {
		if classList.Item(i) != want {
			t.Errorf("Expected Item(%d) to be '%s', got '%s'", i, want, classList.Item(i))
		}
	}
}

// tags lists the local names of n's element children.
func tags(n *Node) string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if el := c.AsElement(); el != nil {
			out = append(out, el.LocalName())
		}
	}
	return strings.Join(out, ",")
}

func TestNode_Mutation(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	p, span, a := doc.CreateElement("p"), doc.CreateElement("span"), doc.CreateElement("a")
	parent := div.AsNode()

	parent.AppendChild(p.AsNode())
	parent.AppendChild(a.AsNode())
	parent.InsertBefore(span.AsNode(), a.AsNode())
	if got := tags(parent); got != "p,span,a" {
		t.Fatalf("children = %s, want p,span,a", got)
	}
	if parent.FirstChild() != p.AsNode() || parent.LastChild() != a.AsNode() {
		t.Error("first/last child not updated")
	}
	if span.AsNode().ParentElement() != div {
		t.Error("span's parent should be div")
	}

	parent.RemoveChild(span.AsNode())
	if got := tags(parent); got != "p,a" {
		t.Errorf("after RemoveChild children = %s, want p,a", got)
	}
	if a.AsNode().PreviousSibling() != p.AsNode() || span.AsNode().ParentNode() != nil {
		t.Error("sibling links not repaired after RemoveChild")
	}

	// Appending an attached node moves it.
	parent.AppendChild(p.AsNode())
	if got := tags(parent); got != "a,p" {
		t.Errorf("after moving p children = %s, want a,p", got)
	}
}

func TestNode_TextContent(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	span := doc.CreateElement("span")

	span.AppendChild(doc.CreateTextNode("World"))
	div.AppendChild(doc.CreateTextNode("Hello "))
	div.AppendChild(doc.CreateComment("ignored"))
	div.AppendChild(span.AsNode())

	if div.TextContent() != "Hello World" {
		t.Errorf("Expected 'Hello World', got '%s'", div.TextContent())
	}

	div.SetTextContent("New text")
	if div.AsNode().FirstChild().NodeType() != TextNode {
		t.Error("Expected child to be a TextNode")
	}
	if div.ChildElementCount() != 0 {
		t.Errorf("Expected no element children, got %d", div.ChildElementCount())
	}
}

func TestDocumentFragment_AppendToParent(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	frag := doc.CreateDocumentFragment()

	p1 := doc.CreateElement("p")
	p2 := doc.CreateElement("p")
	frag.AppendChild(p1.AsNode())
	frag.AppendChild(p2.AsNode())

	div.AppendChild(frag)

	if frag.FirstChild() != nil {
		t.Error("Fragment should be empty after appending to parent")
	}
	if div.AsNode().FirstChild() != p1.AsNode() || div.AsNode().LastChild() != p2.AsNode() {
		t.Error("Fragment children should move into div in order")
	}
}

func TestNode_Contains(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	p := doc.CreateElement("p")
	span := doc.CreateElement("span")

	div.AppendChild(p.AsNode())
	p.AppendChild(span.AsNode())

	if !div.AsNode().Contains(span.AsNode()) {
		t.Error("div should contain span")
	}
	if !div.AsNode().Contains(div.AsNode()) {
		t.Error("div should contain itself")
	}
	if p.AsNode().Contains(div.AsNode()) {
		t.Error("p should not contain div")
	}
}

// buildTree creates <html><body><div id=main class="foo bar"><p/></div>
// <div class="foo baz"/></body></html>.
func buildTree(t *testing.T) (*Document, *Element, *Element, *Element) {
	t.Helper()
	doc := NewDocument()
	html := doc.CreateElement("html")
	body := doc.CreateElement("body")
	div1 := doc.CreateElement("div")
	div2 := doc.CreateElement("div")
	p := doc.CreateElement("p")
	div1.SetId("main")
	div1.SetClassName("foo bar")
	div2.SetClassName("foo baz")

	doc.AppendChild(html.AsNode())
	html.AppendChild(body.AsNode())
	body.AppendChild(div1.AsNode())
	body.AppendChild(div2.AsNode())
	div1.AppendChild(p.AsNode())
	return doc, div1, div2, p
}

func TestDocument_GetElementById(t *testing.T) {
	doc, div1, _, _ := buildTree(t)

	if found := doc.GetElementById("main"); found != div1 {
		t.Errorf("GetElementById returned wrong element: %v", found)
	}
	if doc.GetElementById("nonexistent") != nil {
		t.Error("GetElementById should return nil for nonexistent id")
	}
	if doc.GetElementById("") != nil {
		t.Error("GetElementById should return nil for the empty id")
	}
	if doc.Body() == nil || doc.Body().LocalName() != "body" {
		t.Error("Body should return the body element")
	}
	if doc.Head() != nil {
		t.Error("Head should be nil without a head element")
	}
}

func TestDocument_GetElementsByTagName(t *testing.T) {
	doc, _, _, _ := buildTree(t)

	divs := doc.GetElementsByTagName("DIV")
	if divs.Length() != 2 {
		t.Errorf("Expected 2 divs, got %d", divs.Length())
	}
	all := doc.GetElementsByTagName("*")
	if all.Length() != 5 {
		t.Errorf("Expected 5 elements, got %d", all.Length())
	}

	// Live: a new div shows up without re-querying.
	doc.Body().AppendChild(doc.CreateElement("div").AsNode())
	if divs.Length() != 3 {
		t.Errorf("Live collection should have 3 divs, got %d", divs.Length())
	}
}

func TestDocument_GetElementsByClassName(t *testing.T) {
	doc, div1, div2, _ := buildTree(t)

	foo := doc.GetElementsByClassName("foo")
	if foo.Length() != 2 || foo.Item(0) != div1 || foo.Item(1) != div2 {
		t.Errorf("Expected div1, div2 for 'foo', got %v", foo.ToSlice())
	}
	if n := doc.GetElementsByClassName("foo bar").Length(); n != 1 {
		t.Errorf("Expected 1 element with classes 'foo bar', got %d", n)
	}
	if n := doc.GetElementsByClassName("   ").Length(); n != 0 {
		t.Errorf("Expected 0 elements for whitespace-only class name, got %d", n)
	}
}

func TestElement_Children(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	p := doc.CreateElement("p")
	span := doc.CreateElement("span")

	div.AppendChild(doc.CreateTextNode("text"))
	div.AppendChild(p.AsNode())
	div.AppendChild(span.AsNode())
	p.AppendChild(doc.CreateElement("b").AsNode())

	if n := div.Children().Length(); n != 2 {
		t.Errorf("Expected 2 element children, got %d", n)
	}
	if div.FirstElementChild() != p {
		t.Error("FirstElementChild should be p")
	}
	if div.LastElementChild() != span {
		t.Error("LastElementChild should be span")
	}
	if p.NextElementSibling() != span || span.PreviousElementSibling() != p {
		t.Error("Element siblings are wrong")
	}
}

func TestNodeList(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	p1 := doc.CreateElement("p")
	p2 := doc.CreateElement("p")

	div.AppendChild(p1.AsNode())
	div.AppendChild(p2.AsNode())

	childNodes := div.AsNode().ChildNodes()
	if childNodes.Length() != 2 {
		t.Errorf("Expected 2 child nodes, got %d", childNodes.Length())
	}
	if childNodes.Item(0) != p1.AsNode() {
		t.Error("Item(0) should be p1")
	}
	if childNodes.Item(-1) != nil || childNodes.Item(5) != nil {
		t.Error("Out of range items should be nil")
	}

	static := NewStaticNodeList(childNodes.ToSlice())
	div.AppendChild(doc.CreateElement("p").AsNode())
	if childNodes.Length() != 3 {
		t.Errorf("Live NodeList should have 3 items, got %d", childNodes.Length())
	}
	if static.Length() != 2 {
		t.Errorf("Static NodeList should keep 2 items, got %d", static.Length())
	}
}

func TestNode_HierarchyRequestError(t *testing.T) {
	doc := NewDocument()

	text := doc.CreateTextNode("hello")
	child := doc.CreateTextNode("world")
	_, err := text.AppendChildWithError(child)
	var domErr *DOMError
	if !errors.As(err, &domErr) || domErr.Name != "HierarchyRequestError" {
		t.Errorf("Expected HierarchyRequestError when appending to Text node, got %v", err)
	}

	parent := doc.CreateElement("div")
	childEl := doc.CreateElement("span")
	parent.AppendChild(childEl.AsNode())
	_, err = childEl.AsNode().AppendChildWithError(parent.AsNode())
	if !errors.Is(err, &DOMError{Name: HierarchyRequestError}) {
		t.Errorf("Expected HierarchyRequestError when creating circular reference, got %v", err)
	}
	if errors.Is(err, &DOMError{Name: NotFoundError}) {
		t.Error("DOMErrors of different names must not match")
	}
	if got := ErrorName(fmt.Errorf("wrapped: %w", err)); got != HierarchyRequestError {
		t.Errorf("ErrorName through wrapping = %q", got)
	}

	if _, err := parent.AsNode().AppendChildWithError(NewDocument().AsNode()); err == nil {
		t.Error("Expected HierarchyRequestError when appending Document to Element")
	}

	doc.AppendChild(doc.CreateElement("html").AsNode())
	if _, err := doc.AsNode().AppendChildWithError(doc.CreateElement("extra").AsNode()); err == nil {
		t.Error("Expected HierarchyRequestError when adding second element to Document")
	}

	notChild := doc.CreateElement("notchild")
	_, err = parent.AsNode().InsertBeforeWithError(doc.CreateElement("new").AsNode(), notChild.AsNode())
	if !errors.As(err, &domErr) || domErr.Name != "NotFoundError" {
		t.Errorf("Expected NotFoundError when refChild is not a child, got %v", err)
	}
}

func TestDocument_UniqueID(t *testing.T) {
	doc, div1, _, p := buildTree(t)
	div1.SetId(DefaultUIDPrefix + "1")

	id := doc.UniqueID()
	if id == DefaultUIDPrefix+"1" {
		t.Errorf("UniqueID returned an id already used in the document: %s", id)
	}

	uid := doc.Stamp(p.AsNode())
	if uid == "" || p.AsNode().UID() != uid {
		t.Fatalf("Stamp did not set the uid, got %q", uid)
	}
	if again := doc.Stamp(p.AsNode()); again != uid {
		t.Errorf("Stamp should keep the existing uid %q, got %q", uid, again)
	}
	if p.HasAttribute("id") {
		t.Error("Stamp must not touch the id attribute")
	}
}

func TestElement_HasEventHandler(t *testing.T) {
	doc := NewDocument()
	tests := []struct {
		tag   string
		event string
		want  bool
	}{
		{"span", "click", true},
		{"span", "onclick", true},
		{"span", "submit", false},
		{"form", "submit", true},
		{"form", "reset", true},
		{"img", "load", true},
		{"input", "select", true},
		{"span", "select", false},
		{"span", "mouseenter", false},
		{"span", "", false},
	}
	for _, tt := range tests {
		el := doc.CreateElement(tt.tag)
		if got := el.HasEventHandler(tt.event); got != tt.want {
			t.Errorf("<%s>.HasEventHandler(%q) = %v, want %v", tt.tag, tt.event, got, tt.want)
		}
	}
}
