package dom

import "strings"

// HTMLCollection is a live, document-ordered view of the elements below a
// root that satisfy a predicate. Every read walks the tree again.
type HTMLCollection struct {
	root  *Node
	match func(*Element) bool
}

func newHTMLCollection(root *Node, match func(*Element) bool) *HTMLCollection {
	return &HTMLCollection{root: root, match: match}
}

// NewHTMLCollectionByTagName matches tagName case-insensitively; "*"
// matches every element.
func NewHTMLCollectionByTagName(root *Node, tagName string) *HTMLCollection {
	tagName = strings.ToLower(tagName)
	if tagName == "*" {
		return newHTMLCollection(root, func(*Element) bool { return true })
	}
	return newHTMLCollection(root, func(el *Element) bool {
		return el.LocalName() == tagName
	})
}

// NewHTMLCollectionByClassName matches elements carrying every class in the
// whitespace-separated classNames. An empty list matches nothing.
func NewHTMLCollectionByClassName(root *Node, classNames string) *HTMLCollection {
	want := strings.Fields(classNames)
	return newHTMLCollection(root, func(el *Element) bool {
		if len(want) == 0 {
			return false
		}
		have := el.ClassList()
		for _, c := range want {
			if !have.Contains(c) {
				return false
			}
		}
		return true
	})
}

// ToSlice returns the current members.
func (hc *HTMLCollection) ToSlice() []*Element {
	var out []*Element
	hc.root.Walk(func(el *Element) bool {
		if hc.match(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

func (hc *HTMLCollection) Length() int { return len(hc.ToSlice()) }

func (hc *HTMLCollection) Item(index int) *Element {
	els := hc.ToSlice()
	if index < 0 || index >= len(els) {
		return nil
	}
	return els[index]
}
