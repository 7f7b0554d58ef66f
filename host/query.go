package host

import (
	"github.com/chrisuehlinger/swell/css"
	"github.com/chrisuehlinger/swell/dom"
)

// Querier is a native selector query primitive.
type Querier interface {
	QueryAll(root *dom.Node, selector string) ([]*dom.Element, error)
}

// ClassGetter is a native getElementsByClassName.
type ClassGetter interface {
	ElementsByClassName(root *dom.Node, classNames string) []*dom.Element
}

type nativeQuerier struct{}

func (nativeQuerier) QueryAll(root *dom.Node, selector string) ([]*dom.Element, error) {
	return css.QuerySelectorAll(root, selector)
}

type nativeClassGetter struct{}

func (nativeClassGetter) ElementsByClassName(root *dom.Node, classNames string) []*dom.Element {
	if root == nil {
		return nil
	}
	return root.GetElementsByClassName(classNames).ToSlice()
}

// Querier returns the native query primitive, if the host has one.
func (h *Host) Querier() (Querier, bool) {
	if !h.features.NativeQuery {
		return nil, false
	}
	return nativeQuerier{}, true
}

// ClassGetter returns the native class getter, if the host has one.
func (h *Host) ClassGetter() (ClassGetter, bool) {
	if !h.features.NativeClassQuery {
		return nil, false
	}
	return nativeClassGetter{}, true
}
