package js

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/html"
)

// binder wraps dom nodes as script objects. The same node always maps to
// the same object, so scripts can compare wrappers with ===.
type binder struct {
	r       *Runtime
	nodeMap map[*dom.Node]*goja.Object
}

func newBinder(r *Runtime) *binder {
	return &binder{
		r:       r,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
}

// document returns the wrapper for the host document.
func (b *binder) document() *goja.Object {
	doc := b.r.host.Document()
	node := doc.AsNode()
	if obj, ok := b.nodeMap[node]; ok {
		return obj
	}
	vm := b.r.vm
	jsDoc := vm.NewObject()
	b.nodeMap[node] = jsDoc

	jsDoc.Set("_goNode", node)
	jsDoc.Set("nodeType", int(dom.DocumentNode))
	jsDoc.Set("nodeName", "#document")

	jsDoc.DefineAccessorProperty("readyState", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(string(doc.ReadyState()))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("documentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.element(doc.DocumentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("body", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.element(doc.Body())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return b.element(doc.GetElementById(call.Argument(0).String()))
	})
	jsDoc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return b.collection(doc.GetElementsByTagName(call.Argument(0).String()))
	})
	jsDoc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return b.collection(doc.GetElementsByClassName(call.Argument(0).String()))
	})
	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		el, err := doc.CreateElementWithError(call.Argument(0).String())
		if err != nil {
			panic(b.throw(err))
		}
		return b.element(el)
	})
	jsDoc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.elements(b.r.engine.Find(call.Argument(0).String()))
	})
	return jsDoc
}

// node returns the wrapper for n, or null.
func (b *binder) node(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if n.NodeType() == dom.DocumentNode && n == b.r.host.Document().AsNode() {
		return b.document()
	}
	if el := n.AsElement(); el != nil {
		return b.element(el)
	}
	if obj, ok := b.nodeMap[n]; ok {
		return obj
	}
	vm := b.r.vm
	jsNode := vm.NewObject()
	jsNode.Set("_goNode", n)
	jsNode.Set("nodeType", int(n.NodeType()))
	jsNode.Set("nodeName", n.NodeName())
	jsNode.DefineAccessorProperty("nodeValue", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(n.NodeValue())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsNode.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.node(n.ParentNode())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	b.nodeMap[n] = jsNode
	return jsNode
}

// element returns the wrapper for el, or null.
func (b *binder) element(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	node := el.AsNode()
	if obj, ok := b.nodeMap[node]; ok {
		return obj
	}

	vm := b.r.vm
	jsEl := vm.NewObject()
	b.nodeMap[node] = jsEl

	jsEl.Set("_goNode", node)
	jsEl.Set("nodeType", int(dom.ElementNode))
	jsEl.Set("nodeName", el.NodeName())
	jsEl.Set("tagName", el.TagName())

	jsEl.DefineAccessorProperty("id", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Id())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		el.SetId(call.Argument(0).String())
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("className", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.ClassName())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		el.SetClassName(call.Argument(0).String())
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TextContent())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		text := ""
		if !goja.IsNull(v) && !goja.IsUndefined(v) {
			text = v.String()
		}
		el.SetTextContent(text)
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("innerHTML", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(html.InnerHTML(el))
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if err := html.SetInnerHTML(el, call.Argument(0).String()); err != nil {
			panic(b.throw(err))
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("outerHTML", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(html.OuterHTML(el))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("parentNode", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.node(node.ParentNode())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("children", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.collection(el.Children())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	// uid stamps the node on first read, the same way listener registration does.
	jsEl.DefineAccessorProperty("uid", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(b.r.host.Stamp(node))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})
	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if err := el.SetAttributeWithError(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			panic(b.throw(err))
		}
		return goja.Undefined()
	})
	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
	})
	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})
	jsEl.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := b.nodeOf(call.Argument(0))
		if child == nil {
			panic(vm.NewTypeError("appendChild: argument is not a node"))
		}
		if _, err := node.AppendChildWithError(child); err != nil {
			panic(b.throw(err))
		}
		return call.Argument(0)
	})
	jsEl.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})
	jsEl.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return b.elements(b.r.engine.FindIn(node, call.Argument(0).String()))
	})
	return jsEl
}

// throw converts err into a script error, named after the DOM exception
// when err is one.
func (b *binder) throw(err error) *goja.Object {
	obj := b.r.vm.NewGoError(err)
	if name := dom.ErrorName(err); name != "" {
		obj.Set("name", name)
	}
	return obj
}

// elements returns a script array of element wrappers.
func (b *binder) elements(els []*dom.Element) goja.Value {
	out := make([]any, len(els))
	for i, el := range els {
		out[i] = b.element(el)
	}
	return b.r.vm.NewArray(out...)
}

func (b *binder) collection(c *dom.HTMLCollection) goja.Value {
	if c == nil {
		return b.elements(nil)
	}
	return b.elements(c.ToSlice())
}

// nodeOf returns the dom node behind a wrapper, or nil.
func (b *binder) nodeOf(v goja.Value) *dom.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if gv := obj.Get("_goNode"); gv != nil && !goja.IsUndefined(gv) && !goja.IsNull(gv) {
		if n, ok := gv.Export().(*dom.Node); ok {
			return n
		}
	}
	return nil
}

// target converts a script value into a dispatcher target: strings are
// element ids, arrays become slices of targets and wrappers become nodes.
func (b *binder) target(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if n := b.nodeOf(v); n != nil {
		return n
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.String()
	}
	if obj.ClassName() == "Array" {
		length := int(obj.Get("length").ToInteger())
		out := make([]any, 0, length)
		for i := 0; i < length; i++ {
			if t := b.target(obj.Get(strconv.Itoa(i))); t != nil {
				out = append(out, t)
			}
		}
		return out
	}
	return nil
}
