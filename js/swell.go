package js

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/event"
	"github.com/chrisuehlinger/swell/keys"
)

// lookup returns the callback registered for fn, or nil.
func (r *Runtime) lookup(fn goja.Value) *event.Callback {
	obj, ok := fn.(*goja.Object)
	if !ok {
		return nil
	}
	return r.callbacks[obj]
}

// callbackFor returns the callback for fn, creating it on first use. It
// returns nil when fn is not a function. Registering the same function
// twice yields the same callback, so duplicates are skipped and remove
// finds it again.
func (r *Runtime) callbackFor(fn goja.Value) *event.Callback {
	call, ok := goja.AssertFunction(fn)
	if !ok {
		return nil
	}
	obj := fn.(*goja.Object)
	if cb := r.callbacks[obj]; cb != nil {
		return cb
	}
	cb := event.NewCallback(func(e *event.Event, args any) {
		r.call(call, r.scopeOf(e), r.wrapEvent(e), r.argValue(args))
	})
	r.callbacks[obj] = cb
	r.functions[cb] = obj
	return cb
}

// functionOf maps a callback back to its script function.
func (r *Runtime) functionOf(cb *event.Callback) goja.Value {
	if obj, ok := r.functions[cb]; ok {
		return obj
	}
	return nil
}

// forget drops the functions whose callbacks no longer hold a cached
// record, suspended ones included.
func (r *Runtime) forget() {
	live := r.dispatcher.Cache().Callbacks()
	for cb, obj := range r.functions {
		if _, ok := live[cb]; !ok {
			delete(r.functions, cb)
			delete(r.callbacks, obj)
		}
	}
}

// scopeOf is the this value for a callback: the script scope given at
// registration, else the wrapper of the bound element.
func (r *Runtime) scopeOf(e *event.Event) goja.Value {
	switch s := e.Scope.(type) {
	case goja.Value:
		return s
	case *dom.Node:
		return r.binder.node(s)
	}
	return goja.Undefined()
}

func (r *Runtime) argValue(args any) goja.Value {
	if v, ok := args.(goja.Value); ok {
		return v
	}
	if args == nil {
		return goja.Undefined()
	}
	return r.vm.ToValue(args)
}

// present reports whether v was passed and is not null.
func present(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// addOptions turns positional scope and args arguments into add options.
func addOptions(scope, args goja.Value) []event.AddOption {
	var opts []event.AddOption
	if present(scope) {
		opts = append(opts, event.WithScope(scope))
	}
	if present(args) {
		opts = append(opts, event.WithArgs(args))
	}
	return opts
}

// wrapEvent builds the script view of e.
func (r *Runtime) wrapEvent(e *event.Event) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("type", e.Type)
	obj.Set("target", r.binder.node(e.Target))
	obj.Set("relatedTarget", r.binder.node(e.RelatedTarget))
	obj.Set("clientX", e.ClientX)
	obj.Set("clientY", e.ClientY)
	obj.Set("shiftKey", e.Modifiers.Shift)
	obj.Set("ctrlKey", e.Modifiers.Ctrl)
	obj.Set("altKey", e.Modifiers.Alt)
	obj.Set("keyCode", e.GetKeyCode())
	obj.Set("getTarget", func(call goja.FunctionCall) goja.Value {
		return r.binder.node(e.GetTarget())
	})
	obj.Set("getCharCode", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(e.GetCharCode())
	})
	obj.Set("getCharText", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(e.GetCharText())
	})
	obj.Set("stopPropagation", func(call goja.FunctionCall) goja.Value {
		e.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("preventDefault", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			e.PreventDefault(call.Arguments[0].Export())
		} else {
			e.PreventDefault()
		}
		return goja.Undefined()
	})
	obj.Set("stop", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(e.Stop())
	})
	return obj
}

// setupSwell installs the Swell.Event namespace.
func (r *Runtime) setupSwell() {
	vm := r.vm
	d := r.dispatcher
	ev := vm.NewObject()

	add := func(call goja.FunctionCall) goja.Value {
		cb := r.callbackFor(call.Argument(2))
		if cb == nil {
			return vm.ToValue(0)
		}
		opts := addOptions(call.Argument(3), call.Argument(4))
		// Argument 5 is skipcache, which the dispatcher's cache makes moot.
		if call.Argument(6).ToBoolean() {
			opts = append(opts, event.WithCapture())
		}
		target := r.binder.target(call.Argument(0))
		types := call.Argument(1)
		if obj, ok := types.(*goja.Object); ok && obj.ClassName() == "Array" {
			var names []string
			if err := vm.ExportTo(types, &names); err != nil {
				panic(vm.NewTypeError(err.Error()))
			}
			return vm.ToValue(len(d.AddTypes(target, names, cb, opts...)))
		}
		return vm.ToValue(len(d.Add(target, types.String(), cb, opts...)))
	}
	for _, name := range []string{"add", "on", "addEventListener", "addEvent"} {
		ev.Set(name, add)
	}

	// existing resolves an optional callback argument: nil when absent,
	// ok false when given but never registered.
	existing := func(v goja.Value) (cb *event.Callback, ok bool) {
		if !present(v) {
			return nil, true
		}
		cb = r.lookup(v)
		return cb, cb != nil
	}
	remove := func(call goja.FunctionCall) goja.Value {
		if cb, ok := existing(call.Argument(2)); ok {
			d.Remove(r.binder.target(call.Argument(0)), typeArg(call.Argument(1)), cb)
			r.forget()
		}
		return goja.Undefined()
	}
	ev.Set("remove", remove)
	ev.Set("un", remove)

	ev.Set("suspend", func(call goja.FunctionCall) goja.Value {
		if cb, ok := existing(call.Argument(2)); ok {
			d.Suspend(r.binder.target(call.Argument(0)), typeArg(call.Argument(1)), cb)
		}
		return goja.Undefined()
	})
	ev.Set("restore", func(call goja.FunctionCall) goja.Value {
		var cb *event.Callback
		if present(call.Argument(2)) {
			if cb = r.callbackFor(call.Argument(2)); cb == nil {
				return goja.Undefined()
			}
		}
		d.Restore(r.binder.target(call.Argument(0)), typeArg(call.Argument(1)), cb)
		return goja.Undefined()
	})
	ev.Set("simulate", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.Simulate(r.binder.target(call.Argument(0)), call.Argument(1).String()))
	})
	ev.Set("removeAll", func(call goja.FunctionCall) goja.Value {
		n := d.RemoveAll()
		r.forget()
		return vm.ToValue(n)
	})
	ev.Set("getListeners", func(call goja.FunctionCall) goja.Value {
		records, ok := d.GetListeners(r.binder.target(call.Argument(0)))
		if !ok {
			return goja.Null()
		}
		out := vm.NewObject()
		for t, recs := range records {
			var fns []any
			for _, rec := range recs {
				if fn := r.functionOf(rec.Callback); fn != nil {
					fns = append(fns, fn)
				}
			}
			out.Set(t, vm.NewArray(fns...))
		}
		return out
	})
	ev.Set("cloneListeners", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.CloneListeners(
			r.binder.target(call.Argument(0)),
			r.binder.target(call.Argument(1)),
			typeArg(call.Argument(2)),
		))
	})
	ev.Set("isSupported", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(d.IsSupported(call.Argument(0).String()))
	})
	ev.Set("areSupported", func(call goja.FunctionCall) goja.Value {
		names := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			names[i] = a.String()
		}
		return vm.ToValue(d.AreSupported(names...))
	})
	ev.Set("onDomReady", func(call goja.FunctionCall) goja.Value {
		cb := r.callbackFor(call.Argument(0))
		if cb == nil {
			return vm.ToValue(false)
		}
		d.OnDOMReady(cb, addOptions(call.Argument(1), call.Argument(2))...)
		return vm.ToValue(true)
	})
	ev.Set("addKeyListener", func(call goja.FunctionCall) goja.Value {
		return r.addKeyListener(call)
	})
	ev.Set("isValidHotKey", func(call goja.FunctionCall) goja.Value {
		combo, ok := event.IsValidHotKey(modifiersOf(call.Argument(0)), call.Argument(1).String(), call.Argument(2).String())
		if !ok {
			return vm.ToValue(false)
		}
		return vm.ToValue(combo)
	})
	ev.Set("getSpecialKeyName", func(call goja.FunctionCall) goja.Value {
		if name, ok := keys.SpecialName(int(call.Argument(0).ToInteger())); ok {
			return vm.ToValue(name)
		}
		return goja.Null()
	})

	swell := vm.NewObject()
	swell.Set("Event", ev)
	vm.Set("Swell", swell)
}

// addKeyListener implements Swell.Event.addKeyListener(o, keys, callback,
// scope, args, stop). keys is a combo string or an object with shift, alt,
// ctrl and a keys array of key codes. It returns an object whose remove
// method detaches the listener, or null.
func (r *Runtime) addKeyListener(call goja.FunctionCall) goja.Value {
	vm := r.vm
	fn, ok := goja.AssertFunction(call.Argument(2))
	if !ok {
		return goja.Null()
	}
	scope := call.Argument(3)
	cb := func(e *event.Event, m event.KeyMatch) {
		this := scope
		if !present(this) {
			this = r.scopeOf(e)
		}
		match := vm.NewObject()
		match.Set("name", m.Name)
		match.Set("code", m.Code)
		match.Set("combo", m.Combo)
		match.Set("args", r.argValue(m.Args))
		r.call(fn, this, r.wrapEvent(e), match)
	}
	var opts []event.AddOption
	if args := call.Argument(4); present(args) {
		opts = append(opts, event.WithArgs(args))
	}
	if call.Argument(5).ToBoolean() {
		opts = append(opts, event.WithStop())
	}

	target := r.binder.target(call.Argument(0))
	var l *event.KeyListener
	switch spec := call.Argument(1).(type) {
	case *goja.Object:
		ks := event.KeySpec{
			Shift: spec.Get("shift") != nil && spec.Get("shift").ToBoolean(),
			Alt:   spec.Get("alt") != nil && spec.Get("alt").ToBoolean(),
			Ctrl:  spec.Get("ctrl") != nil && spec.Get("ctrl").ToBoolean(),
		}
		if codes := spec.Get("keys"); present(codes) {
			if err := vm.ExportTo(codes, &ks.Codes); err != nil {
				var single int
				if vm.ExportTo(codes, &single) != nil {
					panic(vm.NewTypeError("addKeyListener: keys must be key codes"))
				}
				ks.Codes = []int{single}
			}
		}
		l = r.dispatcher.AddKeySpecListener(target, ks, cb, opts...)
	default:
		if !present(spec) {
			return goja.Null()
		}
		l = r.dispatcher.AddKeyListener(target, spec.String(), cb, opts...)
	}
	if l == nil {
		return goja.Null()
	}
	handle := vm.NewObject()
	handle.Set("remove", func(goja.FunctionCall) goja.Value {
		l.Remove()
		return goja.Undefined()
	})
	return handle
}

// typeArg reads an optional event type; absent means every type.
func typeArg(v goja.Value) string {
	if !present(v) {
		return ""
	}
	return v.String()
}

// modifiersOf reads {shift, ctrl, alt} from a script object.
func modifiersOf(v goja.Value) event.Modifiers {
	obj, ok := v.(*goja.Object)
	if !ok {
		return event.Modifiers{}
	}
	flag := func(name string) bool {
		f := obj.Get(name)
		return f != nil && f.ToBoolean()
	}
	return event.Modifiers{Shift: flag("shift"), Ctrl: flag("ctrl"), Alt: flag("alt")}
}

// setupMarlin installs Marlin.find(query[, root]).
func (r *Runtime) setupMarlin() {
	marlin := r.vm.NewObject()
	marlin.Set("find", func(call goja.FunctionCall) goja.Value {
		query := call.Argument(0).String()
		if root := r.binder.nodeOf(call.Argument(1)); root != nil {
			return r.binder.elements(r.engine.FindIn(root, query))
		}
		return r.binder.elements(r.engine.Find(query))
	})
	marlin.Set("validate", func(call goja.FunctionCall) goja.Value {
		if err := r.engine.Validate(call.Argument(0).String()); err != nil {
			return r.vm.ToValue(err.Error())
		}
		return goja.Null()
	})
	r.vm.Set("Marlin", marlin)
}
