// Package event is the cross-host event layer: it normalizes raw host
// events, keeps a per-element cache of registered callbacks, attaches and
// detaches them through the host's registration model, and matches
// keyboard combos on top of that.
package event

import (
	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
)

// Modifiers is the state of shift, ctrl and alt.
type Modifiers = host.Modifiers

// Event wraps one raw host event behind accessors that hide the
// difference between the standard and legacy event objects. Stop and
// prevent operations act on the raw event.
type Event struct {
	Type          string
	Target        *dom.Node
	RelatedTarget *dom.Node
	ClientX       int
	ClientY       int
	Modifiers     Modifiers
	DataTransfer  any

	// Scope is the value the callback runs against: the scope given at
	// registration, else the target.
	Scope any

	raw dom.RawEvent
}

// NewEvent normalizes raw.
func NewEvent(raw dom.RawEvent) *Event {
	e := &Event{raw: raw}
	switch r := raw.(type) {
	case *dom.Event:
		e.Type = r.Type
		e.ClientX, e.ClientY = r.ClientX, r.ClientY
		e.Modifiers = Modifiers{Shift: r.ShiftKey, Ctrl: r.CtrlKey, Alt: r.AltKey}
		e.RelatedTarget = r.RelatedTarget()
		e.DataTransfer = r.DataTransfer
	case *dom.LegacyEvent:
		e.Type = r.Type
		e.ClientX, e.ClientY = r.ClientX, r.ClientY
		e.Modifiers = Modifiers{Shift: r.ShiftKey, Ctrl: r.CtrlKey, Alt: r.AltKey}
		e.RelatedTarget = r.FromElement
		e.DataTransfer = r.DataTransfer
	case nil:
	default:
		e.Type = raw.EventType()
	}
	e.Target = e.GetTarget()
	return e
}

// Raw returns the host event.
func (e *Event) Raw() dom.RawEvent {
	return e.raw
}

// GetTarget returns the standard target, else the legacy source element.
func (e *Event) GetTarget() *dom.Node {
	switch r := e.raw.(type) {
	case *dom.Event:
		return r.Target()
	case *dom.LegacyEvent:
		return r.SrcElement
	}
	return nil
}

// GetKeyCode returns the raw keyCode.
func (e *Event) GetKeyCode() int {
	switch r := e.raw.(type) {
	case *dom.Event:
		return r.KeyCode
	case *dom.LegacyEvent:
		return r.KeyCode
	}
	return 0
}

func (e *Event) which() int {
	if r, ok := e.raw.(*dom.Event); ok {
		return r.Which
	}
	return 0
}

// GetCharCode returns which when it is set, else keyCode.
func (e *Event) GetCharCode() int {
	if w := e.which(); w != 0 {
		return w
	}
	return e.GetKeyCode()
}

// GetCharText returns the character for the event's code: from keyCode
// when which is unset, else from which. It returns "" when neither is set.
func (e *Event) GetCharText() string {
	code := e.which()
	if code <= 0 {
		code = e.GetKeyCode()
	}
	if code <= 0 {
		return ""
	}
	return string(rune(code))
}

// StopPropagation stops the raw event from reaching further nodes. It may
// be called any number of times.
func (e *Event) StopPropagation() {
	switch r := e.raw.(type) {
	case *dom.Event:
		r.StopPropagation()
		r.CancelBubble = true
	case *dom.LegacyEvent:
		r.CancelBubble = true
	}
}

// PreventDefault cancels the default action. On legacy hosts the first
// message becomes the event's return value; without a usable message the
// return value is false.
func (e *Event) PreventDefault(msg ...any) {
	switch r := e.raw.(type) {
	case *dom.Event:
		r.PreventDefault()
	case *dom.LegacyEvent:
		r.ReturnValue = false
		if len(msg) > 0 && truthy(msg[0]) {
			r.ReturnValue = msg[0]
		}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	}
	return true
}

// Stop stops propagation and prevents the default action. It returns false
// so a callback can end with `return e.Stop()`.
func (e *Event) Stop() bool {
	e.StopPropagation()
	e.PreventDefault()
	return false
}
