package host

import (
	"github.com/chrisuehlinger/swell/dom"
)

// Driver fires raw input at a document the way the host profile would:
// standard hosts dispatch Event objects, legacy hosts fire LegacyEvent
// objects, and each profile decides which keys produce a keypress.
type Driver struct {
	h *Host
}

// NewDriver returns a driver for h.
func NewDriver(h *Host) *Driver {
	return &Driver{h: h}
}

// input describes one raw occurrence.
type input struct {
	eventType  string
	bubbles    bool
	cancelable bool
	x, y       int
	mods       Modifiers
	keyCode    int
	which      int
	related    *dom.Node
}

// fire delivers in to target and reports whether the default action was
// left alone.
func (d *Driver) fire(target *dom.Node, in input) bool {
	if target == nil || in.eventType == "" {
		return true
	}
	if d.h.features.Registration == ModelLegacy {
		ev := d.h.documentOf(target).CreateEventObject()
		ev.ClientX, ev.ClientY = in.x, in.y
		ev.ShiftKey, ev.CtrlKey, ev.AltKey = in.mods.Shift, in.mods.Ctrl, in.mods.Alt
		ev.KeyCode = in.keyCode
		switch in.eventType {
		case "mouseover", "mouseenter":
			ev.FromElement, ev.ToElement = in.related, target
		case "mouseout", "mouseleave":
			ev.FromElement, ev.ToElement = target, in.related
		}
		return target.FireEvent("on"+in.eventType, ev)
	}

	ev := dom.NewEvent(in.eventType, in.bubbles, in.cancelable)
	ev.ClientX, ev.ClientY = in.x, in.y
	ev.ShiftKey, ev.CtrlKey, ev.AltKey = in.mods.Shift, in.mods.Ctrl, in.mods.Alt
	ev.KeyCode = in.keyCode
	ev.Which = in.which
	ev.SetRelatedTarget(in.related)
	return target.DispatchEvent(ev)
}

// Fire fires a plain bubbling, cancelable event.
func (d *Driver) Fire(target *dom.Node, eventType string) bool {
	return d.fire(target, input{eventType: eventType, bubbles: true, cancelable: true})
}

// Click fires mousedown, mouseup and click at (x, y). It reports whether
// the click's default action was left alone.
func (d *Driver) Click(target *dom.Node, x, y int) bool {
	d.Mouse(target, "mousedown", x, y, nil)
	d.Mouse(target, "mouseup", x, y, nil)
	return d.Mouse(target, "click", x, y, nil)
}

// Mouse fires one mouse event. related is the element the pointer came
// from or moves to.
func (d *Driver) Mouse(target *dom.Node, eventType string, x, y int, related *dom.Node) bool {
	bubbles := eventType != "mouseenter" && eventType != "mouseleave"
	return d.fire(target, input{
		eventType:  eventType,
		bubbles:    bubbles,
		cancelable: bubbles,
		x:          x,
		y:          y,
		related:    related,
	})
}

// KeyStroke fires keydown, then keypress when the profile produces one for
// the key, then keyup. charCode is the character the key produces, or 0.
// It reports whether the keydown's default action was left alone.
func (d *Driver) KeyStroke(target *dom.Node, keyCode, charCode int, mods Modifiers) bool {
	ok := d.fire(target, input{
		eventType:  "keydown",
		bubbles:    true,
		cancelable: true,
		mods:       mods,
		keyCode:    keyCode,
		which:      keyCode,
	})
	if d.h.FiresKeyPress(keyCode, mods) {
		code := charCode
		if code == 0 {
			code = keyCode
		}
		d.fire(target, input{
			eventType:  "keypress",
			bubbles:    true,
			cancelable: true,
			mods:       mods,
			keyCode:    code,
			which:      code,
		})
	}
	d.fire(target, input{
		eventType:  "keyup",
		bubbles:    true,
		cancelable: true,
		mods:       mods,
		keyCode:    keyCode,
		which:      keyCode,
	})
	return ok
}
