package host

import (
	"github.com/chrisuehlinger/swell/dom"
)

// Registrar attaches and detaches host-level listeners and fires synthetic
// events through whichever registration model the host offers.
type Registrar interface {
	Model() Model
	// Attach registers l for eventType (without the "on" prefix). It
	// reports whether the host accepted the registration.
	Attach(n *dom.Node, eventType string, l *dom.EventListener, capture bool) bool
	Detach(n *dom.Node, eventType string, l *dom.EventListener, capture bool)
	// Simulate fires a bubbling, cancelable event of eventType at n and
	// reports whether a listener cancelled its default action.
	Simulate(n *dom.Node, eventType string) bool
	// SimulateAt is Simulate with an event that does not bubble.
	SimulateAt(n *dom.Node, eventType string) bool
}

type standardRegistrar struct{ h *Host }

func (standardRegistrar) Model() Model { return ModelStandard }

func (standardRegistrar) Attach(n *dom.Node, eventType string, l *dom.EventListener, capture bool) bool {
	if n == nil || l == nil || eventType == "" {
		return false
	}
	n.AddEventListener(eventType, l, capture)
	return true
}

func (standardRegistrar) Detach(n *dom.Node, eventType string, l *dom.EventListener, capture bool) {
	if n == nil {
		return
	}
	n.RemoveEventListener(eventType, l, capture)
}

func (r standardRegistrar) Simulate(n *dom.Node, eventType string) bool {
	if n == nil || eventType == "" {
		return false
	}
	return r.dispatch(n, eventType, true)
}

func (r standardRegistrar) SimulateAt(n *dom.Node, eventType string) bool {
	if n == nil || eventType == "" {
		return false
	}
	return r.dispatch(n, eventType, false)
}

func (r standardRegistrar) dispatch(n *dom.Node, eventType string, bubbles bool) bool {
	ev := r.h.documentOf(n).CreateEvent("HTMLEvents")
	ev.InitEvent(eventType, bubbles, true)
	return !n.DispatchEvent(ev)
}

// legacyRegistrar has no capture phase; the capture flag is ignored.
type legacyRegistrar struct{ h *Host }

func (legacyRegistrar) Model() Model { return ModelLegacy }

func (legacyRegistrar) Attach(n *dom.Node, eventType string, l *dom.EventListener, _ bool) bool {
	if n == nil || eventType == "" {
		return false
	}
	return n.AttachEvent("on"+eventType, l)
}

func (legacyRegistrar) Detach(n *dom.Node, eventType string, l *dom.EventListener, _ bool) {
	if n == nil {
		return
	}
	n.DetachEvent("on"+eventType, l)
}

func (r legacyRegistrar) Simulate(n *dom.Node, eventType string) bool {
	if n == nil || eventType == "" {
		return false
	}
	ev := r.h.documentOf(n).CreateEventObject()
	return !n.FireEvent("on"+eventType, ev)
}

func (r legacyRegistrar) SimulateAt(n *dom.Node, eventType string) bool {
	if n == nil || eventType == "" {
		return false
	}
	ev := r.h.documentOf(n).CreateEventObject()
	return !n.FireEventAt("on"+eventType, ev)
}

type noneRegistrar struct{}

func (noneRegistrar) Model() Model { return ModelNone }

func (noneRegistrar) Attach(*dom.Node, string, *dom.EventListener, bool) bool { return false }

func (noneRegistrar) Detach(*dom.Node, string, *dom.EventListener, bool) {}

func (noneRegistrar) Simulate(*dom.Node, string) bool { return false }

func (noneRegistrar) SimulateAt(*dom.Node, string) bool { return false }
