package dom

import "strings"

// listenerEntry represents a registered host listener. removed is set when
// the entry is unregistered so that an in-flight dispatch skips it.
type listenerEntry struct {
	listener *EventListener
	capture  bool
	removed  bool
}

// listenerTable holds the two independent host listener tables of a node:
// one for the standard model and one for the legacy attach model.
type listenerTable struct {
	standard map[string][]*listenerEntry
	legacy   map[string][]*listenerEntry
}

func (n *Node) table() *listenerTable {
	if n.listeners == nil {
		n.listeners = &listenerTable{
			standard: make(map[string][]*listenerEntry),
			legacy:   make(map[string][]*listenerEntry),
		}
	}
	return n.listeners
}

func removeEntry(entries []*listenerEntry, l *EventListener, capture bool) ([]*listenerEntry, bool) {
	for i, e := range entries {
		if e.listener == l && e.capture == capture {
			e.removed = true
			return append(entries[:i:i], entries[i+1:]...), true
		}
	}
	return entries, false
}

// AddEventListener registers l for eventType in the standard model. A
// listener already registered with the same capture flag is ignored.
func (n *Node) AddEventListener(eventType string, l *EventListener, capture bool) {
	if l == nil {
		return
	}
	t := n.table()
	for _, e := range t.standard[eventType] {
		if e.listener == l && e.capture == capture {
			return
		}
	}
	t.standard[eventType] = append(t.standard[eventType], &listenerEntry{listener: l, capture: capture})
}

// RemoveEventListener unregisters l from the standard model.
func (n *Node) RemoveEventListener(eventType string, l *EventListener, capture bool) {
	if n.listeners == nil {
		return
	}
	entries, ok := removeEntry(n.listeners.standard[eventType], l, capture)
	if !ok {
		return
	}
	if len(entries) == 0 {
		delete(n.listeners.standard, eventType)
		return
	}
	n.listeners.standard[eventType] = entries
}

// eventPath returns n followed by its ancestors.
func (n *Node) eventPath() []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.parentNode {
		path = append(path, cur)
	}
	return path
}

// DispatchEvent delivers ev to n through the capture, target and bubble
// phases. It returns false if a listener cancelled the default action.
func (n *Node) DispatchEvent(ev *Event) bool {
	if ev == nil || ev.Type == "" || ev.dispatching {
		return true
	}
	ev.dispatching = true
	ev.target = n
	path := n.eventPath()

	for i := len(path) - 1; i > 0 && !ev.CancelBubble; i-- {
		ev.phase = EventPhaseCapturing
		path[i].invokeStandard(ev, func(e *listenerEntry) bool { return e.capture })
	}
	if !ev.CancelBubble {
		ev.phase = EventPhaseAtTarget
		n.invokeStandard(ev, func(*listenerEntry) bool { return true })
	}
	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.CancelBubble; i++ {
			ev.phase = EventPhaseBubbling
			path[i].invokeStandard(ev, func(e *listenerEntry) bool { return !e.capture })
		}
	}

	ev.phase = EventPhaseNone
	ev.currentTarget = nil
	ev.dispatching = false
	return !ev.defaultPrevented
}

func (n *Node) invokeStandard(ev *Event, want func(*listenerEntry) bool) {
	if n.listeners == nil {
		return
	}
	entries := n.listeners.standard[ev.Type]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]*listenerEntry, len(entries))
	copy(snapshot, entries)

	ev.currentTarget = n
	for _, e := range snapshot {
		if e.removed || !want(e) {
			continue
		}
		e.listener.HandleEvent(ev)
		if ev.stopImmediate {
			return
		}
	}
}

func legacyType(onType string) (string, bool) {
	if len(onType) < 3 || !strings.EqualFold(onType[:2], "on") {
		return "", false
	}
	return onType[2:], true
}

// AttachEvent registers l in the legacy model. onType carries the "on"
// prefix (e.g. "onclick"). It reports whether the registration was accepted.
func (n *Node) AttachEvent(onType string, l *EventListener) bool {
	eventType, ok := legacyType(onType)
	if !ok || l == nil {
		return false
	}
	t := n.table()
	for _, e := range t.legacy[eventType] {
		if e.listener == l {
			return true
		}
	}
	t.legacy[eventType] = append(t.legacy[eventType], &listenerEntry{listener: l})
	return true
}

// DetachEvent unregisters l from the legacy model.
func (n *Node) DetachEvent(onType string, l *EventListener) {
	eventType, ok := legacyType(onType)
	if !ok || n.listeners == nil {
		return
	}
	entries, removed := removeEntry(n.listeners.legacy[eventType], l, false)
	if !removed {
		return
	}
	if len(entries) == 0 {
		delete(n.listeners.legacy, eventType)
		return
	}
	n.listeners.legacy[eventType] = entries
}

// FireEvent delivers ev to the legacy listeners of n and then of each
// ancestor until a listener sets CancelBubble. Listeners of one node run in
// reverse registration order. It returns false if a listener set
// ReturnValue to false.
func (n *Node) FireEvent(onType string, ev *LegacyEvent) bool {
	return n.fireLegacy(onType, ev, true)
}

// FireEventAt is FireEvent without bubbling: only n's listeners run.
func (n *Node) FireEventAt(onType string, ev *LegacyEvent) bool {
	return n.fireLegacy(onType, ev, false)
}

func (n *Node) fireLegacy(onType string, ev *LegacyEvent, bubble bool) bool {
	eventType, ok := legacyType(onType)
	if !ok {
		return true
	}
	if ev == nil {
		ev = &LegacyEvent{}
	}
	ev.Type = eventType
	if ev.SrcElement == nil {
		ev.SrcElement = n
	}
	for cur := n; cur != nil && !ev.CancelBubble; cur = cur.parentNode {
		if cur.listeners == nil {
			continue
		}
		entries := cur.listeners.legacy[eventType]
		snapshot := make([]*listenerEntry, len(entries))
		copy(snapshot, entries)
		for i := len(snapshot) - 1; i >= 0; i-- {
			if snapshot[i].removed {
				continue
			}
			snapshot[i].listener.HandleEvent(ev)
		}
		if !bubble {
			break
		}
	}
	return !ev.Cancelled()
}

// HasListeners reports whether n has host listeners for eventType in either model.
func (n *Node) HasListeners(eventType string) bool {
	if n.listeners == nil {
		return false
	}
	return len(n.listeners.standard[eventType]) > 0 || len(n.listeners.legacy[eventType]) > 0
}

// ListenerCount returns the number of host listeners for eventType in the
// standard and legacy models.
func (n *Node) ListenerCount(eventType string) (standard, legacy int) {
	if n.listeners == nil {
		return 0, 0
	}
	return len(n.listeners.standard[eventType]), len(n.listeners.legacy[eventType])
}
