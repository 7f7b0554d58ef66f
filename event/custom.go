package event

// Subscriber is a custom event handler. Identity is the pointer.
type Subscriber struct {
	fn func(scope any, args []any)
}

// NewSubscriber wraps fn.
func NewSubscriber(fn func(scope any, args []any)) *Subscriber {
	return &Subscriber{fn: fn}
}

type subscription struct {
	sub   *Subscriber
	scope any
}

// CustomEvent is a named observer list, independent of the document.
type CustomEvent struct {
	name  string
	scope any
	subs  []subscription
}

// NewCustomEvent creates an event whose subscribers run against scope
// unless they subscribe with their own.
func NewCustomEvent(name string, scope any) *CustomEvent {
	return &CustomEvent{name: name, scope: scope}
}

// Name returns the event name.
func (c *CustomEvent) Name() string { return c.name }

// IsSubscribed reports whether s is subscribed.
func (c *CustomEvent) IsSubscribed(s *Subscriber) bool {
	for _, sub := range c.subs {
		if sub.sub == s {
			return true
		}
	}
	return false
}

// Subscribe adds s. A nil scope means the event's scope. It returns false
// for a nil subscriber or one already subscribed.
func (c *CustomEvent) Subscribe(s *Subscriber, scope any) bool {
	if s == nil || s.fn == nil || c.IsSubscribed(s) {
		return false
	}
	if scope == nil {
		scope = c.scope
	}
	c.subs = append(c.subs, subscription{sub: s, scope: scope})
	return true
}

// Unsubscribe removes s and reports whether it was subscribed.
func (c *CustomEvent) Unsubscribe(s *Subscriber) bool {
	for i, sub := range c.subs {
		if sub.sub == s {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return true
		}
	}
	return false
}

// UnsubscribeAll removes every subscriber.
func (c *CustomEvent) UnsubscribeAll() {
	c.subs = nil
}

// Fire calls every subscriber, in subscription order, with args.
// Subscribers added or removed during Fire take effect on the next call.
func (c *CustomEvent) Fire(args ...any) {
	for _, sub := range append([]subscription(nil), c.subs...) {
		sub.sub.fn(sub.scope, args)
	}
}

// Subscribers returns the subscribers in order.
func (c *CustomEvent) Subscribers() []*Subscriber {
	out := make([]*Subscriber, len(c.subs))
	for i, sub := range c.subs {
		out[i] = sub.sub
	}
	return out
}

// CustomEventModel is a set of custom events addressed by name, for
// objects that publish several of them.
type CustomEventModel struct {
	scope  any
	events map[string]*CustomEvent
}

// NewCustomEventModel returns an empty model. Events created without a
// scope use scope.
func NewCustomEventModel(scope any) *CustomEventModel {
	return &CustomEventModel{scope: scope, events: make(map[string]*CustomEvent)}
}

// CreateEvent creates the named event, replacing any existing one.
func (m *CustomEventModel) CreateEvent(name string, scope any) *CustomEvent {
	if scope == nil {
		scope = m.scope
	}
	ev := NewCustomEvent(name, scope)
	m.events[name] = ev
	return ev
}

// FireEvent fires the named event. It reports whether the event exists.
func (m *CustomEventModel) FireEvent(name string, args ...any) bool {
	ev, ok := m.events[name]
	if !ok {
		return false
	}
	ev.Fire(args...)
	return true
}

// Subscribe subscribes s to the named event. It returns false if the
// event does not exist or the subscription was refused.
func (m *CustomEventModel) Subscribe(name string, s *Subscriber, scope any) bool {
	ev, ok := m.events[name]
	if !ok {
		return false
	}
	return ev.Subscribe(s, scope)
}

// Unsubscribe removes s from the named event, or every subscriber when s
// is nil.
func (m *CustomEventModel) Unsubscribe(name string, s *Subscriber) {
	ev, ok := m.events[name]
	if !ok {
		return
	}
	if s == nil {
		ev.UnsubscribeAll()
		return
	}
	ev.Unsubscribe(s)
}

// Events returns the events by name.
func (m *CustomEventModel) Events() map[string]*CustomEvent {
	out := make(map[string]*CustomEvent, len(m.events))
	for name, ev := range m.events {
		out[name] = ev
	}
	return out
}
