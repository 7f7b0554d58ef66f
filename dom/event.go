package dom

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// RawEvent is an event object as the host hands it to listeners. It is
// either a standard *Event or a legacy *LegacyEvent.
type RawEvent interface {
	EventType() string
}

// Event is a standard host event, created with Document.CreateEvent or
// NewEvent and delivered with Node.DispatchEvent.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool

	ClientX, ClientY int
	ShiftKey         bool
	CtrlKey          bool
	AltKey           bool
	KeyCode          int
	Which            int
	DataTransfer     any

	// CancelBubble mirrors the propagation flag; setting it stops propagation
	// after the current node.
	CancelBubble bool

	target        *Node
	currentTarget *Node
	relatedTarget *Node
	phase         EventPhase

	stopImmediate    bool
	defaultPrevented bool
	dispatching      bool
}

// NewEvent creates an initialized standard event.
func NewEvent(eventType string, bubbles, cancelable bool) *Event {
	ev := &Event{}
	ev.InitEvent(eventType, bubbles, cancelable)
	return ev
}

// InitEvent (re)initializes the event. It has no effect while the event is
// being dispatched.
func (e *Event) InitEvent(eventType string, bubbles, cancelable bool) {
	if e.dispatching {
		return
	}
	e.Type = eventType
	e.Bubbles = bubbles
	e.Cancelable = cancelable
	e.CancelBubble = false
	e.stopImmediate = false
	e.defaultPrevented = false
	e.target = nil
}

// EventType returns the event type.
func (e *Event) EventType() string {
	return e.Type
}

// Target returns the node the event was dispatched to.
func (e *Event) Target() *Node {
	return e.target
}

// CurrentTarget returns the node whose listeners are being invoked.
func (e *Event) CurrentTarget() *Node {
	return e.currentTarget
}

// RelatedTarget returns the secondary target of mouseover/mouseout events.
func (e *Event) RelatedTarget() *Node {
	return e.relatedTarget
}

// SetRelatedTarget sets the secondary target.
func (e *Event) SetRelatedTarget(n *Node) {
	e.relatedTarget = n
}

// EventPhase returns the current dispatch phase.
func (e *Event) EventPhase() EventPhase {
	return e.phase
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() {
	e.CancelBubble = true
}

// StopImmediatePropagation also skips the remaining listeners of the current node.
func (e *Event) StopImmediatePropagation() {
	e.CancelBubble = true
	e.stopImmediate = true
}

// PreventDefault cancels the default action of a cancelable event.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// LegacyEvent is the event object of the legacy registration model. It has
// no propagation methods: listeners set CancelBubble and ReturnValue instead.
type LegacyEvent struct {
	Type string

	SrcElement  *Node
	FromElement *Node
	ToElement   *Node

	ClientX, ClientY int
	ShiftKey         bool
	CtrlKey          bool
	AltKey           bool
	KeyCode          int
	DataTransfer     any

	CancelBubble bool
	// ReturnValue is nil until a listener sets it. The value false cancels
	// the default action.
	ReturnValue any
}

// EventType returns the event type without the "on" prefix.
func (e *LegacyEvent) EventType() string {
	return e.Type
}

// Cancelled reports whether a listener set ReturnValue to false.
func (e *LegacyEvent) Cancelled() bool {
	v, ok := e.ReturnValue.(bool)
	return ok && !v
}

// EventListener is a host-level listener. Identity is the pointer: the
// same *EventListener registered twice is one registration.
type EventListener struct {
	fn func(RawEvent)
}

// NewEventListener wraps fn as a host listener.
func NewEventListener(fn func(RawEvent)) *EventListener {
	return &EventListener{fn: fn}
}

// HandleEvent invokes the listener.
func (l *EventListener) HandleEvent(ev RawEvent) {
	if l != nil && l.fn != nil {
		l.fn(ev)
	}
}
