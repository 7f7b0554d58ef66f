package event

import (
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/metrics"
)

// Dispatcher registers callbacks on elements through the host's
// registration model and keeps them in its own Cache. Invalid arguments
// (nil callbacks, unresolvable targets) are logged and ignored.
//
// A Dispatcher is not safe for concurrent use; it runs on the goroutine
// that drives the document, like the host's own event loop.
type Dispatcher struct {
	host    *host.Host
	reg     host.Registrar
	cache   *Cache
	logger  zerolog.Logger
	metrics *metrics.Collectors
	closed  bool

	// synthetic is the key listener state whose keypress is being
	// synthesized, if any.
	synthetic *keyState
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithMetrics sets the collectors that count registrations and dispatches.
func WithMetrics(m *metrics.Collectors) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithCache makes the dispatcher use c instead of a fresh cache.
func WithCache(c *Cache) Option {
	return func(d *Dispatcher) {
		d.cache = c
	}
}

// New returns a dispatcher for h.
func New(h *host.Host, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		host:   h,
		reg:    h.Registrar(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cache == nil {
		d.cache = NewCache(h)
	}
	return d
}

// Host returns the host the dispatcher registers through.
func (d *Dispatcher) Host() *host.Host { return d.host }

// Cache returns the listener cache.
func (d *Dispatcher) Cache() *Cache { return d.cache }

// Closed reports whether Dispose was called.
func (d *Dispatcher) Closed() bool { return d.closed }

// AddOption configures one registration.
type AddOption func(*addConfig)

type addConfig struct {
	scope   any
	args    any
	capture bool
	stop    bool
}

// WithScope sets the value handed to the callback as Event.Scope.
func WithScope(scope any) AddOption {
	return func(c *addConfig) {
		c.scope = scope
	}
}

// WithArgs sets the extra argument passed to the callback.
func WithArgs(args any) AddOption {
	return func(c *addConfig) {
		c.args = args
	}
}

// WithCapture registers for the capture phase on standard hosts.
func WithCapture() AddOption {
	return func(c *addConfig) {
		c.capture = true
	}
}

// WithStop makes a key listener stop every keypress it evaluates. Add
// ignores it.
func WithStop() AddOption {
	return func(c *addConfig) {
		c.stop = true
	}
}

func withCapture(capture bool) AddOption {
	return func(c *addConfig) {
		c.capture = capture
	}
}

// Handle identifies one registration.
type Handle struct {
	Node   *dom.Node
	Type   string
	Record *Record
}

// resolve turns a target into nodes. Targets are nodes, elements,
// documents, element ids, or slices of those.
func (d *Dispatcher) resolve(target any) []*dom.Node {
	switch t := target.(type) {
	case nil:
		return nil
	case *dom.Node:
		if t == nil {
			return nil
		}
		return []*dom.Node{t}
	case *dom.Element:
		if t == nil {
			return nil
		}
		return []*dom.Node{t.AsNode()}
	case *dom.Document:
		if t == nil {
			return nil
		}
		return []*dom.Node{t.AsNode()}
	case string:
		if n := d.host.Resolve(t); n != nil {
			return []*dom.Node{n}
		}
		return nil
	case []*dom.Node:
		var out []*dom.Node
		for _, n := range t {
			out = append(out, d.resolve(n)...)
		}
		return out
	case []*dom.Element:
		var out []*dom.Node
		for _, el := range t {
			out = append(out, d.resolve(el)...)
		}
		return out
	case []string:
		var out []*dom.Node
		for _, id := range t {
			out = append(out, d.resolve(id)...)
		}
		return out
	case []any:
		var out []*dom.Node
		for _, v := range t {
			out = append(out, d.resolve(v)...)
		}
		return out
	}
	return nil
}

func describe(n *dom.Node) string {
	if n == nil {
		return ""
	}
	if el := n.AsElement(); el != nil {
		return el.String()
	}
	return n.NodeName()
}

// Add registers cb for eventType on target. target is a node, element,
// document, element id, or a slice of those. It returns one handle per
// registration made; duplicates and invalid arguments produce none.
func (d *Dispatcher) Add(target any, eventType string, cb *Callback, opts ...AddOption) []Handle {
	return d.AddTypes(target, []string{eventType}, cb, opts...)
}

// On is Add.
func (d *Dispatcher) On(target any, eventType string, cb *Callback, opts ...AddOption) []Handle {
	return d.Add(target, eventType, cb, opts...)
}

// AddEventListener is Add.
func (d *Dispatcher) AddEventListener(target any, eventType string, cb *Callback, opts ...AddOption) []Handle {
	return d.Add(target, eventType, cb, opts...)
}

// AddEvent is Add.
func (d *Dispatcher) AddEvent(target any, eventType string, cb *Callback, opts ...AddOption) []Handle {
	return d.Add(target, eventType, cb, opts...)
}

// AddTypes registers cb for every combination of target and type.
func (d *Dispatcher) AddTypes(target any, eventTypes []string, cb *Callback, opts ...AddOption) []Handle {
	if d.closed {
		d.logger.Debug().Strs("type", eventTypes).Msg("add on disposed dispatcher ignored")
		return nil
	}
	if !cb.valid() {
		d.logger.Debug().Strs("type", eventTypes).Msg("add without callback ignored")
		return nil
	}
	nodes := d.resolve(target)
	if len(nodes) == 0 {
		d.logger.Debug().Interface("target", target).Strs("type", eventTypes).Msg("unresolved target")
		return nil
	}
	var cfg addConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var handles []Handle
	for _, n := range nodes {
		for _, t := range eventTypes {
			if t == "" {
				continue
			}
			if h, ok := d.add(n, t, cb, cfg); ok {
				handles = append(handles, h)
			}
		}
	}
	return handles
}

func (d *Dispatcher) add(n *dom.Node, eventType string, cb *Callback, cfg addConfig) (Handle, bool) {
	rec := &Record{Callback: cb, Scope: cfg.scope, Args: cfg.args, Capture: cfg.capture}
	rec.listener = dom.NewEventListener(d.wrap(eventType, rec))

	if !d.cache.AddToCache(n, eventType, rec) {
		d.metrics.DuplicateRejected(eventType)
		d.logger.Debug().Str("target", describe(n)).Str("type", eventType).Msg("duplicate registration skipped")
		return Handle{}, false
	}
	d.attach(n, eventType, rec)
	d.metrics.SetCachedElements(d.cache.Elements())
	return Handle{Node: n, Type: eventType, Record: rec}, true
}

// wrap builds the host-level function for rec: it normalizes the raw event
// and calls the user callback with the record's scope and args.
func (d *Dispatcher) wrap(eventType string, rec *Record) func(dom.RawEvent) {
	return func(raw dom.RawEvent) {
		ev := NewEvent(raw)
		if rec.Scope != nil {
			ev.Scope = rec.Scope
		} else if ev.Target != nil {
			ev.Scope = ev.Target
		}
		d.metrics.Dispatched(eventType)
		rec.Callback.Call(ev, rec.Args)
	}
}

func (d *Dispatcher) attach(n *dom.Node, eventType string, rec *Record) {
	if rec.attached {
		return
	}
	if d.reg.Attach(n, eventType, rec.listener, rec.Capture) {
		rec.attached = true
		d.metrics.ListenerAdded(eventType)
		return
	}
	d.logger.Debug().Str("target", describe(n)).Str("type", eventType).
		Stringer("model", d.reg.Model()).Msg("host refused registration")
}

// detach is a no-op for a record that is not attached, such as one
// suspended earlier.
func (d *Dispatcher) detach(n *dom.Node, eventType string, rec *Record) {
	if !rec.attached {
		return
	}
	d.reg.Detach(n, eventType, rec.listener, rec.Capture)
	rec.attached = false
	d.metrics.ListenerRemoved(eventType)
}

// Remove detaches the callbacks registered for eventType on target and
// drops them from the cache: only cb when it is non-nil, else every
// callback of the type. An empty eventType covers every type.
func (d *Dispatcher) Remove(target any, eventType string, cb *Callback) {
	for _, n := range d.resolve(target) {
		d.remove(n, eventType, cb, false)
	}
}

// Un is Remove.
func (d *Dispatcher) Un(target any, eventType string, cb *Callback) {
	d.Remove(target, eventType, cb)
}

// Suspend detaches like Remove but keeps the cache records so Restore can
// reattach them.
func (d *Dispatcher) Suspend(target any, eventType string, cb *Callback) {
	for _, n := range d.resolve(target) {
		d.remove(n, eventType, cb, true)
	}
}

func (d *Dispatcher) typesOf(n *dom.Node, eventType string) []string {
	if eventType == "" {
		return d.cache.Types(n)
	}
	return []string{eventType}
}

func (d *Dispatcher) remove(n *dom.Node, eventType string, cb *Callback, preserveCache bool) {
	for _, t := range d.typesOf(n, eventType) {
		records, ok := d.cache.LoadFromCache(n, t)
		if !ok {
			continue
		}
		for i := len(records) - 1; i >= 0; i-- {
			rec := records[i]
			if cb != nil && rec.Callback != cb {
				continue
			}
			d.detach(n, t, rec)
			if !preserveCache {
				d.cache.deleteRecord(n, t, rec)
			}
		}
	}
	d.metrics.SetCachedElements(d.cache.Elements())
}

// Restore reattaches the cached wrappers suspended for eventType on target
// (only cb's when it is non-nil). A callback that is not cached is added
// as a new registration.
func (d *Dispatcher) Restore(target any, eventType string, cb *Callback) {
	for _, n := range d.resolve(target) {
		restored := false
		for _, t := range d.typesOf(n, eventType) {
			records, _ := d.cache.LoadFromCache(n, t)
			for _, rec := range records {
				if cb != nil && rec.Callback != cb {
					continue
				}
				d.attach(n, t, rec)
				restored = true
			}
		}
		if !restored && cb != nil && eventType != "" {
			d.Add(n, eventType, cb)
		}
	}
}

// RemoveHandle detaches exactly the registration h. It reports whether
// the registration was still present.
func (d *Dispatcher) RemoveHandle(h Handle) bool {
	if h.Record == nil || !d.cache.has(h.Node, h.Type, h.Record) {
		return false
	}
	d.detach(h.Node, h.Type, h.Record)
	d.cache.deleteRecord(h.Node, h.Type, h.Record)
	d.metrics.SetCachedElements(d.cache.Elements())
	return true
}

// Simulate fires a synthetic eventType at each target through the host.
// It reports whether any listener cancelled the default action.
func (d *Dispatcher) Simulate(target any, eventType string) bool {
	nodes := d.resolve(target)
	if len(nodes) == 0 {
		d.logger.Debug().Interface("target", target).Str("type", eventType).Msg("simulate on unresolved target")
		return false
	}
	cancelled := false
	for _, n := range nodes {
		d.metrics.Simulated(eventType)
		if d.reg.Simulate(n, eventType) {
			cancelled = true
		}
	}
	return cancelled
}

// GetListeners returns a copy of the records of target keyed by type.
func (d *Dispatcher) GetListeners(target any) (map[string][]*Record, bool) {
	nodes := d.resolve(target)
	if len(nodes) == 0 {
		return nil, false
	}
	return d.cache.LoadAllFromCache(nodes[0])
}

// CloneListeners registers on dest every callback cached for source,
// restricted to eventType when it is non-empty. Scope, args and capture
// carry over.
func (d *Dispatcher) CloneListeners(source, dest any, eventType string) bool {
	nodes := d.resolve(source)
	if len(nodes) == 0 {
		return false
	}
	src := nodes[0]
	for _, t := range d.cache.Types(src) {
		if eventType != "" && t != eventType {
			continue
		}
		records, _ := d.cache.LoadFromCache(src, t)
		for _, rec := range records {
			d.Add(dest, t, rec.Callback, WithScope(rec.Scope), WithArgs(rec.Args), withCapture(rec.Capture))
		}
	}
	return true
}

// RemoveAll detaches every cached registration and empties the cache. It
// works from a snapshot, so handlers that remove registrations while it
// runs are harmless. It returns the number of registrations removed.
func (d *Dispatcher) RemoveAll() int {
	removed := 0
	for _, s := range d.cache.snapshot() {
		if !d.cache.deleteRecord(s.node, s.eventType, s.record) {
			continue
		}
		d.detach(s.node, s.eventType, s.record)
		removed++
	}
	d.metrics.SetCachedElements(d.cache.Elements())
	d.logger.Debug().Int("removed", removed).Msg("removed all listeners")
	return removed
}

// Dispose removes every registration and makes later Add calls no-ops.
func (d *Dispatcher) Dispose() {
	d.RemoveAll()
	d.closed = true
}

// IsSupported reports whether the host supports the named event.
func (d *Dispatcher) IsSupported(name string) bool {
	return d.host.IsEventSupported(name)
}

// AreSupported reports whether the host supports every named event.
func (d *Dispatcher) AreSupported(names ...string) bool {
	for _, name := range names {
		if !d.IsSupported(name) {
			return false
		}
	}
	return true
}

// OnDOMReady runs cb once the document is parsed. If that has already
// happened cb runs immediately; otherwise it is registered for
// DOMContentLoaded, or on hosts without that event for readystatechange
// reaching "complete".
func (d *Dispatcher) OnDOMReady(cb *Callback, opts ...AddOption) []Handle {
	if !cb.valid() {
		return nil
	}
	doc := d.host.Document()
	node := doc.AsNode()

	if doc.ReadyState() != dom.ReadyStateLoading {
		var cfg addConfig
		for _, opt := range opts {
			opt(&cfg)
		}
		ev := NewEvent(dom.NewEvent(DOMContentLoaded, true, false))
		ev.Target = node
		ev.Scope = cfg.scope
		if ev.Scope == nil {
			ev.Scope = node
		}
		cb.Call(ev, cfg.args)
		return nil
	}

	if d.host.Features().DOMContentLoaded {
		return d.Add(node, DOMContentLoaded, cb, opts...)
	}
	ready := NewCallback(func(e *Event, args any) {
		if doc.ReadyState() == dom.ReadyStateComplete {
			cb.Call(e, args)
		}
	})
	return d.Add(node, ReadyStateChange, ready, opts...)
}
