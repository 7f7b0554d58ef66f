package event

import (
	"github.com/chrisuehlinger/swell/dom"
)

// Callback is a user event handler. Identity is the pointer: registering
// the same *Callback twice for one element and type is one registration.
type Callback struct {
	fn func(e *Event, args any)
}

// NewCallback wraps fn.
func NewCallback(fn func(e *Event, args any)) *Callback {
	return &Callback{fn: fn}
}

// Call invokes the callback. A nil callback does nothing.
func (c *Callback) Call(e *Event, args any) {
	if c == nil || c.fn == nil {
		return
	}
	c.fn(e, args)
}

func (c *Callback) valid() bool {
	return c != nil && c.fn != nil
}

// Record is one registered handler: the host-level wrapper plus what it
// wraps.
type Record struct {
	Callback *Callback
	Scope    any
	Args     any
	Capture  bool

	listener *dom.EventListener
	attached bool
}

// Listener returns the wrapper attached at the host level.
func (r *Record) Listener() *dom.EventListener {
	return r.listener
}

// Stamper gives nodes an opaque identity.
type Stamper interface {
	Stamp(n *dom.Node) string
}

type cacheEntry struct {
	types map[string][]*Record
	order []string
}

// Cache maps elements to their records, per event type. Elements are
// stamped on first registration, but entries are keyed by the node itself,
// so nodes of different documents never share an entry. Types with no
// records and elements with no types are removed, so repeated add and
// remove cycles do not grow it.
type Cache struct {
	stamper Stamper
	entries map[*dom.Node]*cacheEntry
	order   []*dom.Node
}

// NewCache returns an empty cache that stamps elements with s.
func NewCache(s Stamper) *Cache {
	return &Cache{
		stamper: s,
		entries: make(map[*dom.Node]*cacheEntry),
	}
}

// AddToCache appends rec for (n, eventType), stamping n if needed. It
// returns false, leaving the cache untouched, if a record with the same
// callback is already there.
func (c *Cache) AddToCache(n *dom.Node, eventType string, rec *Record) bool {
	if n == nil || rec == nil || !rec.Callback.valid() {
		return false
	}
	c.stamper.Stamp(n)
	entry, ok := c.entries[n]
	if !ok {
		entry = &cacheEntry{types: make(map[string][]*Record)}
		c.entries[n] = entry
		c.order = append(c.order, n)
	}
	records, ok := entry.types[eventType]
	if !ok {
		entry.order = append(entry.order, eventType)
	}
	for _, r := range records {
		if r.Callback == rec.Callback {
			return false
		}
	}
	entry.types[eventType] = append(records, rec)
	return true
}

func (c *Cache) entry(n *dom.Node) *cacheEntry {
	if n == nil {
		return nil
	}
	return c.entries[n]
}

// LoadFromCache returns a copy of the records for (n, eventType). ok is
// false if n was never stamped or holds no records for the type.
func (c *Cache) LoadFromCache(n *dom.Node, eventType string) (records []*Record, ok bool) {
	entry := c.entry(n)
	if entry == nil {
		return nil, false
	}
	list, ok := entry.types[eventType]
	if !ok {
		return nil, false
	}
	return append([]*Record(nil), list...), true
}

// LoadAllFromCache returns a copy of every record of n keyed by type.
func (c *Cache) LoadAllFromCache(n *dom.Node) (map[string][]*Record, bool) {
	entry := c.entry(n)
	if entry == nil {
		return nil, false
	}
	out := make(map[string][]*Record, len(entry.types))
	for t, list := range entry.types {
		out[t] = append([]*Record(nil), list...)
	}
	return out, true
}

// Types returns the event types n holds records for, in registration order.
func (c *Cache) Types(n *dom.Node) []string {
	entry := c.entry(n)
	if entry == nil {
		return nil
	}
	return append([]string(nil), entry.order...)
}

// DeleteFromCache removes the records of (n, eventType) whose callback is
// cb, or all of them when cb is nil. It returns the number removed.
func (c *Cache) DeleteFromCache(n *dom.Node, eventType string, cb *Callback) int {
	entry := c.entry(n)
	if entry == nil {
		return 0
	}
	list := entry.types[eventType]
	kept := list[:0:0]
	for _, r := range list {
		if cb != nil && r.Callback != cb {
			kept = append(kept, r)
		}
	}
	removed := len(list) - len(kept)
	if removed > 0 {
		c.store(n, entry, eventType, kept)
	}
	return removed
}

// deleteRecord removes exactly rec.
func (c *Cache) deleteRecord(n *dom.Node, eventType string, rec *Record) bool {
	entry := c.entry(n)
	if entry == nil {
		return false
	}
	list := entry.types[eventType]
	for i, r := range list {
		if r == rec {
			kept := append(list[:i:i], list[i+1:]...)
			c.store(n, entry, eventType, kept)
			return true
		}
	}
	return false
}

func (c *Cache) has(n *dom.Node, eventType string, rec *Record) bool {
	list, _ := c.LoadFromCache(n, eventType)
	for _, r := range list {
		if r == rec {
			return true
		}
	}
	return false
}

func (c *Cache) store(n *dom.Node, entry *cacheEntry, eventType string, list []*Record) {
	if len(list) > 0 {
		entry.types[eventType] = list
		return
	}
	delete(entry.types, eventType)
	entry.order = without(entry.order, eventType)
	if len(entry.types) == 0 {
		delete(c.entries, n)
		c.order = without(c.order, n)
	}
}

func without[T comparable](list []T, s T) []T {
	for i, v := range list {
		if v == s {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// Len returns the number of records in the cache.
func (c *Cache) Len() int {
	n := 0
	for _, entry := range c.entries {
		for _, list := range entry.types {
			n += len(list)
		}
	}
	return n
}

// Elements returns the number of elements holding records.
func (c *Cache) Elements() int {
	return len(c.entries)
}

// Callbacks returns the set of callbacks that hold at least one record.
func (c *Cache) Callbacks() map[*Callback]struct{} {
	out := make(map[*Callback]struct{})
	for _, entry := range c.entries {
		for _, list := range entry.types {
			for _, r := range list {
				out[r.Callback] = struct{}{}
			}
		}
	}
	return out
}

// slot is one cached record with its location.
type slot struct {
	node      *dom.Node
	eventType string
	record    *Record
}

// snapshot lists every record in element, type and registration order.
func (c *Cache) snapshot() []slot {
	var out []slot
	for _, n := range c.order {
		entry := c.entries[n]
		for _, t := range entry.order {
			for _, r := range entry.types[t] {
				out = append(out, slot{node: n, eventType: t, record: r})
			}
		}
	}
	return out
}
