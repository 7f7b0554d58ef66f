package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/metrics"
)

var registrationProfiles = []host.Profile{host.Standard, host.Legacy}

func counter(n *int) *Callback {
	return NewCallback(func(*Event, any) { *n++ })
}

func hostCount(n *dom.Node, eventType string) int {
	std, legacy := n.ListenerCount(eventType)
	return std + legacy
}

func TestAdd_Idempotent(t *testing.T) {
	for _, p := range registrationProfiles {
		d, drv := newDispatcher(t, p)
		link := node(d, "link")
		fired := 0
		cb := counter(&fired)

		assert.Len(t, d.Add(link, Click, cb), 1, p)
		assert.Empty(t, d.Add(link, Click, cb), p)
		assert.Empty(t, d.Add("link", Click, cb), p)

		records, ok := d.Cache().LoadFromCache(link, Click)
		require.True(t, ok)
		assert.Len(t, records, 1, p)
		assert.Equal(t, 1, hostCount(link, Click), p)

		drv.Click(link, 0, 0)
		assert.Equal(t, 1, fired, p)
	}
}

func TestAdd_SameCallbackDifferentTypes(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	fired := 0
	cb := counter(&fired)
	handles := d.AddTypes("link", []string{Click, MouseOver, ""}, cb)
	assert.Len(t, handles, 2)
	assert.Equal(t, []string{Click, MouseOver}, d.Cache().Types(node(d, "link")))
}

func TestAdd_Targets(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	fired := 0
	cb := counter(&fired)

	handles := d.Add([]any{"link", node(d, "other"), "missing", nil}, Click, cb)
	assert.Len(t, handles, 2)

	link := node(d, "link").AsElement()
	assert.Empty(t, d.Add([]*dom.Element{link}, Click, cb))

	drv.Click(node(d, "link"), 0, 0)
	drv.Click(node(d, "other"), 0, 0)
	assert.Equal(t, 2, fired)
}

func TestAdd_SilentNoOps(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	assert.Nil(t, d.Add("missing", Click, NewCallback(func(*Event, any) {})))
	assert.Nil(t, d.Add("link", Click, nil))
	assert.Nil(t, d.Add("link", Click, NewCallback(nil)))
	assert.Nil(t, d.Add((*dom.Element)(nil), Click, NewCallback(func(*Event, any) {})))
	assert.Equal(t, 0, d.Cache().Len())
}

func TestAdd_ScopeAndArgs(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	link := node(d, "link")

	var scopes []any
	var args []any
	cb := NewCallback(func(e *Event, a any) {
		scopes = append(scopes, e.Scope)
		args = append(args, a)
	})
	owner := struct{ name string }{"owner"}
	d.Add(link, Click, cb)
	d.Add(node(d, "outer"), Click, cb, WithScope(owner), WithArgs([]int{1, 2}))

	drv.Click(link, 0, 0)
	require.Len(t, scopes, 2)
	assert.Same(t, link, scopes[0])
	assert.Nil(t, args[0])
	assert.Equal(t, owner, scopes[1])
	assert.Equal(t, []int{1, 2}, args[1])
}

func TestAdd_Capture(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	var order []string
	d.Add("link", Click, NewCallback(func(*Event, any) { order = append(order, "target") }))
	d.Add("outer", Click, NewCallback(func(*Event, any) { order = append(order, "capture") }), WithCapture())
	drv.Click(node(d, "link"), 0, 0)
	assert.Equal(t, []string{"capture", "target"}, order)
}

func TestSuspendRestore(t *testing.T) {
	for _, p := range registrationProfiles {
		d, drv := newDispatcher(t, p)
		link := node(d, "link")
		fired := 0
		cb := counter(&fired)
		d.Add(link, Click, cb)

		d.Suspend(link, Click, cb)
		assert.Equal(t, 1, d.Cache().Len(), p)
		assert.Equal(t, 0, hostCount(link, Click), p)
		drv.Click(link, 0, 0)
		assert.Equal(t, 0, fired, p)

		d.Restore(link, Click, cb)
		d.Restore(link, Click, cb)
		assert.Equal(t, 1, d.Cache().Len(), p)
		assert.Equal(t, 1, hostCount(link, Click), p)
		drv.Click(link, 0, 0)
		assert.Equal(t, 1, fired, p)

		// the restored wrapper is still the cached one, so Remove detaches it
		d.Remove(link, Click, cb)
		assert.Equal(t, 0, hostCount(link, Click), p)
		drv.Click(link, 0, 0)
		assert.Equal(t, 1, fired, p)
	}
}

func TestSuspendRestore_WholeType(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	link := node(d, "link")
	a, b := 0, 0
	d.Add(link, Click, counter(&a))
	d.Add(link, Click, counter(&b))

	d.Suspend(link, Click, nil)
	drv.Click(link, 0, 0)
	assert.Equal(t, 0, a+b)

	d.Restore(link, Click, nil)
	drv.Click(link, 0, 0)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestRestore_UncachedCallbackIsAdded(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	fired := 0
	cb := counter(&fired)
	d.Restore("link", Click, cb)
	assert.Equal(t, 1, d.Cache().Len())
	drv.Click(node(d, "link"), 0, 0)
	assert.Equal(t, 1, fired)
}

func TestRemove_Modes(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	link := node(d, "link")
	a, b, c := 0, 0, 0
	cbA, cbB := counter(&a), counter(&b)
	d.Add(link, Click, cbA)
	d.Add(link, Click, cbB)
	d.Add(link, MouseOver, counter(&c))

	d.Remove(link, Click, cbA)
	drv.Click(link, 0, 0)
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)

	d.Un(link, Click, nil)
	_, ok := d.Cache().LoadFromCache(link, Click)
	assert.False(t, ok, "empty type key is dropped")
	assert.Equal(t, []string{MouseOver}, d.Cache().Types(link))

	d.Remove(link, "", nil)
	assert.Equal(t, 0, d.Cache().Elements())
	assert.False(t, link.HasListeners(MouseOver))

	assert.NotPanics(t, func() { d.Remove("missing", Click, cbA) })
}

func TestRemove_DuringDispatch(t *testing.T) {
	for _, p := range registrationProfiles {
		d, drv := newDispatcher(t, p)
		link := node(d, "link")
		fired := 0
		var self *Callback
		self = NewCallback(func(*Event, any) {
			fired++
			d.Remove(link, Click, self)
		})
		d.Add(link, Click, self)

		assert.NotPanics(t, func() { drv.Click(link, 0, 0) }, p)
		assert.NotPanics(t, func() { drv.Click(link, 0, 0) }, p)
		assert.Equal(t, 1, fired, p)
		assert.Equal(t, 0, d.Cache().Len(), p)
	}
}

func TestRemove_OtherDuringDispatch(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	link := node(d, "link")
	second := 0
	cbSecond := counter(&second)
	d.Add(link, Click, NewCallback(func(*Event, any) { d.Remove(link, Click, cbSecond) }))
	d.Add(link, Click, cbSecond)

	drv.Click(link, 0, 0)
	assert.Equal(t, 0, second)
}

func TestRemoveHandle(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	link := node(d, "link")
	fired := 0
	handles := d.Add(link, Click, counter(&fired))
	require.Len(t, handles, 1)

	assert.True(t, d.RemoveHandle(handles[0]))
	assert.False(t, d.RemoveHandle(handles[0]))
	assert.False(t, d.RemoveHandle(Handle{}))
	drv.Click(link, 0, 0)
	assert.Equal(t, 0, fired)
}

func TestRemoveAll(t *testing.T) {
	for _, p := range registrationProfiles {
		d, drv := newDispatcher(t, p)
		link, other := node(d, "link"), node(d, "other")
		fired := 0
		d.Add(link, Click, counter(&fired))
		d.Add(link, MouseOver, counter(&fired))
		d.Add(other, Click, counter(&fired))

		assert.Equal(t, 3, d.RemoveAll(), p)
		assert.Equal(t, 0, d.Cache().Len(), p)
		assert.Equal(t, 0, d.Cache().Elements(), p)
		assert.False(t, link.HasListeners(Click), p)
		assert.False(t, other.HasListeners(Click), p)
		drv.Click(link, 0, 0)
		assert.Equal(t, 0, fired, p)
	}
}

func TestRemoveAll_Reentrant(t *testing.T) {
	for _, p := range registrationProfiles {
		d, drv := newDispatcher(t, p)
		link := node(d, "link")
		var self *Callback
		self = NewCallback(func(*Event, any) {
			d.RemoveAll()
			d.Remove(link, Click, self)
		})
		d.Add(link, Click, self)
		d.Add(link, Click, NewCallback(func(*Event, any) {
			d.Remove(link, Click, self)
			d.RemoveAll()
		}))
		d.Add("other", Focus, NewCallback(func(*Event, any) {}))

		assert.NotPanics(t, func() { drv.Click(link, 0, 0) }, p)
		assert.Equal(t, 0, d.Cache().Len(), p)
		assert.False(t, link.HasListeners(Click), p)
		assert.Equal(t, 0, d.RemoveAll(), p)
	}
}

func TestDispose(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	d.Add("link", Click, NewCallback(func(*Event, any) {}))
	d.Dispose()
	assert.True(t, d.Closed())
	assert.Equal(t, 0, d.Cache().Len())
	assert.Nil(t, d.Add("link", Click, NewCallback(func(*Event, any) {})))
	assert.Nil(t, d.AddKeyListener("link", "a", func(*Event, KeyMatch) {}))
}

func TestIndependentDispatchers(t *testing.T) {
	d1, drv1 := newDispatcher(t, host.Standard)
	d2, _ := newDispatcher(t, host.Standard)
	fired := 0
	cb := counter(&fired)
	d1.Add("link", Click, cb)
	d2.Add("link", Click, cb)

	d2.RemoveAll()
	drv1.Click(node(d1, "link"), 0, 0)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, d1.Cache().Len())
}

func TestAdd_NodesOfTwoDocuments(t *testing.T) {
	d1, _ := newDispatcher(t, host.Standard)
	d2, _ := newDispatcher(t, host.Standard)
	mine, foreign := node(d1, "link"), node(d2, "link")
	d2.Host().Stamp(foreign)

	d1.Add(mine, Click, NewCallback(func(*Event, any) {}))
	d1.Add(foreign, Click, NewCallback(func(*Event, any) {}))
	require.Equal(t, mine.UID(), foreign.UID(), "both documents number from one")
	assert.Equal(t, 2, d1.Cache().Elements())

	assert.Equal(t, 2, d1.RemoveAll())
	assert.Equal(t, 0, hostCount(mine, Click))
	assert.Equal(t, 0, hostCount(foreign, Click))
}

func TestMetrics_SuspendThenRemove(t *testing.T) {
	m := metrics.New()
	d, _ := newDispatcher(t, host.Standard, WithMetrics(m))
	cb := NewCallback(func(*Event, any) {})
	d.Add("link", Click, cb)
	d.Suspend("link", Click, cb)
	d.Remove("link", Click, cb)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `swell_listener_removals_total{type="click"} 1`)
	assert.Equal(t, 0, d.Cache().Len())
}

func TestSimulate(t *testing.T) {
	for _, p := range registrationProfiles {
		d, _ := newDispatcher(t, p)
		var types []string
		d.Add("outer", Change, NewCallback(func(e *Event, _ any) {
			types = append(types, e.Type)
			e.PreventDefault()
		}))
		assert.True(t, d.Simulate("field", Change), p)
		assert.Equal(t, []string{Change}, types, p)

		assert.False(t, d.Simulate("other", Change), p)
		assert.False(t, d.Simulate("missing", Change), p)
	}
}

func TestGetAndCloneListeners(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	clicks, overs := 0, 0
	d.Add("link", Click, counter(&clicks), WithArgs("x"))
	d.Add("link", MouseOver, counter(&overs))

	listeners, ok := d.GetListeners("link")
	require.True(t, ok)
	assert.Len(t, listeners[Click], 1)
	assert.Equal(t, "x", listeners[Click][0].Args)

	_, ok = d.GetListeners("other")
	assert.False(t, ok)

	assert.True(t, d.CloneListeners("link", "other", Click))
	other := node(d, "other")
	assert.Equal(t, []string{Click}, d.Cache().Types(other))
	drv.Click(other, 0, 0)
	assert.Equal(t, 1, clicks)

	assert.True(t, d.CloneListeners("link", "outer", ""))
	assert.ElementsMatch(t, []string{Click, MouseOver}, d.Cache().Types(node(d, "outer")))
	assert.False(t, d.CloneListeners("missing", "outer", ""))
}

func TestIsSupported(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	assert.True(t, d.IsSupported("click"))
	assert.True(t, d.AreSupported("click", "onsubmit", "load"))
	assert.False(t, d.AreSupported("click", "mouseenter"))
	assert.True(t, d.AreSupported())

	legacy, _ := newDispatcher(t, host.Legacy)
	assert.True(t, legacy.AreSupported("mouseenter", "focusin"))
}

func TestOnDOMReady(t *testing.T) {
	t.Run("standard", func(t *testing.T) {
		doc := dom.NewDocument()
		d := New(host.New(doc, host.Standard))
		calls := 0
		d.OnDOMReady(counter(&calls))
		assert.Equal(t, 0, calls)
		doc.SetReadyState(dom.ReadyStateInteractive)
		assert.Equal(t, 1, calls)
		doc.SetReadyState(dom.ReadyStateComplete)
		assert.Equal(t, 1, calls)
	})

	t.Run("legacy", func(t *testing.T) {
		doc := dom.NewDocument()
		d := New(host.New(doc, host.Legacy))
		calls := 0
		var scope any
		d.OnDOMReady(NewCallback(func(e *Event, _ any) {
			calls++
			scope = e.Scope
		}), WithScope("app"))
		doc.SetReadyState(dom.ReadyStateInteractive)
		assert.Equal(t, 0, calls)
		doc.SetReadyState(dom.ReadyStateComplete)
		assert.Equal(t, 1, calls)
		assert.Equal(t, "app", scope)
	})

	t.Run("already ready", func(t *testing.T) {
		doc := dom.NewDocument()
		doc.SetReadyState(dom.ReadyStateComplete)
		d := New(host.New(doc, host.Standard))
		var args any
		d.OnDOMReady(NewCallback(func(_ *Event, a any) { args = a }), WithArgs(42))
		assert.Equal(t, 42, args)
		assert.Equal(t, 0, d.Cache().Len())
	})
}

func TestNoRegistrationModel(t *testing.T) {
	doc := dom.NewDocument()
	h := host.New(doc, host.Standard, host.WithRegistration(host.ModelNone))
	d := New(h)
	el := doc.CreateElement("div")
	doc.AppendChild(el.AsNode())

	handles := d.Add(el, Click, NewCallback(func(*Event, any) {}))
	assert.Len(t, handles, 1, "cached even though the host cannot attach")
	assert.False(t, el.AsNode().HasListeners(Click))
	assert.False(t, d.Simulate(el, Click))
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	d, drv := newDispatcher(t, host.Standard, WithMetrics(m))
	cb := NewCallback(func(*Event, any) {})
	d.Add("link", Click, cb)
	d.Add("link", Click, cb)
	drv.Click(node(d, "link"), 0, 0)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, `swell_listener_registrations_total{type="click"} 1`)
	assert.Contains(t, out, `swell_listener_duplicates_total{type="click"} 1`)
	assert.Contains(t, out, `swell_event_dispatches_total{type="click"} 1`)
	assert.Contains(t, out, `swell_listener_cache_elements 1`)
}
