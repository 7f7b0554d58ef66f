package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/html"
	"github.com/chrisuehlinger/swell/keys"
)

const fixture = `<!DOCTYPE html><html><body>
<div id="outer" class="box"><p id="inner" class="box note">hi</p></div>
<span class="note">x</span>
</body></html>`

func newHost(t *testing.T, p Profile, opts ...Option) *Host {
	t.Helper()
	doc, err := html.ParseString(fixture)
	require.NoError(t, err)
	return New(doc, p, opts...)
}

func TestParseProfile(t *testing.T) {
	for _, name := range []string{"standard", "Legacy", " webkit ", "BARE"} {
		_, err := ParseProfile(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseProfile("netscape")
	assert.Error(t, err)
}

func TestProfileFeatures(t *testing.T) {
	cases := []struct {
		profile    Profile
		model      Model
		query      bool
		classQuery bool
		ready      bool
	}{
		{Standard, ModelStandard, true, true, true},
		{WebKit, ModelStandard, true, true, true},
		{Legacy, ModelLegacy, false, false, false},
		{Bare, ModelStandard, false, false, true},
	}
	for _, c := range cases {
		h := newHost(t, c.profile)
		f := h.Features()
		assert.Equal(t, c.model, f.Registration, c.profile)
		assert.Equal(t, c.model, h.Registrar().Model(), c.profile)
		assert.Equal(t, c.query, f.NativeQuery, c.profile)
		assert.Equal(t, c.classQuery, f.NativeClassQuery, c.profile)
		assert.Equal(t, c.ready, f.DOMContentLoaded, c.profile)

		_, ok := h.Querier()
		assert.Equal(t, c.query, ok, c.profile)
		_, ok = h.ClassGetter()
		assert.Equal(t, c.classQuery, ok, c.profile)
	}
}

func TestOptionsOverrideProfile(t *testing.T) {
	h := newHost(t, Standard, WithNativeQuery(false), WithRegistration(ModelNone))
	_, ok := h.Querier()
	assert.False(t, ok)
	assert.Equal(t, ModelNone, h.Registrar().Model())
	assert.False(t, h.Registrar().Attach(h.Resolve("outer"), "click", dom.NewEventListener(func(dom.RawEvent) {}), false))
	assert.False(t, h.IsEventSupported("click"))
}

func TestResolve(t *testing.T) {
	h := newHost(t, Standard)
	n := h.Resolve("inner")
	require.NotNil(t, n)
	assert.Equal(t, "P", n.NodeName())
	assert.Nil(t, h.Resolve("missing"))
	assert.Nil(t, h.Resolve(""))
}

func TestStamp(t *testing.T) {
	h := newHost(t, Standard)
	n := h.Resolve("outer")
	uid := h.Stamp(n)
	assert.NotEmpty(t, uid)
	assert.Equal(t, uid, h.Stamp(n))
	assert.NotEqual(t, uid, h.UniqueID())
}

func TestRegistrarStandard(t *testing.T) {
	h := newHost(t, Standard)
	n := h.Resolve("inner")
	var got []string
	l := dom.NewEventListener(func(ev dom.RawEvent) {
		got = append(got, ev.EventType())
		if e, ok := ev.(*dom.Event); ok {
			e.PreventDefault()
		}
	})

	require.True(t, h.Registrar().Attach(n, "change", l, false))
	assert.True(t, h.Registrar().Simulate(n, "change"), "listener prevented the default")
	assert.Equal(t, []string{"change"}, got)

	h.Registrar().Detach(n, "change", l, false)
	assert.False(t, h.Registrar().Simulate(n, "change"))
	assert.Len(t, got, 1)
}

func TestRegistrarLegacy(t *testing.T) {
	h := newHost(t, Legacy)
	n := h.Resolve("inner")
	var got []string
	l := dom.NewEventListener(func(ev dom.RawEvent) {
		got = append(got, ev.EventType())
		ev.(*dom.LegacyEvent).ReturnValue = false
	})

	require.True(t, h.Registrar().Attach(n, "click", l, true))
	std, legacy := n.ListenerCount("click")
	assert.Equal(t, 0, std)
	assert.Equal(t, 1, legacy)

	assert.True(t, h.Registrar().Simulate(n, "click"))
	assert.Equal(t, []string{"click"}, got)

	h.Registrar().Detach(n, "click", l, true)
	assert.False(t, n.HasListeners("click"))
}

func TestSimulateBubbles(t *testing.T) {
	for _, p := range []Profile{Standard, Legacy} {
		h := newHost(t, p)
		var seen []string
		outer := h.Resolve("outer")
		h.Registrar().Attach(outer, "custom", dom.NewEventListener(func(dom.RawEvent) {
			seen = append(seen, "outer")
		}), false)
		h.Registrar().Simulate(h.Resolve("inner"), "custom")
		assert.Equal(t, []string{"outer"}, seen, p)
	}
}

func TestSimulateAtStaysOnTarget(t *testing.T) {
	for _, p := range []Profile{Standard, Legacy} {
		h := newHost(t, p)
		var seen []string
		for _, id := range []string{"outer", "inner"} {
			h.Registrar().Attach(h.Resolve(id), "keypress", dom.NewEventListener(func(dom.RawEvent) {
				seen = append(seen, id)
			}), false)
		}
		h.Registrar().SimulateAt(h.Resolve("inner"), "keypress")
		assert.Equal(t, []string{"inner"}, seen, p)
	}
}

func TestQuerier(t *testing.T) {
	h := newHost(t, Standard)
	q, ok := h.Querier()
	require.True(t, ok)
	els, err := q.QueryAll(h.Document().AsNode(), "div > p.note")
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "inner", els[0].Id())

	_, err = q.QueryAll(h.Document().AsNode(), "p:contains(hi)")
	assert.Error(t, err)

	g, ok := h.ClassGetter()
	require.True(t, ok)
	assert.Len(t, g.ElementsByClassName(h.Document().AsNode(), "note"), 2)
	assert.Len(t, g.ElementsByClassName(h.Document().AsNode(), "box note"), 1)
}

func TestIsEventSupported(t *testing.T) {
	std := newHost(t, Standard)
	legacy := newHost(t, Legacy)
	webkit := newHost(t, WebKit)

	assert.True(t, std.IsEventSupported("click"))
	assert.True(t, std.IsEventSupported("onclick"))
	assert.True(t, std.IsEventSupported("submit"))
	assert.True(t, std.IsEventSupported("load"))
	assert.True(t, std.IsEventSupported("select"))
	assert.False(t, std.IsEventSupported("mouseenter"))
	assert.False(t, std.IsEventSupported("bogus"))
	assert.False(t, std.IsEventSupported(""))

	assert.True(t, legacy.IsEventSupported("mouseenter"))
	assert.True(t, legacy.IsEventSupported("onfocusin"))
	assert.False(t, legacy.IsEventSupported("input"))
	assert.True(t, webkit.IsEventSupported("mousewheel"))
}

func TestFiresKeyPress(t *testing.T) {
	none := Modifiers{}
	ctrl := Modifiers{Ctrl: true}
	shift := Modifiers{Shift: true}

	std := newHost(t, Standard)
	assert.True(t, std.FiresKeyPress(keys.Esc, none))
	assert.True(t, std.FiresKeyPress('A', ctrl))

	legacy := newHost(t, Legacy)
	assert.False(t, legacy.FiresKeyPress(keys.Esc, none))
	assert.False(t, legacy.FiresKeyPress(keys.F4, none))
	assert.True(t, legacy.FiresKeyPress(32, none))
	assert.True(t, legacy.FiresKeyPress('A', none))
	assert.True(t, legacy.FiresKeyPress('A', shift))
	assert.False(t, legacy.FiresKeyPress('A', ctrl))

	webkit := newHost(t, WebKit)
	assert.False(t, webkit.FiresKeyPress(keys.Left, none))
	assert.False(t, webkit.FiresKeyPress(keys.PageDown, none))
	assert.True(t, webkit.FiresKeyPress(keys.Esc, none))
	assert.False(t, webkit.FiresKeyPress('A', Modifiers{Alt: true}))
	assert.True(t, webkit.FiresKeyPress('A', none))
}

func TestDriverKeyStroke(t *testing.T) {
	cases := []struct {
		profile Profile
		keyCode int
		want    []string
	}{
		{Standard, keys.Esc, []string{"keydown", "keypress", "keyup"}},
		{Legacy, keys.Esc, []string{"keydown", "keyup"}},
		{WebKit, keys.Up, []string{"keydown", "keyup"}},
		{WebKit, 'A', []string{"keydown", "keypress", "keyup"}},
	}
	for _, c := range cases {
		h := newHost(t, c.profile)
		n := h.Resolve("inner")
		var got []string
		l := dom.NewEventListener(func(ev dom.RawEvent) { got = append(got, ev.EventType()) })
		for _, typ := range []string{"keydown", "keypress", "keyup"} {
			h.Registrar().Attach(n, typ, l, false)
		}
		NewDriver(h).KeyStroke(n, c.keyCode, 0, Modifiers{})
		assert.Equal(t, c.want, got, "%s %d", c.profile, c.keyCode)
	}
}

func TestDriverKeyFields(t *testing.T) {
	h := newHost(t, Standard)
	n := h.Resolve("inner")
	var press *dom.Event
	h.Registrar().Attach(n, "keypress", dom.NewEventListener(func(ev dom.RawEvent) {
		press = ev.(*dom.Event)
	}), false)
	NewDriver(h).KeyStroke(n, 'A', 'a', Modifiers{Shift: true})
	require.NotNil(t, press)
	assert.Equal(t, int('a'), press.Which)
	assert.True(t, press.ShiftKey)
	assert.False(t, press.CtrlKey)
}

func TestDriverClick(t *testing.T) {
	for _, p := range []Profile{Standard, Legacy} {
		h := newHost(t, p)
		n := h.Resolve("inner")
		var got []string
		var x, y int
		l := dom.NewEventListener(func(ev dom.RawEvent) {
			got = append(got, ev.EventType())
			switch e := ev.(type) {
			case *dom.Event:
				x, y = e.ClientX, e.ClientY
			case *dom.LegacyEvent:
				x, y = e.ClientX, e.ClientY
			}
		})
		for _, typ := range []string{"mousedown", "mouseup", "click"} {
			h.Registrar().Attach(h.Resolve("outer"), typ, l, false)
		}
		assert.True(t, NewDriver(h).Click(n, 10, 20), p)
		assert.Equal(t, []string{"mousedown", "mouseup", "click"}, got, p)
		assert.Equal(t, 10, x)
		assert.Equal(t, 20, y)
	}
}

func TestDriverMouseRelated(t *testing.T) {
	h := newHost(t, Legacy)
	inner, outer := h.Resolve("inner"), h.Resolve("outer")
	var from *dom.Node
	h.Registrar().Attach(inner, "mouseover", dom.NewEventListener(func(ev dom.RawEvent) {
		from = ev.(*dom.LegacyEvent).FromElement
	}), false)
	NewDriver(h).Mouse(inner, "mouseover", 0, 0, outer)
	assert.Same(t, outer, from)
}
