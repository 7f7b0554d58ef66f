package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/html"
)

const fixture = `<!DOCTYPE html><html><body>
<div id="outer"><a id="link" href="#x">go</a><input id="field"></div>
<div id="other"></div>
</body></html>`

func newDispatcher(t *testing.T, p host.Profile, opts ...Option) (*Dispatcher, *host.Driver) {
	t.Helper()
	doc, err := html.ParseString(fixture)
	require.NoError(t, err)
	h := host.New(doc, p)
	return New(h, opts...), host.NewDriver(h)
}

func node(d *Dispatcher, id string) *dom.Node {
	return d.Host().Resolve(id)
}

func TestNewEvent_Standard(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	link := node(d, "link")
	other := node(d, "other")

	var got *Event
	link.AddEventListener("mouseover", dom.NewEventListener(func(raw dom.RawEvent) {
		got = NewEvent(raw)
	}), false)

	raw := dom.NewEvent("mouseover", true, true)
	raw.ClientX, raw.ClientY = 3, 4
	raw.ShiftKey = true
	raw.DataTransfer = "payload"
	raw.SetRelatedTarget(other)
	link.DispatchEvent(raw)

	require.NotNil(t, got)
	assert.Equal(t, "mouseover", got.Type)
	assert.Same(t, link, got.Target)
	assert.Same(t, link, got.GetTarget())
	assert.Same(t, other, got.RelatedTarget)
	assert.Equal(t, 3, got.ClientX)
	assert.Equal(t, 4, got.ClientY)
	assert.Equal(t, Modifiers{Shift: true}, got.Modifiers)
	assert.Equal(t, "payload", got.DataTransfer)
	assert.Same(t, raw, got.Raw())
}

func TestNewEvent_Legacy(t *testing.T) {
	d, _ := newDispatcher(t, host.Legacy)
	link := node(d, "link")
	other := node(d, "other")

	raw := &dom.LegacyEvent{Type: "mouseover", SrcElement: link, FromElement: other, CtrlKey: true, AltKey: true}
	ev := NewEvent(raw)
	assert.Same(t, link, ev.GetTarget())
	assert.Same(t, other, ev.RelatedTarget)
	assert.Equal(t, Modifiers{Ctrl: true, Alt: true}, ev.Modifiers)
	assert.Nil(t, ev.DataTransfer)
}

func TestCharCodes(t *testing.T) {
	cases := []struct {
		name string
		raw  dom.RawEvent
		code int
		text string
		key  int
	}{
		{"which wins", &dom.Event{KeyCode: 65, Which: 97}, 97, "a", 65},
		{"keyCode fallback", &dom.Event{KeyCode: 65}, 65, "A", 65},
		{"legacy keyCode", &dom.LegacyEvent{KeyCode: 98}, 98, "b", 98},
		{"nothing", &dom.Event{}, 0, "", 0},
	}
	for _, c := range cases {
		ev := NewEvent(c.raw)
		assert.Equal(t, c.code, ev.GetCharCode(), c.name)
		assert.Equal(t, c.text, ev.GetCharText(), c.name)
		assert.Equal(t, c.key, ev.GetKeyCode(), c.name)
	}
}

func TestStopPropagationIdempotent(t *testing.T) {
	std := &dom.Event{Type: "click"}
	ev := NewEvent(std)
	ev.StopPropagation()
	ev.StopPropagation()
	assert.True(t, std.CancelBubble)

	legacy := &dom.LegacyEvent{Type: "click"}
	ev = NewEvent(legacy)
	ev.StopPropagation()
	ev.StopPropagation()
	assert.True(t, legacy.CancelBubble)
}

func TestPreventDefault(t *testing.T) {
	std := dom.NewEvent("submit", true, true)
	NewEvent(std).PreventDefault()
	assert.True(t, std.DefaultPrevented())

	legacy := &dom.LegacyEvent{}
	NewEvent(legacy).PreventDefault()
	assert.Equal(t, false, legacy.ReturnValue)
	assert.True(t, legacy.Cancelled())

	legacy = &dom.LegacyEvent{}
	NewEvent(legacy).PreventDefault("Leave the page?")
	assert.Equal(t, "Leave the page?", legacy.ReturnValue)

	legacy = &dom.LegacyEvent{}
	NewEvent(legacy).PreventDefault("")
	assert.Equal(t, false, legacy.ReturnValue)
}

func TestStop(t *testing.T) {
	std := dom.NewEvent("click", true, true)
	assert.False(t, NewEvent(std).Stop())
	assert.True(t, std.CancelBubble)
	assert.True(t, std.DefaultPrevented())

	legacy := &dom.LegacyEvent{}
	assert.False(t, NewEvent(legacy).Stop())
	assert.True(t, legacy.CancelBubble)
	assert.True(t, legacy.Cancelled())
}
