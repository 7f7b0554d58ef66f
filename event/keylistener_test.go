package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/keys"
)

var allProfiles = []host.Profile{host.Standard, host.Legacy, host.WebKit, host.Bare}

type stroke struct {
	keyCode  int
	charCode int
	mods     Modifiers
}

func recordMatches(t *testing.T, p host.Profile, combo string, strokes ...stroke) []KeyMatch {
	t.Helper()
	d, drv := newDispatcher(t, p)
	var got []KeyMatch
	l := d.AddKeyListener("field", combo, func(_ *Event, m KeyMatch) {
		got = append(got, m)
	})
	require.NotNil(t, l)
	for _, s := range strokes {
		drv.KeyStroke(node(d, "field"), s.keyCode, s.charCode, s.mods)
	}
	return got
}

func TestKeyListener_CtrlCombo(t *testing.T) {
	for _, p := range allProfiles {
		got := recordMatches(t, p, "ctrl+a", stroke{'A', 'a', Modifiers{Ctrl: true}})
		require.Len(t, got, 1, p)
		assert.Equal(t, "a", got[0].Name, p)
		assert.Equal(t, "a", got[0].Combo, p)
		assert.Equal(t, int('A'), got[0].Code, p)
		assert.Equal(t, Modifiers{Ctrl: true}, got[0].Modifiers, p)
	}
}

func TestKeyListener_SpecialKeys(t *testing.T) {
	for _, p := range allProfiles {
		got := recordMatches(t, p, "esc|space",
			stroke{keys.Esc, 0, Modifiers{}},
			stroke{32, 32, Modifiers{}},
			stroke{keys.Enter, 0, Modifiers{}},
		)
		require.Len(t, got, 2, p)
		assert.Equal(t, "esc", got[0].Combo, p)
		assert.Equal(t, keys.Esc, got[0].Code, p)
		assert.Equal(t, "space", got[1].Combo, p)
	}
}

func TestKeyListener_NavigationKeys(t *testing.T) {
	for _, p := range allProfiles {
		got := recordMatches(t, p, "left|pgdown",
			stroke{keys.Left, 0, Modifiers{}},
			stroke{keys.PageDown, 0, Modifiers{}},
		)
		require.Len(t, got, 2, p)
		assert.Equal(t, "left", got[0].Name, p)
		assert.Equal(t, "pgdown", got[1].Name, p)
	}
}

func TestKeyListener_PlainKeyBlockedByModifier(t *testing.T) {
	for _, p := range allProfiles {
		got := recordMatches(t, p, "a",
			stroke{'A', 'a', Modifiers{Ctrl: true}},
			stroke{'A', 'a', Modifiers{}},
		)
		require.Len(t, got, 1, p)
		assert.Equal(t, Modifiers{}, got[0].Modifiers, p)
	}
}

func TestKeyListener_Wildcard(t *testing.T) {
	for _, p := range allProfiles {
		got := recordMatches(t, p, "*",
			stroke{'Q', 'q', Modifiers{}},
			stroke{'Q', 'Q', Modifiers{Shift: true}},
			stroke{keys.F2, 0, Modifiers{}},
		)
		require.Len(t, got, 3, p)
		assert.Equal(t, "q", got[0].Name, p)
		assert.Equal(t, "q", got[1].Name, p)
		assert.Equal(t, "F2", got[2].Name, p)
		assert.Equal(t, keys.F2, got[2].Code, p)
	}
}

func TestKeySpecListener(t *testing.T) {
	for _, p := range allProfiles {
		d, drv := newDispatcher(t, p)
		var got []KeyMatch
		d.AddKeySpecListener("field", KeySpec{Ctrl: true, Codes: []int{'A', 'B'}}, func(_ *Event, m KeyMatch) {
			got = append(got, m)
		}, WithArgs("payload"))

		field := node(d, "field")
		drv.KeyStroke(field, 'B', 'b', Modifiers{Ctrl: true})
		drv.KeyStroke(field, 'B', 'b', Modifiers{})
		drv.KeyStroke(field, 'B', 'b', Modifiers{Ctrl: true, Alt: true})
		drv.KeyStroke(field, 'C', 'c', Modifiers{Ctrl: true})

		require.Len(t, got, 1, p)
		assert.Equal(t, int('B'), got[0].Code, p)
		assert.Equal(t, "payload", got[0].Args, p)
		assert.Empty(t, got[0].Combo, p)
	}
}

func TestKeySpec_Match(t *testing.T) {
	spec := KeySpec{Shift: true, Codes: []int{13}}
	assert.True(t, spec.Match(Modifiers{Shift: true}, 13))
	assert.False(t, spec.Match(Modifiers{}, 13))
	assert.False(t, spec.Match(Modifiers{Shift: true, Ctrl: true}, 13))
	assert.False(t, KeySpec{}.Match(Modifiers{}, 13))
}

func TestKeyListener_States(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	field := node(d, "field")
	var during KeyState
	var l *KeyListener
	l = d.AddKeyListener(field, "*", func(*Event, KeyMatch) {
		during = l.State(field)
	})
	assert.Equal(t, KeyIdle, l.State(field))

	drv.KeyStroke(field, 'A', 'a', Modifiers{})
	assert.Equal(t, KeyPressEvaluated, during)
	assert.Equal(t, KeyPressEvaluated, l.State(field))
	assert.Equal(t, "keypress-evaluated", l.State(field).String())
	assert.Equal(t, KeyIdle, l.State(node(d, "other")))
}

func TestKeyListener_Stop(t *testing.T) {
	d, drv := newDispatcher(t, host.Standard)
	outer := 0
	d.Add("outer", KeyPress, counter(&outer))
	d.AddKeyListener("field", "x", func(*Event, KeyMatch) {}, WithStop())

	drv.KeyStroke(node(d, "field"), 'Y', 'y', Modifiers{})
	assert.Equal(t, 0, outer, "stopped even without a match")
}

func TestKeyListener_Nested(t *testing.T) {
	for _, p := range allProfiles {
		d, drv := newDispatcher(t, p)
		var outerNames, fieldNames []string
		d.AddKeyListener("outer", "*", func(_ *Event, m KeyMatch) {
			outerNames = append(outerNames, m.Name)
		})
		d.AddKeyListener("field", "esc|left", func(_ *Event, m KeyMatch) {
			fieldNames = append(fieldNames, m.Name)
		})
		presses := 0
		d.Add("outer", KeyPress, counter(&presses))

		field := node(d, "field")
		drv.KeyStroke(field, keys.Esc, 0, Modifiers{})
		drv.KeyStroke(field, keys.Left, 0, Modifiers{})
		assert.Equal(t, []string{"esc", "left"}, outerNames, p)
		assert.Equal(t, []string{"esc", "left"}, fieldNames, p)

		presses = 0
		drv.KeyStroke(field, 'A', 'a', Modifiers{Ctrl: true})
		assert.Equal(t, 1, presses, p)
		assert.Equal(t, []string{"esc", "left", "a"}, outerNames, p)
	}
}

func TestKeyListener_SameElement(t *testing.T) {
	for _, p := range allProfiles {
		d, drv := newDispatcher(t, p)
		var got []string
		d.AddKeyListener("field", "*", func(_ *Event, m KeyMatch) { got = append(got, "any:"+m.Name) })
		d.AddKeyListener("field", "ctrl+a", func(_ *Event, m KeyMatch) { got = append(got, "ctrl:"+m.Name) })

		drv.KeyStroke(node(d, "field"), 'A', 'a', Modifiers{Ctrl: true})
		assert.ElementsMatch(t, []string{"any:a", "ctrl:a"}, got, p)
	}
}

func TestKeyListener_Remove(t *testing.T) {
	d, drv := newDispatcher(t, host.Legacy)
	fired := 0
	l := d.AddKeyListener([]string{"field", "link"}, "esc", func(*Event, KeyMatch) { fired++ })
	require.NotNil(t, l)
	assert.Len(t, l.Handles(), 4)

	drv.KeyStroke(node(d, "link"), keys.Esc, 0, Modifiers{})
	assert.Equal(t, 1, fired)

	l.Remove()
	assert.Equal(t, 0, d.Cache().Len())
	drv.KeyStroke(node(d, "field"), keys.Esc, 0, Modifiers{})
	assert.Equal(t, 1, fired)
}

func TestKeyListener_InvalidArguments(t *testing.T) {
	d, _ := newDispatcher(t, host.Standard)
	assert.Nil(t, d.AddKeyListener("field", "a", nil))
	assert.Nil(t, d.AddKeyListener("missing", "a", func(*Event, KeyMatch) {}))
	assert.NotNil(t, d.AddKeyListener("field", "ctrl+", func(*Event, KeyMatch) {}), "malformed combos still register")
}
