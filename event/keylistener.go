package event

import (
	"strings"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/keys"
)

// KeySpec matches a key code with an exact modifier state.
type KeySpec struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Codes []int
}

// Match reports whether mods equal the spec's modifiers exactly and code
// is one of its codes.
func (s KeySpec) Match(mods Modifiers, code int) bool {
	if mods != (Modifiers{Shift: s.Shift, Ctrl: s.Ctrl, Alt: s.Alt}) {
		return false
	}
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// KeyMatch describes the keystroke handed to a key callback.
type KeyMatch struct {
	// Name is the special key name, else the lowercased character.
	Name string
	// Code is the keyCode seen on keydown.
	Code int
	// Combo is the combo segment that matched; empty for KeySpec listeners.
	Combo     string
	Modifiers Modifiers
	Args      any
}

// KeyCallback receives matched keystrokes.
type KeyCallback func(e *Event, m KeyMatch)

// KeyState is the phase of one keystroke as seen by a key listener.
type KeyState int

const (
	KeyIdle KeyState = iota
	KeyDownSeen
	KeyPressEvaluated
)

func (s KeyState) String() string {
	switch s {
	case KeyDownSeen:
		return "keydown-seen"
	case KeyPressEvaluated:
		return "keypress-evaluated"
	}
	return "idle"
}

// keyState carries what keydown learned to the keypress that follows it.
type keyState struct {
	phase    KeyState
	mods     Modifiers
	keyCode  int
	special  string
	charName string
}

// KeyListener pairs a keydown and a keypress registration per element.
// Keydown records the modifiers and classifies the key; keypress evaluates
// the combo against that record. When the host will not fire keypress for
// the key, keydown synthesizes a non-bubbling one that only this listener
// evaluates.
type KeyListener struct {
	d       *Dispatcher
	combo   string
	spec    *KeySpec
	cb      KeyCallback
	stop    bool
	args    any
	states  map[*dom.Node]*keyState
	handles []Handle
}

// AddKeyListener calls cb whenever a keystroke on target satisfies combo
// (see IsValidHotKey). WithStop stops every keypress after evaluation.
// It returns nil if cb is nil or target does not resolve.
func (d *Dispatcher) AddKeyListener(target any, combo string, cb KeyCallback, opts ...AddOption) *KeyListener {
	if _, err := ParseCombo(combo); err != nil {
		d.logger.Debug().Err(err).Msg("combo matched permissively")
	}
	return d.addKeyListener(target, combo, nil, cb, opts)
}

// AddKeySpecListener is AddKeyListener with a KeySpec instead of a combo.
func (d *Dispatcher) AddKeySpecListener(target any, spec KeySpec, cb KeyCallback, opts ...AddOption) *KeyListener {
	return d.addKeyListener(target, "", &spec, cb, opts)
}

func (d *Dispatcher) addKeyListener(target any, combo string, spec *KeySpec, cb KeyCallback, opts []AddOption) *KeyListener {
	if cb == nil || d.closed {
		return nil
	}
	nodes := d.resolve(target)
	if len(nodes) == 0 {
		d.logger.Debug().Interface("target", target).Str("combo", combo).Msg("key listener on unresolved target")
		return nil
	}
	var cfg addConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	l := &KeyListener{
		d:      d,
		combo:  combo,
		spec:   spec,
		cb:     cb,
		stop:   cfg.stop,
		args:   cfg.args,
		states: make(map[*dom.Node]*keyState),
	}
	for _, n := range nodes {
		st := &keyState{}
		l.states[n] = st
		down := NewCallback(func(e *Event, _ any) { l.keyDown(n, st, e) })
		press := NewCallback(func(e *Event, _ any) { l.keyPress(st, e) })
		l.handles = append(l.handles, d.Add(n, KeyDown, down, opts...)...)
		l.handles = append(l.handles, d.Add(n, KeyPress, press, opts...)...)
	}
	return l
}

func (l *KeyListener) keyDown(n *dom.Node, st *keyState, e *Event) {
	*st = keyState{
		phase:   KeyDownSeen,
		mods:    e.Modifiers,
		keyCode: e.GetKeyCode(),
	}
	if name, ok := keys.SpecialName(st.keyCode); ok {
		st.special = name
	} else if st.mods.Any() {
		st.charName = strings.ToLower(e.GetCharText())
	}
	if !l.d.host.FiresKeyPress(st.keyCode, st.mods) {
		prev := l.d.synthetic
		l.d.synthetic = st
		l.d.metrics.Simulated(KeyPress)
		l.d.reg.SimulateAt(n, KeyPress)
		l.d.synthetic = prev
	}
}

func (l *KeyListener) keyPress(st *keyState, e *Event) {
	// A keypress synthesized for another listener carries no key data.
	if owner := l.d.synthetic; owner != nil && owner != st {
		return
	}
	m := KeyMatch{Modifiers: e.Modifiers, Code: e.GetKeyCode(), Args: l.args}
	charName := ""
	if st.phase == KeyDownSeen {
		m.Modifiers = st.mods
		m.Code = st.keyCode
		charName = st.charName
	}
	if charName == "" {
		charName = strings.ToLower(e.GetCharText())
	}
	m.Name = charName
	if st.phase == KeyDownSeen && st.special != "" {
		m.Name = st.special
	}
	st.phase = KeyPressEvaluated

	matched := false
	if l.spec != nil {
		matched = l.spec.Match(m.Modifiers, m.Code)
	} else {
		m.Combo, matched = IsValidHotKey(m.Modifiers, m.Name, l.combo)
	}
	if matched {
		l.cb(e, m)
	}
	if l.stop {
		e.Stop()
	}
}

// State returns the keystroke phase the listener is in for n.
func (l *KeyListener) State(n *dom.Node) KeyState {
	if st, ok := l.states[n]; ok {
		return st.phase
	}
	return KeyIdle
}

// Handles returns the keydown and keypress registrations.
func (l *KeyListener) Handles() []Handle {
	return append([]Handle(nil), l.handles...)
}

// Remove detaches the listener.
func (l *KeyListener) Remove() {
	for _, h := range l.handles {
		l.d.RemoveHandle(h)
	}
	l.handles = nil
	for n := range l.states {
		delete(l.states, n)
	}
}
