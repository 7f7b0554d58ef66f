package host

import (
	"strings"

	"github.com/chrisuehlinger/swell/keys"
)

// supportTags maps event names to the tag whose handler table is checked.
var supportTags = map[string]string{
	"select": "input",
	"change": "input",
	"submit": "form",
	"reset":  "form",
	"error":  "img",
	"load":   "img",
	"abort":  "img",
}

// Proprietary events some profiles expose beyond the element handler table.
var (
	legacyExtras = map[string]bool{
		"mouseenter": true, "mouseleave": true, "activate": true,
		"deactivate": true, "focusin": true, "focusout": true,
		"help": true, "mousewheel": true,
	}
	legacyMissing = map[string]bool{"input": true, "wheel": true}
	webkitExtras  = map[string]bool{"mousewheel": true}
)

// IsEventSupported reports whether the host exposes an on<name> handler for
// the event. A leading "on" is ignored.
func (h *Host) IsEventSupported(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "on")
	if name == "" || h.features.Registration == ModelNone {
		return false
	}
	switch h.profile {
	case Legacy:
		if legacyExtras[name] {
			return true
		}
		if legacyMissing[name] {
			return false
		}
	case WebKit:
		if webkitExtras[name] {
			return true
		}
	}
	tag := supportTags[name]
	if tag == "" {
		tag = "span"
	}
	return h.doc.CreateElement(tag).HasEventHandler(name)
}

// Modifiers is the state of the modifier keys during an input occurrence.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Any reports whether a modifier is held.
func (m Modifiers) Any() bool {
	return m.Shift || m.Ctrl || m.Alt
}

// Keys for which the legacy host never fires keypress.
var legacySilentKeys = map[int]bool{
	keys.Del: true, keys.End: true, keys.Enter: true, keys.Esc: true,
	keys.F1: true, keys.F2: true, keys.F3: true, keys.F4: true, keys.F5: true,
	keys.F6: true, keys.F7: true, keys.F8: true, keys.F9: true, keys.F10: true,
	keys.Home: true, keys.Ins: true, keys.PageUp: true, keys.PageDown: true,
	keys.Tab: true,
}

// Keys for which WebKit never fires keypress.
var webkitSilentKeys = map[int]bool{
	keys.Up: true, keys.Right: true, keys.Down: true, keys.Left: true,
	keys.PageUp: true, keys.PageDown: true,
}

// FiresKeyPress reports whether the host follows a keydown for keyCode with
// a native keypress. Both the legacy and WebKit hosts drop keypress for
// printable keys combined with ctrl or alt.
func (h *Host) FiresKeyPress(keyCode int, mods Modifiers) bool {
	switch h.profile {
	case Legacy:
		if legacySilentKeys[keyCode] {
			return false
		}
	case WebKit:
		if webkitSilentKeys[keyCode] {
			return false
		}
	default:
		return true
	}
	if !keys.IsSpecial(keyCode) && (mods.Ctrl || mods.Alt) {
		return false
	}
	return true
}
