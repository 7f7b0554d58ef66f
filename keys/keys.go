// Package keys holds the static key code tables used by hotkey matching and
// by the host input quirks.
//
// The tables map the numeric keyCode reported on keydown to a canonical
// lowercase name. They are not a keyboard layout: several entries (49, 51,
// 52, 53, 54, 56) name the character those keys produce on an AZERTY
// layout, and 219/220 keep the later of two conflicting names.
package keys

import "sort"

// Key codes of the most used keys.
const (
	Backspace = 8
	Tab       = 9
	Enter     = 13
	Shift     = 16
	Ctrl      = 17
	Alt       = 18
	CapsLock  = 20
	Esc       = 27
	PageUp    = 33
	PageDown  = 34
	End       = 35
	Home      = 36
	Left      = 37
	Up        = 38
	Right     = 39
	Down      = 40
	Ins       = 45
	Del       = 46
	NumLock   = 144

	F1  = 112
	F2  = 113
	F3  = 114
	F4  = 115
	F5  = 116
	F6  = 117
	F7  = 118
	F8  = 119
	F9  = 120
	F10 = 121
	F11 = 122
	F12 = 123
)

var special = map[int]string{
	46:  "del",
	13:  "enter",
	35:  "end",
	27:  "esc",
	9:   "tab",
	32:  "space",
	19:  "pause",
	20:  "capslock",
	145: "scrolllock",
	144: "numlock",
	45:  "insert",
	18:  "altgr",
	188: "comma",
	54:  "dash",
	221: "closebracket",
	191: "slash",
	222: "singlequote",
	51:  "dblquote",
	49:  "ampersand",
	8:   "backspace",
	53:  "openparenthesis",
	219: "closeparenthesis",
	220: "asterisk",
	190: "semicolon",
	187: "equalsign",
	186: "dollar",
	56:  "underscore",
	17:  "ctrl",
	16:  "shift",
	91:  "win-left",
	92:  "win-right",
	52:  "quote",
}

var navigation = map[int]string{
	37: "left",
	39: "right",
	38: "up",
	40: "down",
	33: "pgup",
	34: "pgdown",
	36: "home",
}

var functions = map[int]string{
	112: "F1",
	113: "F2",
	114: "F3",
	115: "F4",
	116: "F5",
	117: "F6",
	118: "F7",
	119: "F8",
	120: "F9",
	121: "F10",
	122: "F11",
	123: "F12",
}

// Special returns a copy of the special key table.
func Special() map[int]string { return clone(special) }

// Navigation returns a copy of the navigation key table.
func Navigation() map[int]string { return clone(navigation) }

// Functions returns a copy of the function key table.
func Functions() map[int]string { return clone(functions) }

func clone(m map[int]string) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SpecialName returns the canonical name of keyCode, looking in the special,
// navigation and function tables in that order. ok is false for keys that
// are not special.
func SpecialName(keyCode int) (name string, ok bool) {
	if name, ok = special[keyCode]; ok {
		return name, true
	}
	if name, ok = navigation[keyCode]; ok {
		return name, true
	}
	name, ok = functions[keyCode]
	return name, ok
}

// IsSpecial reports whether keyCode appears in any table.
func IsSpecial(keyCode int) bool {
	_, ok := SpecialName(keyCode)
	return ok
}

// Entry is one row of a table.
type Entry struct {
	Code int
	Name string
}

// Table names accepted by Sorted.
const (
	TableSpecial    = "special"
	TableNavigation = "navigation"
	TableFunctions  = "functions"
)

// Sorted returns the rows of the named table ordered by key code, or nil
// for an unknown table name.
func Sorted(table string) []Entry {
	var m map[int]string
	switch table {
	case TableSpecial:
		m = special
	case TableNavigation:
		m = navigation
	case TableFunctions:
		m = functions
	default:
		return nil
	}
	out := make([]Entry, 0, len(m))
	for code, name := range m {
		out = append(out, Entry{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
