package event

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Wildcard is the combo that matches any key with any modifiers.
const Wildcard = "*"

const (
	modShift = "shift"
	modCtrl  = "ctrl"
	modAlt   = "alt"
)

func isModifier(s string) bool {
	return s == modShift || s == modCtrl || s == modAlt
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsValidHotKey reports whether a key named charName pressed with mods
// satisfies combo, returning the combo segment that matched.
//
// Combos are "ctrl+shift+a" (the named modifiers and no others, plus the
// key), "esc|space" (any one key, no modifiers), "a" (the key, no
// modifiers) or "*" (anything, whatever the modifiers). In an AND combo
// only the first segment naming the pressed key counts. Whitespace is
// ignored. The matcher never fails loudly: a malformed combo simply does
// not match; ParseCombo reports what is wrong with it.
func IsValidHotKey(mods Modifiers, charName, combo string) (string, bool) {
	combo = stripSpace(combo)
	if combo == "" {
		return "", false
	}

	switch {
	case strings.Contains(combo, "+"):
		var want Modifiers
		key := ""
		for _, seg := range strings.Split(combo, "+") {
			switch seg {
			case modShift:
				want.Shift = true
			case modCtrl:
				want.Ctrl = true
			case modAlt:
				want.Alt = true
			default:
				if key == "" && seg != "" && seg == charName {
					key = seg
				}
			}
		}
		if key == "" || want != mods {
			return "", false
		}
		return key, true

	case strings.Contains(combo, "|"):
		if mods.Any() {
			return "", false
		}
		for _, seg := range strings.Split(combo, "|") {
			if seg != "" && seg == charName {
				return seg, true
			}
		}
		return "", false
	}

	if combo == Wildcard {
		return Wildcard, true
	}
	if mods.Any() || combo != charName {
		return "", false
	}
	return combo, true
}

// ComboKind is the form of a parsed combo.
type ComboKind int

const (
	ComboSingle ComboKind = iota
	ComboAny
	ComboAnd
	ComboOr
)

func (k ComboKind) String() string {
	switch k {
	case ComboAny:
		return "any"
	case ComboAnd:
		return "and"
	case ComboOr:
		return "or"
	}
	return "single"
}

// Combo is a validated key combo.
type Combo struct {
	Kind      ComboKind
	Keys      []string
	Modifiers Modifiers
	source    string
}

// String returns the combo as it was given, without whitespace.
func (c Combo) String() string {
	return c.source
}

// Match reports whether the combo matches, like IsValidHotKey.
func (c Combo) Match(mods Modifiers, charName string) (string, bool) {
	return IsValidHotKey(mods, charName, c.source)
}

// ErrInvalidCombo is wrapped by every ParseCombo error.
var ErrInvalidCombo = errors.New("invalid key combo")

func invalidCombo(combo, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidCombo, combo, fmt.Sprintf(format, args...))
}

// ParseCombo validates combo strictly: no empty segments, "+" and "|" not
// mixed, exactly one key in an AND combo, no modifier repeated, and no
// bare modifiers outside an AND combo.
func ParseCombo(combo string) (Combo, error) {
	src := stripSpace(combo)
	if src == "" {
		return Combo{}, invalidCombo(combo, "empty")
	}
	hasAnd, hasOr := strings.Contains(src, "+"), strings.Contains(src, "|")
	if hasAnd && hasOr {
		return Combo{}, invalidCombo(combo, "cannot mix + and |")
	}

	switch {
	case hasAnd:
		c := Combo{Kind: ComboAnd, source: src}
		seen := map[string]bool{}
		for _, seg := range strings.Split(src, "+") {
			if seg == "" {
				return Combo{}, invalidCombo(combo, "empty segment")
			}
			if seen[seg] {
				return Combo{}, invalidCombo(combo, "%q repeated", seg)
			}
			seen[seg] = true
			switch seg {
			case modShift:
				c.Modifiers.Shift = true
			case modCtrl:
				c.Modifiers.Ctrl = true
			case modAlt:
				c.Modifiers.Alt = true
			case Wildcard:
				return Combo{}, invalidCombo(combo, "wildcard cannot be combined")
			default:
				c.Keys = append(c.Keys, seg)
			}
		}
		if len(c.Keys) != 1 {
			return Combo{}, invalidCombo(combo, "want exactly one key, got %d", len(c.Keys))
		}
		return c, nil

	case hasOr:
		c := Combo{Kind: ComboOr, source: src}
		for _, seg := range strings.Split(src, "|") {
			if seg == "" {
				return Combo{}, invalidCombo(combo, "empty segment")
			}
			if isModifier(seg) || seg == Wildcard {
				return Combo{}, invalidCombo(combo, "%q is not a key", seg)
			}
			c.Keys = append(c.Keys, seg)
		}
		return c, nil
	}

	if src == Wildcard {
		return Combo{Kind: ComboAny, source: src}, nil
	}
	if isModifier(src) {
		return Combo{}, invalidCombo(combo, "%q is a modifier", src)
	}
	return Combo{Kind: ComboSingle, Keys: []string{src}, source: src}, nil
}
