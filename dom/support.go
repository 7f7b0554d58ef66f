package dom

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// globalHandlers lists the on* handler properties every HTML element exposes.
var globalHandlers = map[string]bool{
	"abort": true, "blur": true, "click": true, "contextmenu": true,
	"dblclick": true, "drag": true, "dragend": true, "dragenter": true,
	"dragleave": true, "dragover": true, "dragstart": true, "drop": true,
	"focus": true, "input": true, "keydown": true, "keypress": true,
	"keyup": true, "mousedown": true, "mousemove": true, "mouseout": true,
	"mouseover": true, "mouseup": true, "scroll": true, "wheel": true,
	"copy": true, "cut": true, "paste": true, "change": true,
}

// elementHandlers lists handler properties specific to some elements.
var elementHandlers = map[atom.Atom][]string{
	atom.Input:    {"select", "invalid"},
	atom.Textarea: {"select", "invalid"},
	atom.Select:   {"invalid"},
	atom.Form:     {"submit", "reset"},
	atom.Img:      {"load", "error"},
	atom.Script:   {"load", "error"},
	atom.Iframe:   {"load"},
	atom.Body:     {"load", "unload", "beforeunload", "resize", "error"},
}

// HasEventHandler reports whether the element exposes an on<name> handler
// property. A leading "on" in name is ignored.
func (e *Element) HasEventHandler(name string) bool {
	name = strings.ToLower(name)
	name = strings.TrimPrefix(name, "on")
	if name == "" {
		return false
	}
	if globalHandlers[name] {
		return true
	}
	for _, h := range elementHandlers[e.Atom()] {
		if h == name {
			return true
		}
	}
	return false
}
