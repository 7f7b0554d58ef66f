package selector

import (
	"strings"

	"github.com/chrisuehlinger/swell/css"
	"github.com/chrisuehlinger/swell/dom"
)

// matchContains implements :contains(text) against the element's text.
func matchContains(el *dom.Element, arg string) bool {
	return strings.Contains(el.TextContent(), unquote(arg))
}

// matchNot implements :not(selector). A single compound argument is matched
// by the engine itself, so it may use engine-only pseudo-classes; anything
// longer goes to the CSS matcher.
func (e *Engine) matchNot(el *dom.Element, arg string) bool {
	prog := Parse(arg)
	if len(prog) == 1 && prog[0].Relation == CombinatorNone {
		return !e.matches(el, prog[0], true)
	}
	matched, err := css.Matches(el, arg)
	if err != nil {
		e.logger.Debug().Err(err).Str("arg", arg).Msg(":not argument ignored")
		return true
	}
	return !matched
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
