package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// ErrInvalidQuery is returned by strict validation.
var ErrInvalidQuery = errors.New("invalid selector query")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Validate checks query against the engine's grammar. The tokenizer alone
// never fails, so Validate also rejects text it had to skip, dangling
// combinators and pseudo-classes nobody implements. Queries that stay
// inside standard CSS are additionally parsed by cascadia; "|" unions and
// pseudo-classes registered with WithPseudo skip that check.
func (e *Engine) Validate(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return invalid("empty query")
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return invalid("nothing to match in %q", query)
	}
	pos := 0
	for _, tok := range tokens {
		if gap := strings.TrimSpace(query[pos:tok.Start]); gap != "" {
			return invalid("unexpected %q at offset %d in %q", gap, pos, query)
		}
		pos = tok.End
	}
	if rest := strings.TrimSpace(query[pos:]); rest != "" {
		return invalid("unexpected %q at offset %d in %q", rest, pos, query)
	}
	if tokens[0].Element == "" && tokens[0].Pseudo == "" && tokens[0].Attr == nil {
		return invalid("%q starts with a combinator", query)
	}
	if last := tokens[len(tokens)-1]; last.Combinator != CombinatorNone {
		return invalid("%q ends with a combinator", query)
	}

	pending := false
	for _, tok := range tokens {
		hasCompound := tok.Element != "" || tok.Pseudo != "" || tok.Attr != nil
		if !hasCompound && pending {
			return invalid("consecutive combinators in %q", query)
		}
		pending = tok.Combinator != CombinatorNone
	}

	cssOnly := !hasPipeUnion(query)
	for _, st := range Compile(tokens) {
		for _, p := range st.Pseudos {
			if !e.knowsPseudo(p.Name) {
				return invalid("unknown pseudo-class :%s", p.Name)
			}
			if !builtinPseudo(p.Name) {
				cssOnly = false
			}
		}
	}
	if !cssOnly {
		return nil
	}
	if _, err := cascadia.ParseGroup(query); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// cascadiaPseudos are the pseudo-classes cascadia parses.
var cascadiaPseudos = map[string]bool{
	"not": true, "has": true, "contains": true,
	"nth-child": true, "nth-last-child": true, "nth-of-type": true, "nth-last-of-type": true,
	"first-child": true, "last-child": true, "first-of-type": true, "last-of-type": true,
	"only-child": true, "only-of-type": true, "empty": true, "root": true, "link": true,
	"lang": true, "enabled": true, "disabled": true, "checked": true,
	"visited": true, "hover": true, "active": true, "focus": true, "target": true,
}

func builtinPseudo(name string) bool {
	return cascadiaPseudos[name]
}

// Validate checks query with an engine that has only the built-in
// pseudo-classes.
func Validate(query string) error {
	return (&Engine{pseudos: map[string]PseudoFunc{"contains": nil, "not": nil}}).Validate(query)
}
