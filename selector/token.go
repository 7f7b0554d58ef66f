// Package selector implements Marlin, a selector engine for hosts without a
// usable native query primitive.
//
// A query is tokenized by a single regular expression into lexical
// fragments, compiled into a Program of compound steps, and executed step
// by step, each step narrowing the node set produced by the one before.
// When the host has a native query primitive and the query uses nothing
// the native engine is known to lack, Find hands the query straight to it.
package selector

import (
	"regexp"
	"strings"
)

// tokenPattern splits a query into fragments. Each match is an optional
// element part (tag, .class or #id run), an optional pseudo-class part with
// at most one level of nested parentheses in its argument, an optional
// attribute clause and an optional trailing combinator.
var tokenPattern = regexp.MustCompile(`(?i)\s*` +
	`([^:\s\[\(>+~|,]+)?` +
	`(:[a-z\-:]+(?:\((?:\([^()]+?\)|[^()]+?)+\)+?)?)?` +
	`(\[([a-z\-_|]+?)(?:([$|*^~]?=)(?:['"]?([^\[\]'"]+?)['"]?)?)?\])?` +
	`(?:\s*([>+~|,]))?`)

// engineSpecific matches constructs a native CSS 2.1 engine cannot run.
// The lone "|" combinator is checked separately since RE2 has no lookahead.
var engineSpecific = regexp.MustCompile(`(?i)(?::(?:root|nth-|last-child|of-type|only-child|target|enabled|disabled|checked|indeterminate|contains|selection|not|empty)|\s~\s|[\^$*]=)`)

// Combinator relates a step to the node set before it.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild
	CombinatorAdjacent
	CombinatorSibling
	// CombinatorUnion ends a group; the next step starts again from the root.
	CombinatorUnion
)

func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorAdjacent:
		return "+"
	case CombinatorSibling:
		return "~"
	case CombinatorUnion:
		return ","
	}
	return ""
}

func parseCombinator(s string) Combinator {
	switch s {
	case ">":
		return CombinatorChild
	case "+":
		return CombinatorAdjacent
	case "~":
		return CombinatorSibling
	case ",", "|":
		return CombinatorUnion
	}
	return CombinatorNone
}

// Attr is an attribute clause such as [lang|=en].
type Attr struct {
	Name     string
	Operator string
	Value    string
}

func (a Attr) String() string {
	if a.Operator == "" {
		return "[" + a.Name + "]"
	}
	return "[" + a.Name + a.Operator + `"` + a.Value + `"]`
}

// Token is one lexical fragment of a query.
type Token struct {
	// Raw is the matched text, including leading whitespace.
	Raw string
	// Element is the tag, .class and #id run, e.g. "div.container".
	Element string
	// Pseudo is the pseudo-class text, e.g. ":not(.x)" or ":first-child:not(p)".
	Pseudo string
	Attr   *Attr
	// Combinator is the trailing combinator, if any.
	Combinator Combinator
	// Space is set when whitespace preceded the fragment.
	Space bool
	// Start and End locate Raw in the query.
	Start, End int
}

func (t Token) empty() bool {
	return t.Element == "" && t.Pseudo == "" && t.Attr == nil && t.Combinator == CombinatorNone
}

// Tokenize splits query into fragments. It never fails: text the pattern
// cannot match is skipped, so malformed queries yield partial programs.
func Tokenize(query string) []Token {
	var tokens []Token
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(query, -1) {
		tok := Token{Raw: query[m[0]:m[1]], Start: m[0], End: m[1]}
		group := func(i int) string {
			if m[2*i] < 0 {
				return ""
			}
			return query[m[2*i]:m[2*i+1]]
		}
		tok.Element = group(1)
		tok.Pseudo = group(2)
		if group(3) != "" {
			tok.Attr = &Attr{Name: strings.ToLower(group(4)), Operator: group(5), Value: group(6)}
		}
		tok.Combinator = parseCombinator(group(7))
		if tok.empty() {
			continue
		}
		tok.Space = tok.Raw != "" && isSpace(tok.Raw[0])
		tokens = append(tokens, tok)
	}
	return tokens
}

// IsEngineSpecific reports whether query uses a construct only this engine
// implements, so a native CSS 2.1 query primitive must not be trusted with it.
func IsEngineSpecific(query string) bool {
	return engineSpecific.MatchString(query) || hasPipeUnion(query)
}

// hasPipeUnion reports whether query has a "|" that is not part of "|=".
func hasPipeUnion(query string) bool {
	for i := 0; i < len(query); i++ {
		if query[i] == '|' && (i+1 == len(query) || query[i+1] != '=') {
			return true
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
