package dom

import (
	"fmt"
	"strings"
)

// validateToken checks a class token: it must be non-empty and free of ASCII
// whitespace.
func validateToken(token string) error {
	if token == "" {
		return ErrSyntax("The token provided must not be empty.")
	}
	if strings.ContainsAny(token, " \t\n\r\f") {
		return ErrInvalidCharacter(fmt.Sprintf("The token provided ('%s') contains HTML space characters, which are not valid in tokens.", token))
	}
	return nil
}

// DOMTokenList represents a set of space-separated tokens backed by an
// attribute. It is used for Element.ClassList.
type DOMTokenList struct {
	element  *Element
	attrName string
}

func newDOMTokenList(element *Element, attrName string) *DOMTokenList {
	return &DOMTokenList{
		element:  element,
		attrName: attrName,
	}
}

// tokens returns the current list of tokens (deduplicated, preserving order).
func (dtl *DOMTokenList) tokens() []string {
	value := dtl.element.GetAttribute(dtl.attrName)
	if value == "" {
		return nil
	}
	all := strings.Fields(value)
	seen := make(map[string]bool, len(all))
	result := make([]string, 0, len(all))
	for _, token := range all {
		if !seen[token] {
			seen[token] = true
			result = append(result, token)
		}
	}
	return result
}

// setTokens writes the tokens back. An absent attribute stays absent when
// there is nothing to write.
func (dtl *DOMTokenList) setTokens(tokens []string) {
	if len(tokens) == 0 && !dtl.element.HasAttribute(dtl.attrName) {
		return
	}
	dtl.element.SetAttribute(dtl.attrName, strings.Join(tokens, " "))
}

// Length returns the number of tokens.
func (dtl *DOMTokenList) Length() int {
	return len(dtl.tokens())
}

// Item returns the token at the given index, or "" if out of bounds.
func (dtl *DOMTokenList) Item(index int) string {
	tokens := dtl.tokens()
	if index < 0 || index >= len(tokens) {
		return ""
	}
	return tokens[index]
}

// Contains returns true if the given token is in the list. Invalid tokens are
// never contained.
func (dtl *DOMTokenList) Contains(token string) bool {
	if validateToken(token) != nil {
		return false
	}
	for _, t := range dtl.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends the tokens that are not already present.
func (dtl *DOMTokenList) Add(tokens ...string) error {
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
	}
	current := dtl.tokens()
	for _, t := range tokens {
		found := false
		for _, c := range current {
			if c == t {
				found = true
				break
			}
		}
		if !found {
			current = append(current, t)
		}
	}
	dtl.setTokens(current)
	return nil
}

// Remove deletes the given tokens.
func (dtl *DOMTokenList) Remove(tokens ...string) error {
	drop := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if err := validateToken(t); err != nil {
			return err
		}
		drop[t] = true
	}
	current := dtl.tokens()
	kept := current[:0]
	for _, c := range current {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	dtl.setTokens(kept)
	return nil
}

// Toggle removes token if present and adds it otherwise. It reports whether
// the token is present afterwards.
func (dtl *DOMTokenList) Toggle(token string) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	if dtl.Contains(token) {
		return false, dtl.Remove(token)
	}
	return true, dtl.Add(token)
}

// Value returns the raw attribute value.
func (dtl *DOMTokenList) Value() string {
	return dtl.element.GetAttribute(dtl.attrName)
}

// String returns the raw attribute value.
func (dtl *DOMTokenList) String() string {
	return dtl.Value()
}
