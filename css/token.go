// Package css is the host's native selector engine: a tokenizer for selector
// text following CSS Syntax Module Level 3, a selector parser, a matcher and
// QuerySelectorAll over dom trees.
// Reference: https://www.w3.org/TR/css-syntax-3/
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents the type of a CSS token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenFunction
	TokenHash
	TokenString
	TokenBadString
	TokenDelim
	TokenNumber
	TokenDimension
	TokenWhitespace
	TokenColon
	TokenComma
	TokenOpenSquare  // [
	TokenCloseSquare // ]
	TokenOpenParen   // (
	TokenCloseParen  // )
)

// HashType indicates whether a hash token is an ID or unrestricted.
type HashType int

const (
	HashUnrestricted HashType = iota
	HashID
)

// Token represents a CSS token.
type Token struct {
	Type     TokenType
	Value    string   // The string value of the token
	NumValue float64  // Numeric value for number/dimension
	Unit     string   // Unit for dimension tokens
	HashType HashType // Type flag for hash tokens
	Delim    rune     // The delimiter character for delim tokens
	Offset   int      // Offset of the first code point in the input
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "<EOF>"
	case TokenIdent:
		return fmt.Sprintf("<IDENT %q>", t.Value)
	case TokenFunction:
		return fmt.Sprintf("<FUNCTION %q>", t.Value)
	case TokenHash:
		if t.HashType == HashID {
			return fmt.Sprintf("<HASH id %q>", t.Value)
		}
		return fmt.Sprintf("<HASH %q>", t.Value)
	case TokenString:
		return fmt.Sprintf("<STRING %q>", t.Value)
	case TokenBadString:
		return "<BAD-STRING>"
	case TokenDelim:
		return fmt.Sprintf("<DELIM %q>", string(t.Delim))
	case TokenNumber:
		return fmt.Sprintf("<NUMBER %v>", t.NumValue)
	case TokenDimension:
		return fmt.Sprintf("<DIMENSION %v%s>", t.NumValue, t.Unit)
	case TokenWhitespace:
		return "<WHITESPACE>"
	case TokenColon:
		return "<COLON>"
	case TokenComma:
		return "<COMMA>"
	case TokenOpenSquare:
		return "<[>"
	case TokenCloseSquare:
		return "<]>"
	case TokenOpenParen:
		return "<(>"
	case TokenCloseParen:
		return "<)>"
	default:
		return fmt.Sprintf("<UNKNOWN %d>", t.Type)
	}
}

// Tokenizer tokenizes selector text.
type Tokenizer struct {
	input []rune
	pos   int
}

// NewTokenizer creates a new CSS tokenizer.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: []rune(preprocessInput(input))}
}

// preprocessInput replaces CR LF, CR and FF with LF and NUL with U+FFFD.
func preprocessInput(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			sb.WriteRune('\n')
		case '\f':
			sb.WriteRune('\n')
		case 0:
			sb.WriteRune('\uFFFD')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (t *Tokenizer) peek() rune {
	return t.peekN(0)
}

func (t *Tokenizer) peekN(n int) rune {
	pos := t.pos + n
	if pos >= len(t.input) || pos < 0 {
		return -1
	}
	return t.input[pos]
}

func (t *Tokenizer) consume() rune {
	if t.pos >= len(t.input) {
		return -1
	}
	r := t.input[t.pos]
	t.pos++
	return r
}

func (t *Tokenizer) reconsume() {
	if t.pos > 0 {
		t.pos--
	}
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isNameStartCodePoint(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= 0x80 || r == '_'
}

func isNameCodePoint(r rune) bool {
	return isNameStartCodePoint(r) || isDigit(r) || r == '-'
}

func (t *Tokenizer) startsWithValidEscapeAt(offset int) bool {
	return t.peekN(offset) == '\\' && t.peekN(offset+1) != '\n' && t.peekN(offset+1) != -1
}

// startsIdentifierAt checks if code points at offset would start an identifier.
func (t *Tokenizer) startsIdentifierAt(offset int) bool {
	first := t.peekN(offset)
	switch {
	case isNameStartCodePoint(first):
		return true
	case first == '-':
		second := t.peekN(offset + 1)
		return isNameStartCodePoint(second) || second == '-' || t.startsWithValidEscapeAt(offset+1)
	case first == '\\':
		return t.startsWithValidEscapeAt(offset)
	}
	return false
}

func (t *Tokenizer) startsNumber() bool {
	first := t.peek()
	switch {
	case isDigit(first):
		return true
	case first == '+' || first == '-':
		second := t.peekN(1)
		return isDigit(second) || (second == '.' && isDigit(t.peekN(2)))
	case first == '.':
		return isDigit(t.peekN(1))
	}
	return false
}

// consumeEscape consumes an escape sequence after the backslash.
func (t *Tokenizer) consumeEscape() rune {
	r := t.consume()
	if r == -1 {
		return '\uFFFD'
	}
	if isHexDigit(r) {
		hex := string(r)
		for i := 0; i < 5 && isHexDigit(t.peek()); i++ {
			hex += string(t.consume())
		}
		if isWhitespace(t.peek()) {
			t.consume()
		}
		val, _ := strconv.ParseInt(hex, 16, 32)
		if val == 0 || val > 0x10FFFF || (val >= 0xD800 && val <= 0xDFFF) {
			return '\uFFFD'
		}
		return rune(val)
	}
	return r
}

func (t *Tokenizer) consumeName() string {
	var result strings.Builder
	for {
		r := t.consume()
		switch {
		case isNameCodePoint(r):
			result.WriteRune(r)
		case r == '\\' && t.peek() != '\n' && t.peek() != -1:
			result.WriteRune(t.consumeEscape())
		default:
			if r != -1 {
				t.reconsume()
			}
			return result.String()
		}
	}
}

func (t *Tokenizer) consumeNumericToken(start int) Token {
	var repr strings.Builder
	if t.peek() == '+' || t.peek() == '-' {
		repr.WriteRune(t.consume())
	}
	for isDigit(t.peek()) {
		repr.WriteRune(t.consume())
	}
	if t.peek() == '.' && isDigit(t.peekN(1)) {
		repr.WriteRune(t.consume())
		for isDigit(t.peek()) {
			repr.WriteRune(t.consume())
		}
	}
	val, _ := strconv.ParseFloat(repr.String(), 64)

	if t.startsIdentifierAt(0) {
		return Token{Type: TokenDimension, Value: repr.String(), NumValue: val, Unit: t.consumeName(), Offset: start}
	}
	return Token{Type: TokenNumber, Value: repr.String(), NumValue: val, Offset: start}
}

func (t *Tokenizer) consumeString(endChar rune, start int) Token {
	var result strings.Builder
	for {
		r := t.consume()
		switch {
		case r == endChar, r == -1:
			return Token{Type: TokenString, Value: result.String(), Offset: start}
		case r == '\n':
			t.reconsume()
			return Token{Type: TokenBadString, Offset: start}
		case r == '\\':
			next := t.peek()
			if next == -1 {
				continue
			}
			if next == '\n' {
				t.consume()
			} else {
				result.WriteRune(t.consumeEscape())
			}
		default:
			result.WriteRune(r)
		}
	}
}

func (t *Tokenizer) consumeIdentLikeToken(start int) Token {
	name := t.consumeName()
	if t.peek() == '(' {
		t.consume()
		return Token{Type: TokenFunction, Value: name, Offset: start}
	}
	return Token{Type: TokenIdent, Value: name, Offset: start}
}

func (t *Tokenizer) consumeComment() {
	t.consume() // /
	t.consume() // *
	for {
		r := t.consume()
		if r == -1 {
			return
		}
		if r == '*' && t.peek() == '/' {
			t.consume()
			return
		}
	}
}

// NextToken returns the next token from the input. Comments are skipped.
func (t *Tokenizer) NextToken() Token {
	for t.peek() == '/' && t.peekN(1) == '*' {
		t.consumeComment()
	}

	start := t.pos
	r := t.consume()

	switch {
	case r == -1:
		return Token{Type: TokenEOF, Offset: start}

	case isWhitespace(r):
		for isWhitespace(t.peek()) {
			t.consume()
		}
		return Token{Type: TokenWhitespace, Offset: start}

	case r == '"' || r == '\'':
		return t.consumeString(r, start)

	case r == '#':
		if isNameCodePoint(t.peek()) || t.startsWithValidEscapeAt(0) {
			hashType := HashUnrestricted
			if t.startsIdentifierAt(0) {
				hashType = HashID
			}
			return Token{Type: TokenHash, Value: t.consumeName(), HashType: hashType, Offset: start}
		}
		return Token{Type: TokenDelim, Delim: r, Offset: start}

	case r == '(':
		return Token{Type: TokenOpenParen, Offset: start}
	case r == ')':
		return Token{Type: TokenCloseParen, Offset: start}
	case r == '[':
		return Token{Type: TokenOpenSquare, Offset: start}
	case r == ']':
		return Token{Type: TokenCloseSquare, Offset: start}
	case r == ',':
		return Token{Type: TokenComma, Offset: start}
	case r == ':':
		return Token{Type: TokenColon, Offset: start}

	case r == '+' || r == '.':
		t.reconsume()
		if t.startsNumber() {
			return t.consumeNumericToken(start)
		}
		t.consume()
		return Token{Type: TokenDelim, Delim: r, Offset: start}

	case r == '-':
		t.reconsume()
		if t.startsNumber() {
			return t.consumeNumericToken(start)
		}
		if t.startsIdentifierAt(0) {
			return t.consumeIdentLikeToken(start)
		}
		t.consume()
		return Token{Type: TokenDelim, Delim: r, Offset: start}

	case r == '\\':
		t.reconsume()
		if t.startsWithValidEscapeAt(0) {
			return t.consumeIdentLikeToken(start)
		}
		t.consume()
		return Token{Type: TokenDelim, Delim: r, Offset: start}

	case isDigit(r):
		t.reconsume()
		return t.consumeNumericToken(start)

	case isNameStartCodePoint(r):
		t.reconsume()
		return t.consumeIdentLikeToken(start)

	default:
		return Token{Type: TokenDelim, Delim: r, Offset: start}
	}
}

// TokenizeAll tokenizes the entire input. The last token is always TokenEOF.
func (t *Tokenizer) TokenizeAll() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}
