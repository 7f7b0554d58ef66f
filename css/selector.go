package css

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/swell/dom"
)

// CSSSelector represents a parsed selector list.
type CSSSelector struct {
	// A selector is a list of complex selectors separated by commas
	ComplexSelectors []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors separated by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is a sequence of simple selectors.
type CompoundSelector struct {
	TypeSelector      string // "" for none, "*" for universal, else a lowercase tag name
	IDSelectors       []string
	ClassSelectors    []string
	AttributeMatchers []*AttributeMatcher
	PseudoClasses     []*PseudoClassSelector
	Combinator        CombinatorType // Combinator following this compound selector
}

// CombinatorType represents the type of combinator.
type CombinatorType int

const (
	CombinatorNone              CombinatorType = iota
	CombinatorDescendant                       // (whitespace)
	CombinatorChild                            // >
	CombinatorNextSibling                      // +
	CombinatorSubsequentSibling                // ~
)

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name            string
	Operator        AttributeOperator
	Value           string
	CaseInsensitive bool
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrIncludes                           // [attr~=value]
	AttrDashMatch                          // [attr|=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
)

var attrOperators = map[rune]AttributeOperator{
	'~': AttrIncludes,
	'|': AttrDashMatch,
	'^': AttrPrefix,
	'$': AttrSuffix,
	'*': AttrSubstring,
}

// PseudoClassSelector represents a pseudo-class.
type PseudoClassSelector struct {
	Name     string
	Argument string       // For functional pseudo-classes like :nth-child(2n+1)
	Selector *CSSSelector // For :not(), :is(), :where() and :has()
}

// SelectorParser parses CSS selectors. Unlike a stylesheet parser it is
// strict: anything it cannot represent is a SyntaxError, the way a native
// querySelectorAll rejects it.
type SelectorParser struct {
	tokens []Token
	pos    int
}

// ParseSelector parses a selector list.
func ParseSelector(input string) (*CSSSelector, error) {
	tokens := NewTokenizer(input).TokenizeAll()
	p := &SelectorParser{tokens: tokens}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, p.errorf("unexpected %s", p.current())
	}
	return sel, nil
}

func (p *SelectorParser) errorf(format string, args ...any) error {
	return dom.ErrSyntax(fmt.Sprintf("'%s' is not a valid selector: %s", p.source(), fmt.Sprintf(format, args...)))
}

// source reconstructs a short description of the input for error messages.
func (p *SelectorParser) source() string {
	var sb strings.Builder
	for _, tok := range p.tokens {
		if tok.Type == TokenEOF {
			break
		}
		sb.WriteString(tokenText(tok))
	}
	return sb.String()
}

func tokenText(tok Token) string {
	switch tok.Type {
	case TokenIdent, TokenNumber:
		return tok.Value
	case TokenFunction:
		return tok.Value + "("
	case TokenHash:
		return "#" + tok.Value
	case TokenString:
		return fmt.Sprintf("%q", tok.Value)
	case TokenDelim:
		return string(tok.Delim)
	case TokenDimension:
		return tok.Value + tok.Unit
	case TokenWhitespace:
		return " "
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	case TokenOpenSquare:
		return "["
	case TokenCloseSquare:
		return "]"
	case TokenOpenParen:
		return "("
	case TokenCloseParen:
		return ")"
	}
	return ""
}

func (p *SelectorParser) current() Token {
	return p.peek(0)
}

func (p *SelectorParser) peek(offset int) Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) || pos < 0 {
		return Token{Type: TokenEOF}
	}
	return p.tokens[pos]
}

func (p *SelectorParser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *SelectorParser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

// parseSelector parses a selector list.
func (p *SelectorParser) parseSelector() (*CSSSelector, error) {
	selector := &CSSSelector{}
	p.skipWhitespace()

	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		selector.ComplexSelectors = append(selector.ComplexSelectors, complex)

		p.skipWhitespace()
		if p.current().Type != TokenComma {
			return selector, nil
		}
		p.consume()
		p.skipWhitespace()
	}
}

var combinatorDelims = map[rune]CombinatorType{
	'>': CombinatorChild,
	'+': CombinatorNextSibling,
	'~': CombinatorSubsequentSibling,
}

// parseComplexSelector parses compound selectors joined by combinators.
func (p *SelectorParser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			if len(complex.Compounds) == 0 {
				return nil, p.errorf("expected a selector, found %s", p.current())
			}
			return nil, p.errorf("dangling combinator before %s", p.current())
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		tok := p.current()
		if tok.Type == TokenDelim {
			if c, ok := combinatorDelims[tok.Delim]; ok {
				p.consume()
				p.skipWhitespace()
				compound.Combinator = c
				continue
			}
		}
		if tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenCloseParen {
			return complex, nil
		}
		if !hadWhitespace {
			return nil, p.errorf("unexpected %s", tok)
		}
		compound.Combinator = CombinatorDescendant
	}
}

// parseCompoundSelector parses a compound selector. It returns nil without
// an error when no simple selector starts at the current position.
func (p *SelectorParser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	switch tok := p.current(); {
	case tok.Type == TokenIdent:
		compound.TypeSelector = strings.ToLower(p.consume().Value)
		hasContent = true
	case tok.Type == TokenDelim && tok.Delim == '*':
		p.consume()
		compound.TypeSelector = "*"
		hasContent = true
	}

	for {
		tok := p.current()
		switch {
		case tok.Type == TokenHash:
			if tok.HashType != HashID {
				return nil, p.errorf("invalid id selector #%s", tok.Value)
			}
			p.consume()
			compound.IDSelectors = append(compound.IDSelectors, tok.Value)

		case tok.Type == TokenDelim && tok.Delim == '.':
			p.consume()
			if p.current().Type != TokenIdent {
				return nil, p.errorf("expected a class name after '.'")
			}
			compound.ClassSelectors = append(compound.ClassSelectors, p.consume().Value)

		case tok.Type == TokenColon:
			p.consume()
			if p.current().Type == TokenColon {
				return nil, p.errorf("pseudo-elements never match elements")
			}
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.PseudoClasses = append(compound.PseudoClasses, pc)

		case tok.Type == TokenOpenSquare:
			attr, err := p.parseAttributeSelector()
			if err != nil {
				return nil, err
			}
			compound.AttributeMatchers = append(compound.AttributeMatchers, attr)

		default:
			if !hasContent {
				return nil, nil
			}
			return compound, nil
		}
		hasContent = true
	}
}

// parseAttributeSelector parses an attribute selector.
func (p *SelectorParser) parseAttributeSelector() (*AttributeMatcher, error) {
	p.consume() // [
	p.skipWhitespace()

	if p.current().Type != TokenIdent {
		return nil, p.errorf("expected an attribute name, found %s", p.current())
	}
	attr := &AttributeMatcher{Name: strings.ToLower(p.consume().Value)}
	p.skipWhitespace()

	tok := p.current()
	if tok.Type == TokenCloseSquare {
		p.consume()
		return attr, nil
	}
	if tok.Type != TokenDelim {
		return nil, p.errorf("unexpected %s in attribute selector", tok)
	}
	if tok.Delim == '=' {
		p.consume()
		attr.Operator = AttrEquals
	} else if op, ok := attrOperators[tok.Delim]; ok && p.peek(1).Type == TokenDelim && p.peek(1).Delim == '=' {
		p.consume()
		p.consume()
		attr.Operator = op
	} else {
		return nil, p.errorf("unknown attribute operator %q", tok.Delim)
	}

	p.skipWhitespace()
	tok = p.current()
	if tok.Type != TokenString && tok.Type != TokenIdent {
		return nil, p.errorf("expected an attribute value, found %s", tok)
	}
	attr.Value = p.consume().Value
	p.skipWhitespace()

	if tok := p.current(); tok.Type == TokenIdent && strings.EqualFold(tok.Value, "i") {
		attr.CaseInsensitive = true
		p.consume()
		p.skipWhitespace()
	} else if tok.Type == TokenIdent && strings.EqualFold(tok.Value, "s") {
		p.consume()
		p.skipWhitespace()
	}

	if p.current().Type != TokenCloseSquare {
		return nil, p.errorf("unterminated attribute selector")
	}
	p.consume()
	return attr, nil
}

// parsePseudoClass parses a pseudo-class selector after the colon.
func (p *SelectorParser) parsePseudoClass() (*PseudoClassSelector, error) {
	tok := p.current()
	pc := &PseudoClassSelector{Name: strings.ToLower(tok.Value)}

	switch tok.Type {
	case TokenIdent:
		p.consume()
		if !IsSupportedPseudoClass(pc.Name, false) {
			return nil, p.errorf("unknown pseudo-class :%s", pc.Name)
		}
		return pc, nil
	case TokenFunction:
		p.consume()
	default:
		return nil, p.errorf("expected a pseudo-class name, found %s", tok)
	}

	if !IsSupportedPseudoClass(pc.Name, true) {
		return nil, p.errorf("unknown pseudo-class :%s()", pc.Name)
	}

	p.skipWhitespace()
	switch pc.Name {
	case "not", "is", "where", "has":
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		pc.Selector = sel
	default:
		var arg strings.Builder
		for depth := 1; ; {
			tok := p.current()
			if tok.Type == TokenEOF {
				return nil, p.errorf("unterminated :%s()", pc.Name)
			}
			if tok.Type == TokenOpenParen {
				depth++
			} else if tok.Type == TokenCloseParen {
				depth--
				if depth == 0 {
					break
				}
			}
			arg.WriteString(tokenText(tok))
			p.consume()
		}
		pc.Argument = strings.TrimSpace(arg.String())
	}

	p.skipWhitespace()
	if p.current().Type != TokenCloseParen {
		return nil, p.errorf("unterminated :%s()", pc.Name)
	}
	p.consume()
	return pc, nil
}
