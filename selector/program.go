package selector

import (
	"strings"
)

// Pseudo is one pseudo-class of a step.
type Pseudo struct {
	Name string
	Arg  string
}

// Step is one compound selector and its relation to the previous step.
type Step struct {
	Relation Combinator
	// Tag is the lowercased tag name; "" or "*" match any element.
	Tag     string
	ID      string
	Classes []string
	Attrs   []Attr
	Pseudos []Pseudo
}

func (s Step) String() string {
	var b strings.Builder
	switch s.Relation {
	case CombinatorNone:
	case CombinatorDescendant:
		b.WriteString(" ")
	case CombinatorUnion:
		b.WriteString(", ")
	default:
		b.WriteString(" " + s.Relation.String() + " ")
	}
	b.WriteString(s.Tag)
	if s.ID != "" {
		b.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		b.WriteString("." + c)
	}
	for _, a := range s.Attrs {
		b.WriteString(a.String())
	}
	for _, p := range s.Pseudos {
		b.WriteString(":" + p.Name)
		if p.Arg != "" {
			b.WriteString("(" + p.Arg + ")")
		}
	}
	return b.String()
}

// Program is a compiled query. Steps run left to right.
type Program []Step

func (p Program) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// Compile folds tokens into steps. A fragment starts a new step when it
// follows whitespace or a combinator; otherwise it extends the current
// compound, so "input[type=text][name=q]" is a single step.
func Compile(tokens []Token) Program {
	var prog Program
	pending := CombinatorNone
	for _, tok := range tokens {
		if tok.Element != "" || tok.Pseudo != "" || tok.Attr != nil {
			if len(prog) == 0 || pending != CombinatorNone || tok.Space {
				rel := pending
				if rel == CombinatorNone && len(prog) > 0 {
					rel = CombinatorDescendant
				}
				prog = append(prog, Step{Relation: rel})
				pending = CombinatorNone
			}
			st := &prog[len(prog)-1]
			st.addElement(tok.Element)
			st.Pseudos = append(st.Pseudos, splitPseudos(tok.Pseudo)...)
			if tok.Attr != nil {
				st.Attrs = append(st.Attrs, *tok.Attr)
			}
		}
		if tok.Combinator != CombinatorNone {
			pending = tok.Combinator
		}
	}
	return prog
}

// Parse tokenizes and compiles query.
func Parse(query string) Program {
	return Compile(Tokenize(strings.TrimSpace(query)))
}

// addElement splits a tag/.class/#id run into the step's parts.
func (s *Step) addElement(run string) {
	for run != "" {
		end := strings.IndexAny(run[1:], ".#") + 1
		if end == 0 {
			end = len(run)
		}
		part := run[:end]
		run = run[end:]
		switch part[0] {
		case '.':
			if part = part[1:]; part != "" {
				s.Classes = append(s.Classes, part)
			}
		case '#':
			s.ID = part[1:]
		default:
			s.Tag = strings.ToLower(part)
		}
	}
}

// splitPseudos splits ":first-child:not(p)" into its pseudo-classes.
// Colons inside parentheses belong to the argument.
func splitPseudos(text string) []Pseudo {
	var out []Pseudo
	depth, start := 0, -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		seg := text[start:end]
		start = -1
		name, arg := seg, ""
		if i := strings.IndexByte(seg, '('); i >= 0 {
			name = seg[:i]
			arg = strings.TrimSuffix(seg[i+1:], ")")
		}
		if name != "" {
			out = append(out, Pseudo{Name: strings.ToLower(name), Arg: strings.TrimSpace(arg)})
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ':':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(text))
	return out
}
