package selector

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/swell/css"
	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/metrics"
)

// PseudoFunc decides whether el satisfies a pseudo-class with argument arg.
type PseudoFunc func(el *dom.Element, arg string) bool

// Engine executes queries against a host document.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	host     *host.Host
	logger   zerolog.Logger
	metrics  *metrics.Collectors
	strict   bool
	fastPath bool
	pseudos  map[string]PseudoFunc
	classes  *classCache
	hook     func(class string)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the collectors for query and class-matcher counts.
func WithMetrics(m *metrics.Collectors) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithStrict makes Find validate queries first and return nothing for
// invalid ones, instead of running whatever part of them tokenizes.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithNativeFastPath controls whether plain CSS 2.1 queries go to the
// host's native query primitive. It is on by default.
func WithNativeFastPath(enabled bool) Option {
	return func(e *Engine) {
		e.fastPath = enabled
	}
}

// WithCompileHook calls fn each time a class matcher is compiled.
func WithCompileHook(fn func(class string)) Option {
	return func(e *Engine) {
		e.hook = fn
	}
}

// WithPseudo registers a pseudo-class predicate, replacing any built-in
// one of the same name.
func WithPseudo(name string, fn PseudoFunc) Option {
	return func(e *Engine) {
		e.pseudos[strings.ToLower(name)] = fn
	}
}

// New returns an engine over h's document.
func New(h *host.Host, opts ...Option) *Engine {
	e := &Engine{
		host:     h,
		logger:   zerolog.Nop(),
		fastPath: true,
		classes:  newClassCache(),
	}
	e.pseudos = map[string]PseudoFunc{
		"contains": matchContains,
		"not":      e.matchNot,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.classes.onCompile = func(class string) {
		e.metrics.ClassMatcherCompiled()
		if e.hook != nil {
			e.hook(class)
		}
	}
	return e
}

// Host returns the host the engine queries.
func (e *Engine) Host() *host.Host { return e.host }

// CompiledClasses returns how many class matchers have been compiled.
func (e *Engine) CompiledClasses() int { return e.classes.len() }

// Find runs query against the whole document. The result is never nil.
func (e *Engine) Find(query string) []*dom.Element {
	return e.FindIn(e.host.Document().AsNode(), query)
}

// FindIn runs query against the descendants of root. Empty or, in strict
// mode, invalid queries yield an empty result.
func (e *Engine) FindIn(root *dom.Node, query string) []*dom.Element {
	start := time.Now()
	query = strings.TrimSpace(query)
	if root == nil || query == "" {
		e.logger.Debug().Str("query", query).Msg("empty query")
		return []*dom.Element{}
	}
	if e.strict {
		if err := e.Validate(query); err != nil {
			e.logger.Debug().Err(err).Str("query", query).Msg("query rejected")
			return []*dom.Element{}
		}
	}
	if els, ok := e.native(root, query); ok {
		e.metrics.QueryResolved(metrics.PathNative, time.Since(start).Seconds())
		return els
	}
	els := e.Run(root, Parse(query))
	e.metrics.QueryResolved(metrics.PathManual, time.Since(start).Seconds())
	return els
}

// Query validates query and runs it against the document.
func (e *Engine) Query(query string) ([]*dom.Element, error) {
	if err := e.Validate(query); err != nil {
		return nil, err
	}
	return e.Find(query), nil
}

func (e *Engine) native(root *dom.Node, query string) ([]*dom.Element, bool) {
	if !e.fastPath || IsEngineSpecific(query) {
		return nil, false
	}
	q, ok := e.host.Querier()
	if !ok {
		return nil, false
	}
	els, err := q.QueryAll(root, query)
	if err != nil {
		e.logger.Debug().Err(err).Str("query", query).Msg("native query failed, matching manually")
		return nil, false
	}
	if els == nil {
		els = []*dom.Element{}
	}
	return els, true
}

// Run executes prog against the descendants of root. Each step narrows the
// node set produced by the previous one; a union step starts over from
// root and its group's results are appended. Order is document order
// within each step, not across the whole query.
func (e *Engine) Run(root *dom.Node, prog Program) []*dom.Element {
	out := []*dom.Element{}
	var cur []*dom.Element
	ctx := []*dom.Node{root}
	for _, st := range prog {
		if st.Relation == CombinatorUnion {
			out = append(out, cur...)
			ctx = []*dom.Node{root}
			st.Relation = CombinatorNone
		}
		cur = e.step(ctx, st)
		ctx = ctx[:0:0]
		for _, el := range cur {
			ctx = append(ctx, el.AsNode())
		}
	}
	return dedupe(append(out, cur...))
}

func (e *Engine) step(ctx []*dom.Node, st Step) []*dom.Element {
	var out []*dom.Element
	for _, n := range ctx {
		switch st.Relation {
		case CombinatorChild:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if el := c.AsElement(); el != nil && e.matches(el, st, true) {
					out = append(out, el)
				}
			}
		case CombinatorAdjacent:
			if el := n.AsElement(); el != nil {
				if sib := el.NextElementSibling(); sib != nil && e.matches(sib, st, true) {
					out = append(out, sib)
				}
			}
		case CombinatorSibling:
			if el := n.AsElement(); el != nil {
				for sib := el.NextElementSibling(); sib != nil; sib = sib.NextElementSibling() {
					if e.matches(sib, st, true) {
						out = append(out, sib)
					}
				}
			}
		default:
			candidates, classesDone := e.lookup(n, st)
			for _, el := range candidates {
				if e.matches(el, st, !classesDone) {
					out = append(out, el)
				}
			}
		}
	}
	return dedupe(out)
}

// lookup finds the descendants of n that a step's primary part selects:
// its id, else its classes, else its tag. classesDone reports whether the
// candidates are known to carry every class of the step.
func (e *Engine) lookup(n *dom.Node, st Step) (candidates []*dom.Element, classesDone bool) {
	switch {
	case st.ID != "":
		el := e.lookupID(n, st.ID)
		if el == nil {
			return nil, false
		}
		return []*dom.Element{el}, false
	case len(st.Classes) > 0:
		return e.lookupClasses(n, st.Tag, st.Classes), true
	}
	tag := st.Tag
	if tag == "" {
		tag = "*"
	}
	return n.GetElementsByTagName(tag).ToSlice(), false
}

func (e *Engine) lookupID(n *dom.Node, id string) *dom.Element {
	doc := n.OwnerDocument()
	if d := n.AsDocument(); d != nil {
		doc = d
	}
	if doc == nil {
		return nil
	}
	el := doc.GetElementById(id)
	if el == nil || el.AsNode() == n || !n.Contains(el.AsNode()) {
		return nil
	}
	return el
}

// lookupClasses tries the native class getter, then a native query scoped
// to the tag, then a tag scan with cached class matchers.
func (e *Engine) lookupClasses(n *dom.Node, tag string, classes []string) []*dom.Element {
	if g, ok := e.host.ClassGetter(); ok {
		return g.ElementsByClassName(n, strings.Join(classes, " "))
	}
	if q, ok := e.host.Querier(); ok {
		sel := tag
		if sel == "*" {
			sel = ""
		}
		els, err := q.QueryAll(n, sel+"."+strings.Join(classes, "."))
		if err == nil {
			return els
		}
		e.logger.Debug().Err(err).Strs("classes", classes).Msg("native class query failed")
	}
	if tag == "" {
		tag = "*"
	}
	var out []*dom.Element
	for _, el := range n.GetElementsByTagName(tag).ToSlice() {
		if e.classes.has(el.ClassName(), classes) {
			out = append(out, el)
		}
	}
	return out
}

// matches checks every part of st against el.
func (e *Engine) matches(el *dom.Element, st Step, checkClasses bool) bool {
	if st.Tag != "" && st.Tag != "*" && el.LocalName() != st.Tag {
		return false
	}
	if st.ID != "" && el.Id() != st.ID {
		return false
	}
	if checkClasses && len(st.Classes) > 0 && !e.classes.has(el.ClassName(), st.Classes) {
		return false
	}
	for _, a := range st.Attrs {
		op, ok := attrOperator(a.Operator)
		if !ok || !css.MatchAttribute(el, a.Name, op, a.Value, false) {
			return false
		}
	}
	for _, p := range st.Pseudos {
		if !e.matchPseudo(el, p) {
			return false
		}
	}
	return true
}

func (e *Engine) matchPseudo(el *dom.Element, p Pseudo) bool {
	if fn, ok := e.pseudos[p.Name]; ok {
		return fn(el, p.Arg)
	}
	matched, ok := css.MatchPseudoClass(p.Name, p.Arg, el)
	if !ok {
		e.logger.Debug().Str("pseudo", p.Name).Msg("unknown pseudo-class ignored")
		return true
	}
	return matched
}

func (e *Engine) knowsPseudo(name string) bool {
	if _, ok := e.pseudos[name]; ok {
		return true
	}
	return css.IsSupportedPseudoClass(name, false) || css.IsSupportedPseudoClass(name, true)
}

func attrOperator(op string) (css.AttributeOperator, bool) {
	switch op {
	case "":
		return css.AttrExists, true
	case "=":
		return css.AttrEquals, true
	case "~=":
		return css.AttrIncludes, true
	case "|=":
		return css.AttrDashMatch, true
	case "^=":
		return css.AttrPrefix, true
	case "$=":
		return css.AttrSuffix, true
	case "*=":
		return css.AttrSubstring, true
	}
	return 0, false
}

func dedupe(els []*dom.Element) []*dom.Element {
	seen := make(map[*dom.Element]struct{}, len(els))
	out := els[:0]
	for _, el := range els {
		if _, ok := seen[el]; ok {
			continue
		}
		seen[el] = struct{}{}
		out = append(out, el)
	}
	if out == nil {
		return []*dom.Element{}
	}
	return out
}
