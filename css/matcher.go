package css

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/chrisuehlinger/swell/dom"
)

// matchContext carries query-wide state into the matcher.
type matchContext struct {
	scope *dom.Element // element QuerySelectorAll was called on, nil for documents
}

// simplePseudoClasses are the non-functional pseudo-classes the matcher knows.
var simplePseudoClasses = map[string]bool{
	"root": true, "empty": true, "scope": true, "target": true,
	"first-child": true, "last-child": true, "only-child": true,
	"first-of-type": true, "last-of-type": true, "only-of-type": true,
	"enabled": true, "disabled": true, "checked": true, "indeterminate": true,
	"required": true, "optional": true, "read-only": true, "read-write": true,
	"link": true, "any-link": true, "visited": true,
	"hover": true, "active": true, "focus": true, "focus-within": true, "focus-visible": true,
}

// functionalPseudoClasses are the functional pseudo-classes the matcher knows.
var functionalPseudoClasses = map[string]bool{
	"nth-child": true, "nth-last-child": true, "nth-of-type": true, "nth-last-of-type": true,
	"not": true, "is": true, "where": true, "has": true,
	"lang": true, "dir": true,
}

// IsSupportedPseudoClass reports whether the native engine understands the
// pseudo-class name, in its functional form if functional is set.
func IsSupportedPseudoClass(name string, functional bool) bool {
	name = strings.ToLower(name)
	if functional {
		return functionalPseudoClasses[name]
	}
	return simplePseudoClasses[name]
}

// MatchElement tests if a selector matches an element.
func (s *CSSSelector) MatchElement(el *dom.Element) bool {
	return s.match(el, &matchContext{})
}

func (s *CSSSelector) match(el *dom.Element, ctx *matchContext) bool {
	for _, cs := range s.ComplexSelectors {
		if cs.match(el, ctx) {
			return true
		}
	}
	return false
}

// MatchElement tests if a complex selector matches an element.
func (cs *ComplexSelector) MatchElement(el *dom.Element) bool {
	return cs.match(el, &matchContext{})
}

func (cs *ComplexSelector) match(el *dom.Element, ctx *matchContext) bool {
	if len(cs.Compounds) == 0 {
		return false
	}
	last := len(cs.Compounds) - 1
	if !cs.Compounds[last].match(el, ctx) {
		return false
	}
	return cs.matchFrom(last, el, ctx)
}

// matchFrom checks compounds [0, i) against the relatives of el, which
// matched compound i. It backtracks for descendant and subsequent-sibling
// combinators.
func (cs *ComplexSelector) matchFrom(i int, el *dom.Element, ctx *matchContext) bool {
	if i == 0 {
		return true
	}
	compound := cs.Compounds[i-1]
	switch compound.Combinator {
	case CombinatorDescendant:
		for anc := el.AsNode().ParentElement(); anc != nil; anc = anc.AsNode().ParentElement() {
			if compound.match(anc, ctx) && cs.matchFrom(i-1, anc, ctx) {
				return true
			}
		}
	case CombinatorChild:
		parent := el.AsNode().ParentElement()
		return parent != nil && compound.match(parent, ctx) && cs.matchFrom(i-1, parent, ctx)
	case CombinatorNextSibling:
		prev := el.PreviousElementSibling()
		return prev != nil && compound.match(prev, ctx) && cs.matchFrom(i-1, prev, ctx)
	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if compound.match(prev, ctx) && cs.matchFrom(i-1, prev, ctx) {
				return true
			}
		}
	}
	return false
}

// MatchElement tests if a compound selector matches an element.
func (c *CompoundSelector) MatchElement(el *dom.Element) bool {
	return c.match(el, &matchContext{})
}

func (c *CompoundSelector) match(el *dom.Element, ctx *matchContext) bool {
	if c.TypeSelector != "" && c.TypeSelector != "*" && el.LocalName() != c.TypeSelector {
		return false
	}
	for _, id := range c.IDSelectors {
		if el.Id() != id {
			return false
		}
	}
	for _, class := range c.ClassSelectors {
		if !el.ClassList().Contains(class) {
			return false
		}
	}
	for _, attr := range c.AttributeMatchers {
		if !MatchAttribute(el, attr.Name, attr.Operator, attr.Value, attr.CaseInsensitive) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(pc, el, ctx) {
			return false
		}
	}
	return true
}

// MatchAttribute tests an attribute condition against an element.
func MatchAttribute(el *dom.Element, name string, op AttributeOperator, value string, caseInsensitive bool) bool {
	if !el.HasAttribute(name) {
		return false
	}
	if op == AttrExists {
		return true
	}

	attrValue := el.GetAttribute(name)
	if caseInsensitive {
		attrValue = strings.ToLower(attrValue)
		value = strings.ToLower(value)
	}

	switch op {
	case AttrEquals:
		return attrValue == value
	case AttrIncludes:
		for _, word := range strings.Fields(attrValue) {
			if word == value {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return attrValue == value || strings.HasPrefix(attrValue, value+"-")
	case AttrPrefix:
		return value != "" && strings.HasPrefix(attrValue, value)
	case AttrSuffix:
		return value != "" && strings.HasSuffix(attrValue, value)
	case AttrSubstring:
		return value != "" && strings.Contains(attrValue, value)
	}
	return false
}

func matchPseudoClass(pc *PseudoClassSelector, el *dom.Element, ctx *matchContext) bool {
	switch pc.Name {
	case "not":
		return pc.Selector != nil && !pc.Selector.match(el, ctx)
	case "is", "where":
		return pc.Selector != nil && pc.Selector.match(el, ctx)
	case "has":
		return pc.Selector != nil && hasMatchingDescendant(el, pc.Selector, ctx)
	case "scope":
		if ctx.scope != nil {
			return el == ctx.scope
		}
		return isRoot(el)
	}
	matched, _ := MatchPseudoClass(pc.Name, pc.Argument, el)
	return matched
}

// MatchPseudoClass evaluates a pseudo-class that does not take a selector
// argument. ok is false when the name is not such a pseudo-class.
func MatchPseudoClass(name, arg string, el *dom.Element) (matched, ok bool) {
	switch strings.ToLower(name) {
	case "root":
		return isRoot(el), true
	case "empty":
		return isEmpty(el), true
	case "first-child":
		return el.PreviousElementSibling() == nil, true
	case "last-child":
		return el.NextElementSibling() == nil, true
	case "only-child":
		return el.PreviousElementSibling() == nil && el.NextElementSibling() == nil, true
	case "first-of-type":
		return matchNthChild("1", el, false, true), true
	case "last-of-type":
		return matchNthChild("1", el, true, true), true
	case "only-of-type":
		return matchNthChild("1", el, false, true) && matchNthChild("1", el, true, true), true
	case "nth-child":
		return matchNthChild(arg, el, false, false), true
	case "nth-last-child":
		return matchNthChild(arg, el, true, false), true
	case "nth-of-type":
		return matchNthChild(arg, el, false, true), true
	case "nth-last-of-type":
		return matchNthChild(arg, el, true, true), true
	case "enabled":
		return isFormControl(el) && !el.HasAttribute("disabled"), true
	case "disabled":
		return isFormControl(el) && el.HasAttribute("disabled"), true
	case "checked":
		return isChecked(el), true
	case "indeterminate":
		return isIndeterminate(el), true
	case "required":
		return isFormControl(el) && el.HasAttribute("required"), true
	case "optional":
		return isFormControl(el) && !el.HasAttribute("required"), true
	case "read-only":
		return !isEditable(el), true
	case "read-write":
		return isEditable(el), true
	case "link", "any-link":
		return isLink(el), true
	case "target":
		return isTarget(el), true
	case "lang":
		return matchLang(arg, el), true
	case "dir":
		return matchDir(arg, el), true
	case "visited", "hover", "active", "focus", "focus-within", "focus-visible":
		// No interaction state is tracked.
		return false, true
	}
	return false, false
}

func isRoot(el *dom.Element) bool {
	parent := el.AsNode().ParentNode()
	return parent != nil && parent.NodeType() == dom.DocumentNode
}

// isEmpty is true for elements without element or text children; comments
// do not count.
func isEmpty(el *dom.Element) bool {
	for child := el.AsNode().FirstChild(); child != nil; child = child.NextSibling() {
		switch child.NodeType() {
		case dom.ElementNode:
			return false
		case dom.TextNode:
			if child.NodeValue() != "" {
				return false
			}
		}
	}
	return true
}

// matchNthChild implements :nth-child, :nth-last-child, :nth-of-type, :nth-last-of-type
func matchNthChild(arg string, el *dom.Element, fromLast bool, ofType bool) bool {
	a, b := parseAnPlusB(arg)

	pos := 1
	tagName := el.LocalName()
	if fromLast {
		for next := el.NextElementSibling(); next != nil; next = next.NextElementSibling() {
			if !ofType || next.LocalName() == tagName {
				pos++
			}
		}
	} else {
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if !ofType || prev.LocalName() == tagName {
				pos++
			}
		}
	}

	if a == 0 {
		return pos == b
	}
	// pos = a*n + b for some n >= 0
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

// parseAnPlusB parses an An+B expression, including the odd and even keywords.
func parseAnPlusB(s string) (int, int) {
	s = strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "")

	switch s {
	case "odd":
		return 2, 1
	case "even":
		return 2, 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return 0, n
	}

	nIdx := strings.Index(s, "n")
	if nIdx == -1 {
		return 0, 0
	}

	var a int
	switch aStr := s[:nIdx]; aStr {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		a, _ = strconv.Atoi(aStr)
	}

	var b int
	if bStr := s[nIdx+1:]; bStr != "" {
		b, _ = strconv.Atoi(bStr)
	}
	return a, b
}

func hasMatchingDescendant(el *dom.Element, sel *CSSSelector, ctx *matchContext) bool {
	found := false
	el.AsNode().Walk(func(d *dom.Element) bool {
		found = sel.match(d, ctx)
		return !found
	})
	return found
}

func isFormControl(el *dom.Element) bool {
	switch el.LocalName() {
	case "button", "input", "select", "textarea", "option", "fieldset":
		return true
	}
	return false
}

func isChecked(el *dom.Element) bool {
	switch el.LocalName() {
	case "input":
		inputType := strings.ToLower(el.GetAttribute("type"))
		if inputType == "checkbox" || inputType == "radio" {
			return el.HasAttribute("checked")
		}
	case "option":
		return el.HasAttribute("selected")
	}
	return false
}

func isIndeterminate(el *dom.Element) bool {
	switch el.LocalName() {
	case "input":
		return strings.EqualFold(el.GetAttribute("type"), "checkbox") && el.HasAttribute("indeterminate")
	case "progress":
		return !el.HasAttribute("value")
	}
	return false
}

func isEditable(el *dom.Element) bool {
	switch el.LocalName() {
	case "input":
		if el.HasAttribute("readonly") || el.HasAttribute("disabled") {
			return false
		}
		switch strings.ToLower(el.GetAttribute("type")) {
		case "text", "password", "email", "url", "tel", "search", "number", "":
			return true
		}
		return false
	case "textarea":
		return !el.HasAttribute("readonly") && !el.HasAttribute("disabled")
	}
	return el.HasAttribute("contenteditable") && el.GetAttribute("contenteditable") != "false"
}

func isLink(el *dom.Element) bool {
	switch el.LocalName() {
	case "a", "area", "link":
		return el.HasAttribute("href")
	}
	return false
}

// isTarget matches the element whose id is the fragment of the document URL.
func isTarget(el *dom.Element) bool {
	doc := el.AsNode().OwnerDocument()
	if doc == nil || el.Id() == "" {
		return false
	}
	u, err := url.Parse(doc.URL())
	if err != nil {
		return false
	}
	return u.Fragment == el.Id()
}

func matchLang(lang string, el *dom.Element) bool {
	lang = strings.ToLower(strings.Trim(lang, `"'`))
	for current := el; current != nil; current = current.AsNode().ParentElement() {
		if current.HasAttribute("lang") {
			elLang := strings.ToLower(current.GetAttribute("lang"))
			return elLang == lang || strings.HasPrefix(elLang, lang+"-")
		}
	}
	return false
}

func matchDir(dir string, el *dom.Element) bool {
	dir = strings.ToLower(dir)
	for current := el; current != nil; current = current.AsNode().ParentElement() {
		if current.HasAttribute("dir") {
			return strings.ToLower(current.GetAttribute("dir")) == dir
		}
	}
	return dir == "ltr"
}

// Matches reports whether el matches the selector text.
func Matches(el *dom.Element, selector string) (bool, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return false, err
	}
	return sel.match(el, &matchContext{scope: el}), nil
}

// QuerySelector returns the first descendant of root matching the selector.
func QuerySelector(root *dom.Node, selector string) (*dom.Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	ctx := scopeOf(root)
	var found *dom.Element
	root.Walk(func(el *dom.Element) bool {
		if sel.match(el, ctx) {
			found = el
			return false
		}
		return true
	})
	return found, nil
}

// QuerySelectorAll returns the descendants of root matching the selector, in
// document order. Invalid selectors yield a SyntaxError.
func QuerySelectorAll(root *dom.Node, selector string) ([]*dom.Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	return sel.QueryAll(root), nil
}

// QueryAll returns the descendants of root matched by the selector, in
// document order.
func (s *CSSSelector) QueryAll(root *dom.Node) []*dom.Element {
	ctx := scopeOf(root)
	results := []*dom.Element{}
	root.Walk(func(el *dom.Element) bool {
		if s.match(el, ctx) {
			results = append(results, el)
		}
		return true
	})
	return results
}

func scopeOf(root *dom.Node) *matchContext {
	return &matchContext{scope: root.AsElement()}
}
