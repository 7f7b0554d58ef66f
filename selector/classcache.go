package selector

import (
	"regexp"
)

// classCache holds one compiled matcher per class name. Building the
// pattern dominates a manual class scan, so it is done once per name for
// the engine's lifetime.
type classCache struct {
	matchers  map[string]*regexp.Regexp
	onCompile func(class string)
}

func newClassCache() *classCache {
	return &classCache{matchers: make(map[string]*regexp.Regexp)}
}

// matcher returns the matcher for class, compiling it on first use.
// Word boundaries are whitespace, so "nav" does not match "nav-item".
func (c *classCache) matcher(class string) *regexp.Regexp {
	if re, ok := c.matchers[class]; ok {
		return re
	}
	re := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(class) + `(?:\s|$)`)
	c.matchers[class] = re
	if c.onCompile != nil {
		c.onCompile(class)
	}
	return re
}

func (c *classCache) has(className string, classes []string) bool {
	for _, class := range classes {
		if !c.matcher(class).MatchString(className) {
			return false
		}
	}
	return true
}

func (c *classCache) len() int { return len(c.matchers) }
