package dom

import (
	"strconv"
	"sync/atomic"
)

// DefaultUIDPrefix is the prefix of identities produced by NewIDGenerator("").
const DefaultUIDPrefix = "swell-id-"

// IDGenerator produces opaque, monotonically numbered identities used to key
// nodes in listener registries without touching their id attribute.
type IDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewIDGenerator returns a generator whose identities start with prefix.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = DefaultUIDPrefix
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns a new identity.
func (g *IDGenerator) Next() string {
	return g.prefix + strconv.FormatUint(g.next.Add(1), 10)
}

// UniqueID returns an identity from the document's generator that is not
// used as the id attribute of any element in the document.
func (d *Document) UniqueID() string {
	gen := d.UIDs()
	for {
		id := gen.Next()
		if d.GetElementById(id) == nil {
			return id
		}
	}
}

// Stamp gives n an identity from the document's generator unless it already
// carries one, and returns the identity in effect.
func (d *Document) Stamp(n *Node) string {
	if n == nil {
		return ""
	}
	if uid := n.UID(); uid != "" {
		return uid
	}
	return n.SetUID(d.UniqueID())
}
