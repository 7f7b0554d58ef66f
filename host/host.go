// Package host describes the capabilities of the environment the toolkit
// runs against: which listener registration model it offers, whether it has
// native selector queries, and how it fires raw keyboard input.
//
// A Host is resolved once from a Profile and injected into the event
// dispatcher and the selector engine, so neither tests capabilities inline.
package host

import (
	"fmt"
	"strings"

	"github.com/chrisuehlinger/swell/dom"
)

// Profile names a host flavour.
type Profile string

const (
	// Standard is a DOM Level 2 host with native queries.
	Standard Profile = "standard"
	// Legacy is an attach-model host without native queries.
	Legacy Profile = "legacy"
	// WebKit is a standard host that drops keypress for some keys.
	WebKit Profile = "webkit"
	// Bare is a standard-model host without native queries.
	Bare Profile = "bare"
)

// Profiles lists the known profiles.
var Profiles = []Profile{Standard, Legacy, WebKit, Bare}

// ParseProfile converts a profile name, case-insensitively.
func ParseProfile(name string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Profiles {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown host profile %q", name)
}

// Model is a listener registration mechanism.
type Model int

const (
	// ModelNone means the host cannot register listeners.
	ModelNone Model = iota
	// ModelStandard registers with addEventListener.
	ModelStandard
	// ModelLegacy registers with attachEvent.
	ModelLegacy
)

func (m Model) String() string {
	switch m {
	case ModelStandard:
		return "standard"
	case ModelLegacy:
		return "legacy"
	}
	return "none"
}

// Features are the host feature flags.
type Features struct {
	Registration     Model
	NativeQuery      bool
	NativeClassQuery bool
	DOMContentLoaded bool
}

func profileFeatures(p Profile) Features {
	switch p {
	case Legacy:
		return Features{Registration: ModelLegacy}
	case Bare:
		return Features{Registration: ModelStandard, DOMContentLoaded: true}
	default:
		return Features{
			Registration:     ModelStandard,
			NativeQuery:      true,
			NativeClassQuery: true,
			DOMContentLoaded: true,
		}
	}
}

// Host is a document plus the capabilities of the environment around it.
type Host struct {
	doc      *dom.Document
	profile  Profile
	features Features

	registrar Registrar
}

// Option adjusts the features derived from the profile.
type Option func(*Features)

// WithNativeQuery overrides the native query flag.
func WithNativeQuery(enabled bool) Option {
	return func(f *Features) {
		f.NativeQuery = enabled
	}
}

// WithNativeClassQuery overrides the native class query flag.
func WithNativeClassQuery(enabled bool) Option {
	return func(f *Features) {
		f.NativeClassQuery = enabled
	}
}

// WithRegistration overrides the registration model.
func WithRegistration(m Model) Option {
	return func(f *Features) {
		f.Registration = m
	}
}

// New resolves the capabilities of profile for doc. An unknown profile is
// treated as Standard.
func New(doc *dom.Document, profile Profile, opts ...Option) *Host {
	if profile == "" {
		profile = Standard
	}
	f := profileFeatures(profile)
	for _, opt := range opts {
		opt(&f)
	}
	h := &Host{doc: doc, profile: profile, features: f}
	switch f.Registration {
	case ModelStandard:
		h.registrar = standardRegistrar{h}
	case ModelLegacy:
		h.registrar = legacyRegistrar{h}
	default:
		h.registrar = noneRegistrar{}
	}
	return h
}

// Document returns the host document.
func (h *Host) Document() *dom.Document { return h.doc }

// Profile returns the profile the host was built from.
func (h *Host) Profile() Profile { return h.profile }

// Features returns the resolved feature flags.
func (h *Host) Features() Features { return h.features }

// Registrar returns the listener registration mechanism.
func (h *Host) Registrar() Registrar { return h.registrar }

// Resolve looks up an element by id.
func (h *Host) Resolve(id string) *dom.Node {
	if id == "" {
		return nil
	}
	el := h.doc.GetElementById(id)
	if el == nil {
		return nil
	}
	return el.AsNode()
}

// UniqueID returns an identity no element of the document uses as its id.
func (h *Host) UniqueID() string {
	return h.doc.UniqueID()
}

// Stamp gives n an identity if it has none and returns it.
func (h *Host) Stamp(n *dom.Node) string {
	return h.doc.Stamp(n)
}

// documentOf returns the document that owns n, falling back to the host document.
func (h *Host) documentOf(n *dom.Node) *dom.Document {
	if d := n.AsDocument(); d != nil {
		return d
	}
	if d := n.OwnerDocument(); d != nil {
		return d
	}
	return h.doc
}
