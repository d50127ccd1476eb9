// Package match decides whether extracted text matches the configured
// keywords.
package match

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

// DefaultFooterHeight is the footer band offered to users, in points
const DefaultFooterHeight = 30.0

// ErrNegativeHeight is returned for a header or footer height below zero
var ErrNegativeHeight = errors.New("header and footer heights must not be negative")

// Configuration holds the user's matching and masking choices. It is
// immutable once built.
type Configuration struct {
	keywords     []string
	matchCase    bool
	wholeWord    bool
	headerHeight float64
	footerHeight float64
	granularity  pdf.Granularity
}

// Option is a function that modifies a Configuration
type Option func(*Configuration)

// WithMatchCase requires the case of keywords to match exactly
func WithMatchCase(on bool) Option {
	return func(c *Configuration) {
		c.matchCase = on
	}
}

// WithWholeWord requires a token to equal a keyword instead of containing it
func WithWholeWord(on bool) Option {
	return func(c *Configuration) {
		c.wholeWord = on
	}
}

// WithHeaderHeight sets the height of the band masked at the top of each page
func WithHeaderHeight(h float64) Option {
	return func(c *Configuration) {
		c.headerHeight = h
	}
}

// WithFooterHeight sets the height of the band masked at the bottom of each page
func WithFooterHeight(h float64) Option {
	return func(c *Configuration) {
		c.footerHeight = h
	}
}

// WithGranularity sets the token unit used to verify whole-word matches
func WithGranularity(g pdf.Granularity) Option {
	return func(c *Configuration) {
		c.granularity = g
	}
}

// NewConfiguration builds a configuration from a comma-separated keyword list
func NewConfiguration(keywords string, opts ...Option) (Configuration, error) {
	c := Configuration{
		keywords:    ParseKeywords(keywords),
		granularity: pdf.GranularityWord,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if invalidHeight(c.headerHeight) || invalidHeight(c.footerHeight) {
		return Configuration{}, fmt.Errorf("header %g, footer %g: %w", c.headerHeight, c.footerHeight, ErrNegativeHeight)
	}
	return c, nil
}

func invalidHeight(h float64) bool {
	return h < 0 || math.IsNaN(h)
}

// ParseKeywords splits s on commas, trims every entry and drops empty and
// repeated entries, keeping the first occurrence
func ParseKeywords(s string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keywords = append(keywords, k)
	}
	return keywords
}

// Keywords returns a copy of the keyword list
func (c Configuration) Keywords() []string {
	return append([]string(nil), c.keywords...)
}

// MatchCase reports whether matching is case sensitive
func (c Configuration) MatchCase() bool { return c.matchCase }

// WholeWord reports whether tokens must equal a keyword
func (c Configuration) WholeWord() bool { return c.wholeWord }

// HeaderHeight returns the height of the top band to mask
func (c Configuration) HeaderHeight() float64 { return c.headerHeight }

// FooterHeight returns the height of the bottom band to mask
func (c Configuration) FooterHeight() float64 { return c.footerHeight }

// Granularity returns the token unit used for whole-word verification
func (c Configuration) Granularity() pdf.Granularity { return c.granularity }

// IsEmpty reports whether the configuration changes nothing
func (c Configuration) IsEmpty() bool {
	return len(c.keywords) == 0 && c.headerHeight == 0 && c.footerHeight == 0
}

// Key identifies the configuration in caches
func (c Configuration) Key() string {
	return fmt.Sprintf("%q|case=%t|whole=%t|header=%g|footer=%g|%s",
		strings.Join(c.keywords, ","), c.matchCase, c.wholeWord, c.headerHeight, c.footerHeight, c.granularity)
}

func (c Configuration) String() string {
	return fmt.Sprintf("keywords=%q matchCase=%t wholeWord=%t header=%g footer=%g granularity=%s",
		c.keywords, c.matchCase, c.wholeWord, c.headerHeight, c.footerHeight, c.granularity)
}
