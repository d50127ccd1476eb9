// Package detect suggests watermark keywords by finding text that repeats
// across the first pages of a document.
package detect

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

// Default detection parameters
const (
	DefaultPageLimit = 5
	DefaultMinLength = 3
	DefaultFraction  = 0.6
)

// Detector finds text units that appear on many of the first pages
type Detector struct {
	pageLimit   int
	minLength   int
	fraction    float64
	threshold   int
	granularity pdf.Granularity
	backends    []pdf.Backend
	log         logrus.FieldLogger
}

// Option is a function that modifies a Detector
type Option func(*Detector)

// WithPageLimit sets how many leading pages are examined
func WithPageLimit(n int) Option {
	return func(d *Detector) {
		d.pageLimit = n
	}
}

// WithMinLength sets the shortest unit, in runes, worth reporting
func WithMinLength(n int) Option {
	return func(d *Detector) {
		d.minLength = n
	}
}

// WithFraction sets the share of the page limit a unit must appear on
func WithFraction(f float64) Option {
	return func(d *Detector) {
		d.fraction = f
	}
}

// WithThreshold sets the page count directly instead of deriving it
func WithThreshold(n int) Option {
	return func(d *Detector) {
		d.threshold = n
	}
}

// WithGranularity sets the text unit that is counted
func WithGranularity(g pdf.Granularity) Option {
	return func(d *Detector) {
		d.granularity = g
	}
}

// WithBackends sets the text backends tried in order
func WithBackends(backends ...pdf.Backend) Option {
	return func(d *Detector) {
		d.backends = backends
	}
}

// WithLogger sets the logger used to report unreadable input
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Detector) {
		d.log = l
	}
}

// New creates a detector
func New(opts ...Option) *Detector {
	d := &Detector{
		pageLimit:   DefaultPageLimit,
		minLength:   DefaultMinLength,
		fraction:    DefaultFraction,
		granularity: pdf.GranularityLine,
		backends:    pdf.DefaultBackends,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.pageLimit < 1 {
		d.pageLimit = DefaultPageLimit
	}
	return d
}

// Threshold returns the number of pages a unit must appear on
func (d *Detector) Threshold() int {
	if d.threshold > 0 {
		return d.threshold
	}
	t := int(math.Ceil(d.fraction * float64(d.pageLimit)))
	if t < 2 {
		t = 2
	}
	return t
}

// Detect returns the repeated units of a PDF joined by ", ", or "" when
// there are none or the bytes cannot be read
func (d *Detector) Detect(data []byte) (result string) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("panic", r).Warn("watermark detection failed")
			result = ""
		}
	}()

	doc, backend, err := pdf.OpenText(data, d.backends...)
	if err != nil {
		d.log.WithError(err).Debug("watermark detection skipped unreadable document")
		return ""
	}
	defer doc.Close()

	d.log.WithField("backend", backend).Debug("detecting watermark candidates")
	return d.DetectDocument(doc)
}

// DetectDocument returns the repeated units of an open document
func (d *Detector) DetectDocument(doc pdf.TextDocument) string {
	pages := doc.PageCount()
	if pages > d.pageLimit {
		pages = d.pageLimit
	}

	counts := make(map[string]int)
	var order []string
	for i := 0; i < pages; i++ {
		for _, unit := range d.pageUnits(doc, i) {
			if counts[unit] == 0 {
				order = append(order, unit)
			}
			counts[unit]++
		}
	}

	threshold := d.Threshold()
	var found []string
	for _, unit := range order {
		if counts[unit] >= threshold {
			found = append(found, unit)
		}
	}
	return strings.Join(found, ", ")
}

// pageUnits returns the distinct qualifying units of a page. A page that
// cannot be read contributes nothing.
func (d *Detector) pageUnits(doc pdf.TextDocument, index int) (units []string) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(logrus.Fields{"page": index + 1, "panic": r}).Warn("skipping unreadable page")
			units = nil
		}
	}()

	page, err := doc.GetTextPage(index)
	if err != nil {
		d.log.WithError(err).WithField("page", index+1).Debug("skipping unreadable page")
		return nil
	}

	seen := make(map[string]bool)
	for _, tok := range page.ExtractTokens(d.granularity) {
		text := strings.TrimSpace(tok.Text)
		if utf8.RuneCountInString(text) < d.minLength || seen[text] {
			continue
		}
		seen[text] = true
		units = append(units, text)
	}
	return units
}
