// Package pipeline cleans whole documents: it redacts keywords, masks
// header and footer bands and strips metadata page by page.
package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/pkg/detect"
	"github.com/pyhub-apps/docpolish-golang/pkg/mask"
	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/redact"
)

// DefaultPreviewScale is the preview resolution in pixels per point
const DefaultPreviewScale = 1.5

// ErrNoPages is returned when a preview is requested for a document
// without pages
var ErrNoPages = errors.New("document has no pages")

// Invocation states
const (
	StateReady      = "READY"
	StateProcessing = "PROCESSING"
	StateDone       = "DONE"
	StateFailed     = "FAILED"
)

// Config configures a Pipeline
type Config struct {
	// Logger receives state transitions and page failures
	Logger logrus.FieldLogger

	// PreviewScale is the preview resolution in pixels per point
	PreviewScale float64

	// Detector suggests keywords; nil uses detect.New with Logger
	Detector *detect.Detector
}

func (c Config) defaults() Config {
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.PreviewScale <= 0 {
		c.PreviewScale = DefaultPreviewScale
	}
	if c.Detector == nil {
		c.Detector = detect.New(detect.WithLogger(c.Logger))
	}
	return c
}

// Pipeline processes documents. It keeps no state between calls and is
// safe for concurrent use with different inputs.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg.defaults()}
}

// PageError records a failure on one page
type PageError struct {
	Page int
	Err  error
}

func (e PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e PageError) Unwrap() error {
	return e.Err
}

// Report summarizes a Process call
type Report struct {
	Pages         int
	GlyphsRemoved int
	MaskedPages   int
	PageErrors    []PageError
}

// Process cleans a document and returns the new bytes
func (p *Pipeline) Process(data []byte, cfg match.Configuration) ([]byte, error) {
	out, _, err := p.ProcessWithReport(data, cfg)
	return out, err
}

// ProcessWithReport cleans a document and reports what was changed.
// A failure on one page is recorded and the remaining pages are still
// processed; a document that cannot be opened or written is an error.
func (p *Pipeline) ProcessWithReport(data []byte, cfg match.Configuration) ([]byte, Report, error) {
	log := p.cfg.Logger.WithFields(logrus.Fields{"op": "process", "keywords": cfg.Keywords()})
	log.WithField("state", StateReady).Debug("document received")

	var report Report
	doc, err := pdf.OpenBytes(data)
	if err != nil {
		log.WithError(err).WithField("state", StateFailed).Warn("failed to open document")
		return nil, report, err
	}
	defer doc.Close()

	log.WithFields(logrus.Fields{"state": StateProcessing, "pages": doc.PageCount()}).Info("processing document")

	for _, page := range doc.GetPages() {
		report.Pages++
		removed, masked, err := p.cleanPage(page, cfg)
		report.GlyphsRemoved += removed
		if masked {
			report.MaskedPages++
		}
		if err != nil {
			log.WithError(err).WithField("page", page.GetPageNumber()).Warn("page left partially cleaned")
			report.PageErrors = append(report.PageErrors, PageError{Page: page.GetPageNumber(), Err: err})
		}
	}

	if err := doc.ClearMetadata(); err != nil {
		log.WithError(err).WithField("state", StateFailed).Error("failed to clear metadata")
		return nil, report, fmt.Errorf("failed to clear metadata: %w", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		log.WithError(err).WithField("state", StateFailed).Error("failed to write document")
		return nil, report, fmt.Errorf("failed to write document: %w", err)
	}

	log.WithFields(logrus.Fields{
		"state":          StateDone,
		"pages":          report.Pages,
		"glyphs_removed": report.GlyphsRemoved,
		"page_errors":    len(report.PageErrors),
	}).Info("document cleaned")
	return out, report, nil
}

// Preview applies the same per-page procedure to the first page and
// renders it at the configured preview scale
func (p *Pipeline) Preview(data []byte, cfg match.Configuration) (image.Image, error) {
	log := p.cfg.Logger.WithFields(logrus.Fields{"op": "preview", "keywords": cfg.Keywords()})
	log.WithField("state", StateReady).Debug("document received")

	doc, err := pdf.OpenBytes(data)
	if err != nil {
		log.WithError(err).WithField("state", StateFailed).Warn("failed to open document")
		return nil, err
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		log.WithField("state", StateFailed).Warn("document has no pages")
		return nil, ErrNoPages
	}
	page, err := doc.GetPage(0)
	if err != nil {
		return nil, err
	}

	if err := page.Err(); err != nil {
		log.WithError(err).WithField("state", StateFailed).Warn("first page is unreadable")
		return nil, fmt.Errorf("page 1: %w", err)
	}

	log.WithField("state", StateProcessing).Debug("rendering preview")
	if _, _, err := p.cleanPage(page, cfg); err != nil {
		log.WithError(err).WithField("page", 1).Warn("page left partially cleaned")
	}

	img, err := page.Rasterize(pdf.WithScale(p.cfg.PreviewScale))
	if err != nil {
		log.WithError(err).WithField("state", StateFailed).Error("failed to render preview")
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	log.WithField("state", StateDone).Debug("preview rendered")
	return img, nil
}

// Detect suggests keywords for a newly uploaded document
func (p *Pipeline) Detect(data []byte) string {
	return p.cfg.Detector.Detect(data)
}

// cleanPage redacts keywords, then masks the configured bands in the
// colour sampled from the page after redaction. A failed redaction is
// reported but the page is still masked.
func (p *Pipeline) cleanPage(page pdf.Page, cfg match.Configuration) (removed int, masked bool, err error) {
	if err := page.Err(); err != nil {
		return 0, false, err
	}

	var redactErr error
	if len(cfg.Keywords()) > 0 {
		removed, redactErr = redact.Redact(page, cfg)
	}

	color := mask.SampleBackground(page)
	if cfg.HeaderHeight() == 0 && cfg.FooterHeight() == 0 {
		return removed, false, redactErr
	}
	if err := mask.Mask(page, cfg.HeaderHeight(), cfg.FooterHeight(), color); err != nil {
		return removed, false, errors.Join(redactErr, err)
	}
	return removed, true, redactErr
}
