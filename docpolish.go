// Package docpolish removes watermark text and masks header and footer
// bands in PDF documents.
package docpolish

import (
	"image"

	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pipeline"
)

// Re-export types for the public API
type (
	Document      = pdf.Document
	Page          = pdf.Page
	Token         = pdf.Token
	BoundingBox   = pdf.BoundingBox
	Color         = pdf.Color
	Granularity   = pdf.Granularity
	Configuration = match.Configuration
	Option        = match.Option
	Pipeline      = pipeline.Pipeline
	Config        = pipeline.Config
	Report        = pipeline.Report
	PageError     = pipeline.PageError
)

// DefaultFooterHeight is the footer band offered to users, in points
const DefaultFooterHeight = match.DefaultFooterHeight

// Granularities
const (
	GranularityWord  = pdf.GranularityWord
	GranularityLine  = pdf.GranularityLine
	GranularityBlock = pdf.GranularityBlock
)

// Re-export errors
var (
	ErrInvalidDocument = pdf.ErrInvalidDocument
	ErrNoPages         = pipeline.ErrNoPages
	ErrNegativeHeight  = match.ErrNegativeHeight
)

// Re-export option functions
var (
	WithMatchCase    = match.WithMatchCase
	WithWholeWord    = match.WithWholeWord
	WithHeaderHeight = match.WithHeaderHeight
	WithFooterHeight = match.WithFooterHeight
	WithGranularity  = match.WithGranularity
)

// NewConfiguration builds a configuration from comma separated keywords
func NewConfiguration(keywords string, opts ...Option) (Configuration, error) {
	return match.NewConfiguration(keywords, opts...)
}

// New creates a pipeline
func New(cfg Config) *Pipeline {
	return pipeline.New(cfg)
}

// Open opens a PDF file for editing
func Open(filepath string) (Document, error) {
	return pdf.Open(filepath)
}

// OpenBytes opens a PDF held in memory for editing
func OpenBytes(data []byte) (Document, error) {
	return pdf.OpenBytes(data)
}

// Process cleans a document with a default pipeline
func Process(data []byte, cfg Configuration) ([]byte, error) {
	return pipeline.New(pipeline.Config{}).Process(data, cfg)
}

// Preview renders the cleaned first page with a default pipeline
func Preview(data []byte, cfg Configuration) (image.Image, error) {
	return pipeline.New(pipeline.Config{}).Preview(data, cfg)
}

// Detect suggests watermark keywords for a document
func Detect(data []byte) string {
	return pipeline.New(pipeline.Config{}).Detect(data)
}
