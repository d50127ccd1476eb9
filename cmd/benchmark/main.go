package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pipeline"
)

func main() {
	keywords := flag.String("keywords", "", "Keywords to redact; empty uses the detected ones")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("Usage: benchmark [-keywords k1,k2] <pdf-file>")
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	p := pipeline.New(pipeline.Config{Logger: logger})

	// Warm-up run
	doc, err := pdf.OpenBytes(data)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	doc.Close()

	// Benchmark PDF opening
	start := time.Now()
	doc, err = pdf.OpenBytes(data)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	openTime := time.Since(start)

	fmt.Printf("=== DocPolish Benchmark ===\n")
	fmt.Printf("File: %s\n", pdfPath)
	fmt.Printf("Pages: %d\n", doc.PageCount())
	fmt.Printf("Open time: %v\n", openTime)

	// Benchmark token extraction
	var totalTokens int
	start = time.Now()
	for _, page := range doc.GetPages() {
		totalTokens += len(page.ExtractTokens(pdf.GranularityWord))
	}
	tokenTime := time.Since(start)
	doc.Close()

	fmt.Printf("Token extraction time: %v\n", tokenTime)
	fmt.Printf("Total tokens: %d\n", totalTokens)

	// Benchmark detection
	start = time.Now()
	detected := p.Detect(data)
	detectTime := time.Since(start)
	fmt.Printf("Detection time: %v (%q)\n", detectTime, detected)

	if *keywords == "" {
		*keywords = detected
	}
	cfg, err := match.NewConfiguration(*keywords, match.WithFooterHeight(match.DefaultFooterHeight))
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Benchmark the full pipeline
	start = time.Now()
	_, report, err := p.ProcessWithReport(data, cfg)
	if err != nil {
		log.Fatalf("Failed to process PDF: %v", err)
	}
	processTime := time.Since(start)
	fmt.Printf("Process time: %v (%d glyphs removed)\n", processTime, report.GlyphsRemoved)

	start = time.Now()
	if _, err := p.Preview(data, cfg); err != nil {
		log.Fatalf("Failed to render preview: %v", err)
	}
	previewTime := time.Since(start)
	fmt.Printf("Preview time: %v\n", previewTime)

	// Summary
	totalTime := openTime + tokenTime + detectTime + processTime + previewTime
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Total processing time: %v\n", totalTime)
	fmt.Printf("Pages/sec: %.2f\n", float64(report.Pages)/processTime.Seconds())
}
