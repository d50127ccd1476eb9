package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

func main() {
	pageNum := flag.Int("page", 1, "Page to compare (1-based)")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("Usage: compare_extraction [-page n] <pdf-file>")
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	// Detection relies on whichever backend opens the file first, so
	// show how each one sees the page
	for _, backend := range pdf.DefaultBackends {
		fmt.Printf("=== %s ===\n", backend)

		doc, _, err := pdf.OpenText(data, backend)
		if err != nil {
			fmt.Printf("  failed to open: %v\n\n", err)
			continue
		}

		page, err := doc.GetTextPage(*pageNum - 1)
		if err != nil {
			fmt.Printf("  failed to read page %d: %v\n\n", *pageNum, err)
			doc.Close()
			continue
		}

		fmt.Printf("  Pages: %d\n", doc.PageCount())
		fmt.Printf("  Size: %.2f x %.2f\n", page.GetWidth(), page.GetHeight())
		fmt.Printf("  Characters: %d\n", len(page.GetObjects().Chars))
		for i, line := range page.ExtractTokens(pdf.GranularityLine) {
			fmt.Printf("  %2d. %q at (%.2f, %.2f)\n", i+1, line.Text, line.BBox.X0, line.BBox.Y0)
		}
		fmt.Println()
		doc.Close()
	}
}
