package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

func main() {
	var (
		pdfPath     = flag.String("pdf", "", "Path to PDF file")
		library     = flag.String("lib", "", "Text backend to use (ledongthuc, dslipak, pdfcpu); empty tries each in turn")
		granularity = flag.String("granularity", "line", "Token granularity (word, line, block)")
		xTolerance  = flag.Float64("x-tolerance", 3.0, "X tolerance for word separation")
		maxTokens   = flag.Int("max", 0, "Maximum tokens printed per page (0 prints all)")
	)
	flag.Parse()

	if *pdfPath == "" && flag.NArg() > 0 {
		*pdfPath = flag.Arg(0)
	}
	if *pdfPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	g, err := pdf.ParseGranularity(*granularity)
	if err != nil {
		log.Fatalf("Invalid granularity: %v", err)
	}

	var backends []pdf.Backend
	if *library != "" {
		b, err := pdf.ParseBackend(*library)
		if err != nil {
			log.Fatalf("Invalid library: %v", err)
		}
		backends = append(backends, b)
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	doc, used, err := pdf.OpenText(data, backends...)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("Opening PDF: %s\n", *pdfPath)
	fmt.Printf("Using library: %s\n", used)
	fmt.Printf("Document has %d pages\n\n", doc.PageCount())

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetTextPage(i)
		if err != nil {
			log.Printf("Failed to get page %d: %v", i+1, err)
			continue
		}

		fmt.Printf("=== Page %d ===\n", page.GetPageNumber())
		fmt.Printf("Size: %.2f x %.2f\n", page.GetWidth(), page.GetHeight())

		tokens := page.ExtractTokens(g, pdf.WithXTolerance(*xTolerance))
		if len(tokens) == 0 {
			fmt.Println("No text found on this page")
			fmt.Println()
			continue
		}

		fmt.Printf("%d %s tokens:\n", len(tokens), g)
		for j, tok := range tokens {
			if *maxTokens > 0 && j >= *maxTokens {
				fmt.Printf("  ... %d more\n", len(tokens)-j)
				break
			}
			fmt.Printf("  %q at (%.2f, %.2f) - (%.2f, %.2f)\n",
				tok.Text, tok.BBox.X0, tok.BBox.Y0, tok.BBox.X1, tok.BBox.Y1)
		}
		fmt.Println()
	}
}
