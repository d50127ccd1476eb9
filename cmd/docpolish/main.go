// Command docpolish cleans PDF files from the command line.
//
//	docpolish clean   -keywords "CONFIDENTIAL" -footer 30 in.pdf
//	docpolish detect  in.pdf
//	docpolish preview -keywords "DRAFT" -o page1.png in.pdf
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pipeline"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: docpolish <clean|detect|preview> [flags] <pdf_file>\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "clean":
		runClean(os.Args[2:])
	case "detect":
		runDetect(os.Args[2:])
	case "preview":
		runPreview(os.Args[2:])
	default:
		usage()
	}
}

// cleanFlags are shared by clean and preview
type cleanFlags struct {
	fs          *flag.FlagSet
	keywords    *string
	matchCase   *bool
	wholeWord   *bool
	header      *float64
	footer      *float64
	granularity *string
	output      *string
	verbose     *bool
}

func newCleanFlags(name string) *cleanFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &cleanFlags{
		fs:          fs,
		keywords:    fs.String("keywords", "", "Comma separated keywords to remove"),
		matchCase:   fs.Bool("match-case", false, "Match keyword case exactly"),
		wholeWord:   fs.Bool("whole-word", false, "Match whole tokens only"),
		header:      fs.Float64("header", 0, "Header band height in points"),
		footer:      fs.Float64("footer", match.DefaultFooterHeight, "Footer band height in points"),
		granularity: fs.String("granularity", "word", "Token granularity for whole word matching (word, line, block)"),
		output:      fs.String("o", "", "Output file"),
		verbose:     fs.Bool("v", false, "Verbose logging"),
	}
}

func (f *cleanFlags) parse(args []string) (match.Configuration, string, *logrus.Logger) {
	f.fs.Parse(args)
	if f.fs.NArg() != 1 {
		f.fs.Usage()
		os.Exit(2)
	}

	g, err := pdf.ParseGranularity(*f.granularity)
	if err != nil {
		log.Fatalf("Invalid granularity: %v", err)
	}
	cfg, err := match.NewConfiguration(*f.keywords,
		match.WithMatchCase(*f.matchCase),
		match.WithWholeWord(*f.wholeWord),
		match.WithHeaderHeight(*f.header),
		match.WithFooterHeight(*f.footer),
		match.WithGranularity(g),
	)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if *f.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return cfg, f.fs.Arg(0), logger
}

func runClean(args []string) {
	f := newCleanFlags("clean")
	cfg, in, logger := f.parse(args)

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	out, report, err := pipeline.New(pipeline.Config{Logger: logger}).ProcessWithReport(data, cfg)
	if err != nil {
		log.Fatalf("Failed to clean PDF: %v", err)
	}

	target := *f.output
	if target == "" {
		target = filepath.Join(filepath.Dir(in), "Clean_"+filepath.Base(in))
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		log.Fatalf("Failed to write PDF: %v", err)
	}

	fmt.Printf("%d pages cleaned, %d glyphs removed -> %s\n", report.Pages, report.GlyphsRemoved, target)
	for _, pe := range report.PageErrors {
		fmt.Printf("  warning: %v\n", pe)
	}
}

func runDetect(args []string) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	fmt.Println(pipeline.New(pipeline.Config{Logger: logger}).Detect(data))
}

func runPreview(args []string) {
	f := newCleanFlags("preview")
	scale := f.fs.Float64("scale", pipeline.DefaultPreviewScale, "Pixels per point")
	cfg, in, logger := f.parse(args)

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	img, err := pipeline.New(pipeline.Config{Logger: logger, PreviewScale: *scale}).Preview(data, cfg)
	if err != nil {
		log.Fatalf("Failed to render preview: %v", err)
	}

	target := *f.output
	if target == "" {
		target = "preview.png"
	}
	w, err := os.Create(target)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", target, err)
	}
	defer w.Close()

	if err := png.Encode(w, img); err != nil {
		log.Fatalf("Failed to encode preview: %v", err)
	}
	fmt.Printf("Preview written to %s\n", target)
}
