package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ivlev/spotdiff/internal/config"
	"github.com/ivlev/spotdiff/internal/engine"
	"github.com/ivlev/spotdiff/internal/source"
)

const defaultInputDir = "input/screenshots"

func main() {
	// Create the default directories if they are missing
	for _, d := range []string{defaultInputDir, "output"} {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Composite screenshot file or a directory of them (default: newest image in input/screenshots/)")
	outputPtr := flag.String("output", "output", "Output directory for rendered results")
	prefixPtr := flag.String("prefix", "result", "Output filename prefix")
	minAreaPtr := flag.Int("min-area", config.DefaultMinArea, "Minimum difference area in pixels")
	thresholdPtr := flag.Int("threshold", config.DefaultDiffThreshold, "Difference threshold (0-255)")
	configPtr := flag.String("config", "", "Path to a YAML config file")
	workersPtr := flag.Int("workers", 0, "Batch workers (0 = all logical CPUs)")
	jsonPtr := flag.Bool("json", false, "Print the metadata report as JSON")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Failed to load config: %v", err)
		}
		cfg = loaded
	}
	// Explicit flags override config file values
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-area":
			cfg.MinArea = *minAreaPtr
		case "threshold":
			cfg.DiffThreshold = *thresholdPtr
		case "workers":
			cfg.Workers = *workersPtr
		}
	})

	if cfg.DiffThreshold < 0 || cfg.DiffThreshold > 255 {
		log.Fatalf("[-] threshold must be in 0-255, got %d", cfg.DiffThreshold)
	}
	if cfg.MinArea < 0 {
		log.Fatalf("[-] min-area must not be negative, got %d", cfg.MinArea)
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := source.FindLatestImage(defaultInputDir)
		if err != nil {
			log.Fatalf("[-] %v. Put a screenshot in %s/", err, defaultInputDir)
		}
		inputPath = latest
		fmt.Printf("[*] Selected file: %s\n", inputPath)
	}

	fi, err := os.Stat(inputPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	if fi.IsDir() {
		runBatch(inputPath, *outputPtr, cfg)
		return
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	report, files, err := engine.SaveResults(data, cfg, *outputPtr, *prefixPtr)
	if err != nil {
		if errors.Is(err, source.ErrInvalidImage) {
			log.Fatalf("[-] Not a valid image: %v", err)
		}
		log.Fatalf("[-] Analysis failed: %v", err)
	}

	if *jsonPtr {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Printf("[*] Differences found: %d (split: %s, hash distance: %d)\n",
			report.DifferenceCount, report.SplitMethod, report.HashDistance)
		for _, r := range report.Differences {
			fmt.Printf("[*]   #%d at (%d, %d) size %dx%d\n", r.Index, r.X, r.Y, r.Width, r.Height)
		}
	}

	fmt.Printf("[+] Saved: %s\n", files.Combined)
	fmt.Printf("[+] Saved: %s\n", files.Heatmap)
	fmt.Printf("[+] Saved: %s\n", files.MarkedFirst)
	fmt.Printf("[+] Saved: %s\n", files.MarkedSecond)
}

func runBatch(dir, outDir string, cfg *config.Config) {
	results, err := engine.BatchDirectory(dir, outDir, cfg)
	if err != nil {
		log.Fatalf("[-] Batch failed: %v", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		fmt.Printf("[+] %s: %d differences (split: %s)\n",
			res.Input, res.Report.DifferenceCount, res.Report.SplitMethod)
	}
	fmt.Printf("[*] Processed %d files, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
