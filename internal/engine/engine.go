// Package engine composes the analysis pipeline into the public operations:
// metadata-only detection, detection with rendered outputs, and detection
// persisted to disk.
package engine

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/spotdiff/internal/config"
	"github.com/ivlev/spotdiff/internal/detector"
	"github.com/ivlev/spotdiff/internal/renderer"
	"github.com/ivlev/spotdiff/internal/source"
	"github.com/ivlev/spotdiff/internal/splitter"
	"github.com/ivlev/spotdiff/internal/system"
)

const markerThickness = 3

var (
	firstMarkerColor  = color.RGBA{R: 255, A: 255}
	secondMarkerColor = color.RGBA{G: 255, A: 255}
)

// Region is one reported difference. Index is 1-based and follows contour
// discovery order, not spatial order.
type Region struct {
	Index  int `json:"index"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Report is the metadata result of one pipeline invocation.
type Report struct {
	DifferenceCount int      `json:"difference_count"`
	Differences     []Region `json:"differences"`
	ImageSize       Size     `json:"image_size"`
	// SplitMethod tags how the composite was divided; "fallback_fixed" marks
	// a low-confidence degraded result.
	SplitMethod string `json:"split_method"`
	// HashDistance is the perceptual-hash Hamming distance between the two
	// aligned halves; -1 when hashing failed.
	HashDistance int `json:"hash_distance"`
}

// Images holds the PNG-encoded rendered outputs of a full analysis.
type Images struct {
	Combined     []byte
	Heatmap      []byte
	MarkedFirst  []byte
	MarkedSecond []byte
}

// SavedFiles holds the paths written by the persisted variant.
type SavedFiles struct {
	Combined     string `json:"combined"`
	Heatmap      string `json:"heatmap"`
	MarkedFirst  string `json:"image1_marked"`
	MarkedSecond string `json:"image2_marked"`
}

type analysis struct {
	report        *Report
	first, second *image.RGBA
	regions       []image.Rectangle
}

// analyze runs decode, split, align and detect. Decode failures abort before
// any other stage runs.
func analyze(data []byte, cfg *config.Config) (*analysis, error) {
	screenshot, err := source.Decode(data)
	if err != nil {
		return nil, err
	}

	split, err := splitter.Split(screenshot)
	if err != nil {
		return nil, fmt.Errorf("splitting composite: %w", err)
	}

	first, second := detector.Align(split.Top, split.Bottom)
	regions := detector.FindDifferences(split.Top, split.Bottom, cfg.MinArea, cfg.DiffThreshold)

	dist, err := detector.Similarity(first, second)
	if err != nil {
		dist = -1
	}

	report := &Report{
		DifferenceCount: len(regions),
		Differences:     make([]Region, 0, len(regions)),
		ImageSize: Size{
			Width:  first.Bounds().Dx(),
			Height: first.Bounds().Dy(),
		},
		SplitMethod:  split.Method.String(),
		HashDistance: dist,
	}
	for i, r := range regions {
		report.Differences = append(report.Differences, Region{
			Index:  i + 1,
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}

	return &analysis{report: report, first: first, second: second, regions: regions}, nil
}

// Analyze runs the pipeline and returns metadata only.
func Analyze(data []byte, cfg *config.Config) (*Report, error) {
	an, err := analyze(data, cfg)
	if err != nil {
		return nil, err
	}
	return an.report, nil
}

// AnalyzeImages runs the pipeline and additionally renders the annotated
// halves, the side-by-side composite and the difference heat map.
func AnalyzeImages(data []byte, cfg *config.Config) (*Report, *Images, error) {
	an, err := analyze(data, cfg)
	if err != nil {
		return nil, nil, err
	}

	markedFirst := renderer.DrawDifferences(an.first, an.regions, firstMarkerColor, markerThickness)
	markedSecond := renderer.DrawDifferences(an.second, an.regions, secondMarkerColor, markerThickness)
	combined := renderer.SideBySide(markedFirst, markedSecond)
	heat := renderer.Heatmap(an.first, an.second)

	imgs := &Images{}
	for _, enc := range []struct {
		dst *[]byte
		img *image.RGBA
	}{
		{&imgs.Combined, combined},
		{&imgs.Heatmap, heat},
		{&imgs.MarkedFirst, markedFirst},
		{&imgs.MarkedSecond, markedSecond},
	} {
		if *enc.dst, err = source.EncodePNG(enc.img); err != nil {
			return nil, nil, err
		}
	}

	return an.report, imgs, nil
}

// SaveResults runs the full pipeline and writes the rendered outputs to
// outDir using the given filename prefix. The directory is created if absent.
func SaveResults(data []byte, cfg *config.Config, outDir, prefix string) (*Report, *SavedFiles, error) {
	report, imgs, err := AnalyzeImages(data, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := system.EnsureDir(outDir); err != nil {
		return nil, nil, err
	}

	files := &SavedFiles{
		Combined:     filepath.Join(outDir, prefix+"_combined.png"),
		Heatmap:      filepath.Join(outDir, prefix+"_heatmap.png"),
		MarkedFirst:  filepath.Join(outDir, prefix+"_img1_marked.png"),
		MarkedSecond: filepath.Join(outDir, prefix+"_img2_marked.png"),
	}
	for _, w := range []struct {
		path string
		data []byte
	}{
		{files.Combined, imgs.Combined},
		{files.Heatmap, imgs.Heatmap},
		{files.MarkedFirst, imgs.MarkedFirst},
		{files.MarkedSecond, imgs.MarkedSecond},
	} {
		if err := os.WriteFile(w.path, w.data, 0644); err != nil {
			return nil, nil, err
		}
	}

	return report, files, nil
}

// BatchResult is the outcome for one input file of a batch run.
type BatchResult struct {
	Input  string
	Report *Report
	Files  *SavedFiles
	Err    error
}

// BatchDirectory analyzes every image in dir concurrently and persists the
// rendered outputs to outDir. Each invocation is an independent unit of work,
// so files are processed in parallel with no coordination; per-file failures
// are recorded and do not stop the batch.
func BatchDirectory(dir, outDir string, cfg *config.Config) ([]*BatchResult, error) {
	paths, err := source.ListImages(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in %s", dir)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = system.Workers()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]*BatchResult, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res := &BatchResult{Input: path}
			results[i] = res

			data, err := os.ReadFile(path)
			if err != nil {
				res.Err = err
				log.Printf("[!] %s: %v", path, err)
				return nil
			}

			prefix := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			res.Report, res.Files, res.Err = SaveResults(data, cfg, outDir, prefix)
			if res.Err != nil {
				log.Printf("[!] %s: %v", path, res.Err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results, nil
}
