package batch

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"jetblack-anim/internal/anm"
	"jetblack-anim/internal/config"
	"jetblack-anim/internal/mathutil"
	"jetblack-anim/internal/postprocess"
	"jetblack-anim/internal/raster"
	"jetblack-anim/internal/skeleton"
)

// Config holds all shared settings for a batch run.
type Config struct {
	InputDir     string
	OutputDir    string
	Engine       anm.EngineVersion
	Format       string
	RenderSize   int
	Supersample  int
	SheetColumns int
	SheetFrames  int
	Workers      int
}

// FromConfig builds a batch Config from a resolved config.Config.
func FromConfig(c config.Config) Config {
	return Config{
		InputDir:     c.InputDir,
		OutputDir:    c.OutputDir,
		Engine:       c.EngineVersion(),
		Format:       c.Format,
		RenderSize:   c.RenderSize,
		Supersample:  c.Supersample,
		SheetColumns: c.SheetColumns,
		SheetFrames:  c.SheetFrames,
		Workers:      c.Workers,
	}
}

// Result holds the outcome of processing one animation file.
type Result struct {
	Name    string // path relative to the input dir
	Bones   int
	Frames  int
	Flags   uint32
	Image   string // path relative to the output dir
	Success bool
	Error   string
}

// previewMargin is the free border around the fitted skeleton, as a
// fraction of the frame.
const previewMargin = 0.06

// FindFiles returns every .anm file under dir, relative to dir, sorted.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".anm") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, name string) Result {
	res := Result{Name: name}

	data, err := os.ReadFile(filepath.Join(cfg.InputDir, name))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	a, err := anm.Decode(cfg.Engine, data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Bones = a.NumBones
	res.Frames = a.NumFrames
	res.Flags = a.Header.Flags()

	sheet := RenderSheet(a, cfg)

	res.Image = strings.TrimSuffix(name, filepath.Ext(name)) + "." + cfg.Format
	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := writeImage(f, sheet, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

// RenderSheet draws up to cfg.SheetFrames evenly spaced frames of a and
// tiles them into one contact sheet. The camera is fitted once so the
// skeleton keeps its scale from frame to frame.
func RenderSheet(a *anm.Animation, cfg Config) *image.NRGBA {
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	renderSize := cfg.RenderSize * ss

	min, max := skeleton.Bounds(a)
	cam := raster.FitCamera(mathutil.PreviewView, min, max, previewMargin)

	picks := SampleFrames(a.NumFrames, cfg.SheetFrames)
	frames := make([]*image.NRGBA, len(picks))
	for i, f := range picks {
		img := raster.RenderFrame(skeleton.Segments(a, f), cam, renderSize)
		if ss > 1 {
			img = postprocess.Downsample(img, ss)
		}
		frames[i] = img
	}
	return postprocess.ContactSheet(frames, cfg.SheetColumns)
}

// SampleFrames picks up to n frame indices spread evenly over numFrames,
// always including the first and last frame.
func SampleFrames(numFrames, n int) []int {
	if numFrames <= 0 {
		return nil
	}
	if n <= 0 || n > numFrames {
		n = numFrames
	}
	if n == 1 {
		return []int{0}
	}
	picks := make([]int, n)
	for i := range picks {
		picks[i] = i * (numFrames - 1) / (n - 1)
	}
	return picks
}

// writeImage encodes img to wc and closes it. A failed close is reported
// since buffered image bytes may not have reached the file.
func writeImage(wc io.WriteCloser, img image.Image, format string) error {
	err := encode(wc, img, format)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close: %w", cerr)
	}
	return err
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case config.FormatTGA:
		if err := tga.Encode(w, img); err != nil {
			return fmt.Errorf("TGA encode: %w", err)
		}
	default:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
	}
	return nil
}
