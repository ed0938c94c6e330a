package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cp77-rig-tools/internal/export"
	"cp77-rig-tools/internal/raster"
	"cp77-rig-tools/internal/rig"
	"cp77-rig-tools/internal/skeleton"

	"go.uber.org/zap"
)

// Config holds all shared settings for a batch run.
type Config struct {
	RigDir        string // outputs mirror each rig's directory below RigDir
	OutputDir     string
	Skeleton      skeleton.Options
	WriteGLTF     bool
	Preview       bool
	PreviewFormat raster.Format
	Render        raster.RenderOptions
	Workers       int
	Progress      time.Duration // 0 means every 2s
}

// Result holds the outcome of processing one rig file.
type Result struct {
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Bones   int      `json:"bones"`
	APose   bool     `json:"a_pose"`
	Outputs []string `json:"outputs,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// Find lists *.rig.json files under dir, sorted.
func Find(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".rig.json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Results keep the input order.
// Cancelling ctx stops handing out new files; unstarted files are reported
// with the context error.
func Run(ctx context.Context, cfg Config, files []string, log *zap.Logger) []Result {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	// Two rigs must never write the same output files.
	bases := make([]string, total)
	owner := make(map[string]int, total)
	queue := make([]int, 0, total)
	for i, path := range files {
		bases[i] = outputBase(cfg, path, rig.NameFromPath(path))
		key := strings.ToLower(bases[i])
		if first, ok := owner[key]; ok {
			results[i] = Result{
				Path:  path,
				Name:  rig.NameFromPath(path),
				Error: fmt.Sprintf("output %s already used by %s", bases[i], files[first]),
			}
			log.Warn("output collision", zap.String("path", path), zap.String("first", files[first]))
			continue
		}
		owner[key] = i
		queue = append(queue, i)
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Add(1)
	go func() {
		defer reporter.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("rigs_per_sec", rate))
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, files[idx], bases[idx])
				if results[idx].Success {
					log.Debug("resolved", zap.String("rig", results[idx].Name), zap.Int("bones", results[idx].Bones))
				} else {
					log.Warn("failed", zap.String("path", files[idx]), zap.String("error", results[idx].Error))
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
feed:
	for ; sent < len(queue); sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case fileChan <- queue[sent]:
		}
	}
	close(fileChan)

	wg.Wait()
	close(done)
	reporter.Wait()

	for _, i := range queue[sent:] {
		results[i] = Result{Path: files[i], Name: rig.NameFromPath(files[i]), Error: ctx.Err().Error()}
	}

	return results
}

func fail(r Result, err error) Result {
	r.Error = err.Error()
	return r
}

func processFile(cfg Config, path, base string) Result {
	r := Result{Path: path, Name: rig.NameFromPath(path)}

	d, err := rig.Load(path)
	if err != nil {
		return fail(r, err)
	}

	s, err := skeleton.Build(d, cfg.Skeleton)
	if err != nil {
		return fail(r, err)
	}
	r.Bones = len(s.Bones)
	r.APose = s.ReferencePose

	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return fail(r, err)
	}

	reportPath := base + ".json"
	if err := export.WriteReportFile(reportPath, s); err != nil {
		return fail(r, err)
	}
	r.Outputs = append(r.Outputs, reportPath)

	if cfg.WriteGLTF {
		gltfPath := base + ".gltf"
		if err := export.WriteGLTF(gltfPath, s); err != nil {
			return fail(r, err)
		}
		r.Outputs = append(r.Outputs, gltfPath)
	}

	if cfg.Preview {
		previewPath := base + cfg.PreviewFormat.Ext()
		if err := writePreview(previewPath, s, cfg); err != nil {
			return fail(r, err)
		}
		r.Outputs = append(r.Outputs, previewPath)
	}

	r.Success = true
	return r
}

// outputBase returns the output path without extension. A rig at
// <RigDir>/man/base.rig.json maps to <OutputDir>/man/base. Rigs outside
// RigDir, or any rig when RigDir is empty, go directly into OutputDir.
func outputBase(cfg Config, path, name string) string {
	if cfg.RigDir != "" {
		rel, err := filepath.Rel(cfg.RigDir, filepath.Dir(path))
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(cfg.OutputDir, rel, name)
		}
	}
	return filepath.Join(cfg.OutputDir, name)
}

func writePreview(path string, s *skeleton.Skeleton, cfg Config) (err error) {
	img := raster.RenderSkeleton(s, cfg.Render)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return raster.Encode(f, img, cfg.PreviewFormat)
}
