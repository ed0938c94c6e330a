package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cp77-rig-tools/internal/batch"
	"cp77-rig-tools/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var batchFlags config.Flags

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Resolve every .rig.json under a directory",
	Long: `Walks the rig directory, resolves each skeleton on a worker pool and writes
<rig>.json reports (plus optional glTF and preview files) into the output
directory, keeping each rig's subdirectory, followed by a manifest.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchFlags.OutputDir, "output", "o", "", "Output directory (default <dir>/resolved)")
	f.IntVarP(&batchFlags.Workers, "workers", "w", 0, "Number of worker goroutines (default: NumCPU)")
	f.BoolVar(&batchFlags.WriteGLTF, "gltf", false, "Also write <rig>.gltf")
	f.BoolVar(&batchFlags.Preview, "preview", false, "Also render a preview image")
	f.StringVar(&batchFlags.PreviewFormat, "format", "", "Preview format: webp or tga (default webp)")
	f.IntVar(&batchFlags.PreviewSize, "size", 0, "Preview size in pixels (default 256)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	flags := batchFlags
	if len(args) > 0 {
		flags.RigDir = args[0]
	}
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	files, err := batch.Find(cfg.RigDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rigs found.")
		return nil
	}

	logger.Info("batch start",
		zap.String("rig_dir", cfg.RigDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("rigs", len(files)),
		zap.Int("workers", cfg.Workers))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	results := batch.Run(ctx, batch.Config{
		RigDir:        cfg.RigDir,
		OutputDir:     cfg.OutputDir,
		Skeleton:      cfg.SkeletonOptions(),
		WriteGLTF:     cfg.WriteGLTF,
		Preview:       cfg.Preview,
		PreviewFormat: cfg.Format(),
		Render:        cfg.RenderOptions(),
		Workers:       cfg.Workers,
	}, files, logger)

	m := batch.NewManifest(results)
	logger.Info("batch done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("succeeded", m.Succeeded),
		zap.Int("failed", m.Failed))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Resolved: %d/%d\n", m.Succeeded, m.Total)
	if m.Failed > 0 {
		fmt.Fprintf(out, "\nFailed (%d):\n", m.Failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			if shown == 20 {
				fmt.Fprintf(out, "  ... and %d more\n", m.Failed-shown)
				break
			}
			fmt.Fprintf(out, "  %s: %s\n", r.Name, r.Error)
			shown++
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		logger.Warn("manifest write failed", zap.Error(err))
	} else {
		fmt.Fprintf(out, "Manifest: %s\n", manifestPath)
	}

	if m.Failed > 0 {
		return fmt.Errorf("%d of %d rigs failed", m.Failed, m.Total)
	}
	return nil
}
