package main

import (
	"cp77-rig-tools/internal/config"
	"cp77-rig-tools/internal/raster"
	"cp77-rig-tools/internal/viewmatrix"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	previewOutput string
	previewFormat string
	previewSize   int
	previewFront  bool
	previewPersp  bool
	previewFOV    float64
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.rig.json>",
	Short: "Render a skeleton preview image (WebP or TGA)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := loadConfig(cmd, config.Flags{
			PreviewFormat: previewFormat,
			PreviewSize:   previewSize,
			Perspective:   previewPersp,
			FOV:           previewFOV,
		})
		if err != nil {
			return err
		}
		s, err := buildSkeleton(args[0], cfg)
		if err != nil {
			return err
		}

		opts := cfg.RenderOptions()
		if previewFront {
			opts.Camera.Rotation = viewmatrix.FrontCamera().Rotation
		}
		img := raster.RenderSkeleton(s, opts)

		path := outputPath(previewOutput, s.Name, cfg.Format().Ext())
		f, err := createFile(path)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		if err := raster.Encode(f, img, cfg.Format()); err != nil {
			return err
		}

		logger.Info("preview written",
			zap.String("path", path),
			zap.Int("size", opts.Size),
			zap.Bool("perspective", opts.Camera.Perspective))
		return nil
	},
}

func init() {
	f := previewCmd.Flags()
	f.StringVarP(&previewOutput, "output", "o", "", "Output image path (default <rig>.<format>)")
	f.StringVar(&previewFormat, "format", "", "Image format: webp or tga (default webp)")
	f.IntVar(&previewSize, "size", 0, "Output size in pixels (default 256)")
	f.BoolVar(&previewFront, "front", false, "Use a straight front camera instead of three-quarter")
	f.BoolVar(&previewPersp, "perspective", false, "Use a perspective projection instead of orthographic")
	f.Float64Var(&previewFOV, "fov", 0, "Perspective field of view in degrees (default 50)")
}
