package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cp77-rig-tools/internal/raster"
	"cp77-rig-tools/internal/skeleton"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// MinPreviewSize is the smallest preview edge that still leaves room inside
// the render margin.
const MinPreviewSize = 16

// EnvPrefix namespaces environment overrides, e.g. CP77RIG_WORKERS=4.
const EnvPrefix = "CP77RIG_"

// Config holds input/output paths and skeleton/preview settings.
type Config struct {
	// Paths
	RigDir    string `json:"rig_dir" yaml:"rig_dir" env:"RIG_DIR"`
	OutputDir string `json:"output_dir" yaml:"output_dir" env:"OUTPUT_DIR"`

	// Skeleton settings
	MirrorAxis        skeleton.Axis `json:"mirror_axis" yaml:"mirror_axis" env:"MIRROR_AXIS"`
	BoneLength        float64       `json:"bone_length" yaml:"bone_length" env:"BONE_LENGTH"`
	SkipReferencePose bool          `json:"skip_reference_pose" yaml:"skip_reference_pose" env:"SKIP_REFERENCE_POSE"`
	DisableConnect    bool          `json:"disable_connect" yaml:"disable_connect" env:"DISABLE_CONNECT"`
	AnimBones         []string      `json:"anim_bones" yaml:"anim_bones" env:"ANIM_BONES"`

	// Outputs
	WriteGLTF     bool    `json:"write_gltf" yaml:"write_gltf" env:"WRITE_GLTF"`
	Preview       bool    `json:"preview" yaml:"preview" env:"PREVIEW"`
	PreviewFormat string  `json:"preview_format" yaml:"preview_format" env:"PREVIEW_FORMAT"`
	PreviewSize   int     `json:"preview_size" yaml:"preview_size" env:"PREVIEW_SIZE"`
	Supersample   int     `json:"supersample" yaml:"supersample" env:"SUPERSAMPLE"`
	Perspective   bool    `json:"perspective" yaml:"perspective" env:"PERSPECTIVE"`
	FOV           float64 `json:"fov" yaml:"fov" env:"FOV"`
	Workers       int     `json:"workers" yaml:"workers" env:"WORKERS"`
}

// Load reads a JSON or YAML (by extension) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overlays CP77RIG_* environment variables. Unset variables leave
// the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	RigDir        string
	OutputDir     string
	PreviewFormat string
	Workers       int
	PreviewSize   int
	WriteGLTF     bool
	Preview       bool
	Perspective   bool
	FOV           float64
}

// Resolve applies flag overrides, then fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.RigDir != "" {
		c.RigDir = flags.RigDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.PreviewFormat != "" {
		c.PreviewFormat = flags.PreviewFormat
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.WriteGLTF {
		c.WriteGLTF = true
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.Perspective {
		c.Perspective = true
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}

	if c.RigDir == "" {
		c.RigDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.RigDir, "resolved")
	}

	if c.BoneLength <= 0 {
		c.BoneLength = skeleton.DefaultBoneLength
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = string(raster.FormatWebP)
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if _, err := raster.ParseFormat(c.PreviewFormat); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PreviewSize < MinPreviewSize {
		return fmt.Errorf("config: preview size %d is below the minimum of %d", c.PreviewSize, MinPreviewSize)
	}
	if c.FOV < 0 || c.FOV >= 180 {
		return fmt.Errorf("config: fov %g must be between 0 and 180 degrees", c.FOV)
	}
	if c.MirrorAxis < skeleton.AxisX || c.MirrorAxis > skeleton.AxisZ {
		return fmt.Errorf("config: invalid mirror axis %v", c.MirrorAxis)
	}
	return nil
}

// SkeletonOptions returns the skeleton build options.
func (c *Config) SkeletonOptions() skeleton.Options {
	return skeleton.Options{
		MirrorAxis:        c.MirrorAxis,
		BoneLength:        c.BoneLength,
		SkipReferencePose: c.SkipReferencePose,
		DisableConnect:    c.DisableConnect,
		AnimBones:         c.AnimBones,
	}
}

// RenderOptions returns preview settings on top of the raster defaults.
func (c *Config) RenderOptions() raster.RenderOptions {
	opts := raster.DefaultRenderOptions()
	opts.Size = c.PreviewSize
	opts.Supersample = c.Supersample
	opts.Camera.Perspective = c.Perspective
	opts.Camera.FOV = c.FOV
	return opts
}

// Format returns the parsed preview format; call Validate first.
func (c *Config) Format() raster.Format {
	f, _ := raster.ParseFormat(c.PreviewFormat)
	return f
}
