package main

import (
	"fmt"

	"cp77-rig-tools/internal/config"
	"cp77-rig-tools/internal/rig"
	"cp77-rig-tools/internal/skeleton"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadConfig layers the config file, CP77RIG_* variables and command-line
// flags, then fills defaults.
func loadConfig(cmd *cobra.Command, flags config.Flags) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	if fs.Changed("mirror-axis") {
		v, _ := fs.GetString("mirror-axis")
		if err := cfg.MirrorAxis.UnmarshalText([]byte(v)); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("bone-length") {
		cfg.BoneLength, _ = fs.GetFloat64("bone-length")
	}
	if fs.Changed("skip-apose") {
		cfg.SkipReferencePose, _ = fs.GetBool("skip-apose")
	}
	if fs.Changed("no-connect") {
		cfg.DisableConnect, _ = fs.GetBool("no-connect")
	}

	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildSkeleton loads one rig and resolves it with the configured options.
func buildSkeleton(path string, cfg config.Config) (*skeleton.Skeleton, error) {
	d, err := rig.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := skeleton.Build(d, cfg.SkeletonOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	logger.Debug("skeleton built",
		zap.String("rig", s.Name),
		zap.Int("bones", len(s.Bones)),
		zap.Stringer("mirror_axis", s.Axis),
		zap.Bool("a_pose", s.ReferencePose))
	return s, nil
}
