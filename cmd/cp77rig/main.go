package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cp77rig",
	Short: "Resolve Cyberpunk 2077 rig.json skeletons",
	Long: `cp77rig loads WolvenKit .rig.json exports, resolves each bone's global
transform, converts it to the mirrored target space and writes reports,
glTF node trees and preview images.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	pf.String("mirror-axis", "", "Axis mirrored by the target-space conversion (x, y or z)")
	pf.Float64("bone-length", 0, "Display bone length (default 0.01)")
	pf.Bool("skip-apose", false, "Keep the rest pose even when the rig carries an A-pose")
	pf.Bool("no-connect", false, "Never mark child bones as connected")

	rootCmd.AddCommand(resolveCmd, previewCmd, gltfCmd, batchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
