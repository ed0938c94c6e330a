package main

import (
	"cp77-rig-tools/internal/config"
	"cp77-rig-tools/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var gltfOutput string

var gltfCmd = &cobra.Command{
	Use:   "gltf <file.rig.json>",
	Short: "Export the bone hierarchy as a glTF node tree",
	Long:  `Writes one node per bone with parent-relative target-space matrices. A .glb output path selects the binary container.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, config.Flags{})
		if err != nil {
			return err
		}
		s, err := buildSkeleton(args[0], cfg)
		if err != nil {
			return err
		}

		path := outputPath(gltfOutput, s.Name, ".gltf")
		if err := export.WriteGLTF(path, s); err != nil {
			return err
		}
		logger.Info("gltf written", zap.String("path", path), zap.Int("nodes", len(s.Bones)))
		return nil
	},
}

func init() {
	gltfCmd.Flags().StringVarP(&gltfOutput, "output", "o", "", "Output path, .gltf or .glb (default <rig>.gltf)")
}
