package main

import (
	"fmt"
	"os"

	"cp77-rig-tools/internal/config"
	"cp77-rig-tools/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resolveOutput string

var resolveCmd = &cobra.Command{
	Use:   "resolve <file.rig.json>",
	Short: "Print resolved target-space bone transforms as JSON",
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

		if resolveOutput == "" || resolveOutput == "-" {
			return export.WriteReport(cmd.OutOrStdout(), s)
		}
		if err := export.WriteReportFile(resolveOutput, s); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", resolveOutput))
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "Write the report to a file instead of stdout")
}

// outputPath picks the explicit -o value or <rig>.<ext> in the working directory.
func outputPath(explicit, name, ext string) string {
	if explicit != "" {
		return explicit
	}
	return fmt.Sprintf("%s%s", name, ext)
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
