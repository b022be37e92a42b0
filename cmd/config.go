package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var configInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a YAML file",
	Long:  "Writes the current configuration (defaults merged with any config file and environment overrides) to a YAML file as a starting point for customization.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		if err := os.WriteFile(configInitPath, out, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", configInitPath)
		}

		zap.L().Info("config written", zap.String("path", configInitPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "out", "transcript-cli.yaml", "output path")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
