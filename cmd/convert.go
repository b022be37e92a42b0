package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/extract"
)

var (
	convertInDir  string
	convertOutDir string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert PDF transcripts to plain text",
	Long:  "Extracts layout-preserving text from every PDF under the input folder, mirroring the directory tree as .txt files. Individual failures are logged and skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ex, err := extract.NewExtractor(cfg.Convert)
		if err != nil {
			return err
		}

		res, err := extract.ConvertTree(ctx, ex, convertInDir, convertOutDir, cfg.Convert.Workers)
		if err != nil {
			return err
		}

		zap.L().Info("convert complete",
			zap.Int("converted", res.Converted),
			zap.Int("failed", res.Failed),
			zap.String("output", convertOutDir),
		)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInDir, "in", "", "folder with transcript PDFs (required)")
	convertCmd.Flags().StringVar(&convertOutDir, "out", "", "output folder for .txt files (required)")
	_ = convertCmd.MarkFlagRequired("in")
	_ = convertCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(convertCmd)
}
