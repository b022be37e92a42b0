package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/extract"
	"github.com/oral-history-lab/transcript-cli/internal/model"
)

var (
	filterSrcDir string
	filterDstDir string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Stage transcript PDFs out of a mixed collection folder",
	Long:  "Copies only transcript PDFs (filenames carrying a \"trs\" marker) from the source folder into a staging folder for conversion.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		total, copied, err := extract.StagePDFs(filterSrcDir, filterDstDir, model.IsTranscriptPDF)
		if err != nil {
			return err
		}

		zap.L().Info("filter complete",
			zap.Int("pdfs_seen", total),
			zap.Int("transcripts_staged", copied),
			zap.String("output", filterDstDir),
		)
		return nil
	},
}

func init() {
	filterCmd.Flags().StringVar(&filterSrcDir, "src", "", "folder with mixed collection PDFs (required)")
	filterCmd.Flags().StringVar(&filterDstDir, "dst", ".trs_pdf", "staging folder for transcript PDFs")
	_ = filterCmd.MarkFlagRequired("src")
	rootCmd.AddCommand(filterCmd)
}
