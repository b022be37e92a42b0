package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/cleaner"
)

var (
	cleanInDir       string
	cleanOutDir      string
	cleanJoinLines   bool
	cleanNormSpaces  bool
	cleanDehyphenate bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Strip boilerplate and headers from converted transcripts",
	Long:  "Removes transcription-service boilerplate, interview headers, page numbers and PDF line-wrap artifacts from every .txt file under the input folder.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := cleaner.New(cleaner.Options{
			JoinLines:       cleanJoinLines,
			NormalizeSpaces: cleanNormSpaces,
			Dehyphenate:     cleanDehyphenate,
			HeaderCutoff:    cfg.Clean.HeaderCutoffLines,
			HeaderLookahead: cfg.Clean.HeaderLookahead,
		})

		res, err := cleaner.CleanTree(ctx, c, cleanInDir, cleanOutDir, cfg.Clean.Workers)
		if err != nil {
			return err
		}

		zap.L().Info("clean complete",
			zap.Int("files", res.Files),
			zap.Int64("bytes_in", res.BytesIn),
			zap.Int64("bytes_out", res.BytesOut),
			zap.Float64("ratio", res.Ratio()),
			zap.String("output", cleanOutDir),
		)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanInDir, "in", "", "folder with converted .txt transcripts (required)")
	cleanCmd.Flags().StringVar(&cleanOutDir, "out", "", "output folder for cleaned transcripts (required)")
	cleanCmd.Flags().BoolVar(&cleanJoinLines, "join-lines", true, "join wrapped lines into speaker paragraphs")
	cleanCmd.Flags().BoolVar(&cleanNormSpaces, "normalize-spaces", true, "collapse runs of spaces and tabs")
	cleanCmd.Flags().BoolVar(&cleanDehyphenate, "dehyphenate", true, "rejoin words hyphenated across line breaks")
	_ = cleanCmd.MarkFlagRequired("in")
	_ = cleanCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(cleanCmd)
}
