package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/metadata"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Metadata CSV bookkeeping",
}

var (
	metaFilterCSV    string
	metaFilterDir    string
	metaFilterOutCSV string
)

var metaFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Keep only metadata rows whose transcript exists in a folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := metadata.ReadTable(metaFilterCSV)
		if err != nil {
			return err
		}

		res, err := metadata.FilterByFolder(table, metaFilterDir)
		if err != nil {
			return err
		}
		if len(res.Unmatched) > 0 {
			zap.L().Warn("transcripts without metadata rows",
				zap.Int("count", len(res.Unmatched)),
				zap.String("first", res.Unmatched[0]),
			)
		}

		out := metaFilterOutCSV
		if out == "" {
			out = metaFilterCSV
		}
		return res.Table.WriteTable(out)
	},
}

var (
	metaMergeTarget string
	metaMergeSource string
	metaMergeColumn string
	metaMergeOutCSV string
)

var metaMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Left-join a column from one metadata CSV into another",
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, err := metadata.ReadTable(metaMergeTarget)
		if err != nil {
			return err
		}
		source, err := metadata.ReadTable(metaMergeSource)
		if err != nil {
			return err
		}

		res, err := metadata.MergeColumn(target, source, metaMergeColumn)
		if err != nil {
			return err
		}

		out := metaMergeOutCSV
		if out == "" {
			out = metaMergeTarget
		}
		return res.Table.WriteTable(out)
	},
}

var (
	metaSampleSrc  string
	metaSampleDst  string
	metaSampleN    int
	metaSampleSeed int64
)

var metaSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Copy a reproducible random sample of transcripts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := metadata.SampleFiles(metaSampleSrc, metaSampleDst, metaSampleN, metaSampleSeed)
		if err != nil {
			return err
		}
		zap.L().Info("sample complete",
			zap.Int("files", len(names)),
			zap.String("output", metaSampleDst),
		)
		return nil
	},
}

var (
	metaStatsCSV    string
	metaStatsDetail string
)

var metaStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Topic-count statistics over subject columns",
	Long:  "Counts the semicolon-delimited terms in every subject/topical column and reports totals, averages and medians. Optionally writes the per-row detail as CSV or XLSX.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := metadata.ReadTable(metaStatsCSV)
		if err != nil {
			return err
		}

		stats, err := metadata.TopicStats(table)
		if err != nil {
			return err
		}
		for _, s := range stats {
			zap.L().Info("column stats",
				zap.String("column", s.Column),
				zap.Int("rows", s.TotalRows),
				zap.Int("with_topics", s.RowsWithTopics),
				zap.Int("without_topics", s.RowsWithoutTopics),
				zap.Int("total_topics", s.TotalTopics),
				zap.Float64("avg_nonzero", s.AverageNonZero),
				zap.Int("min", s.MinTopics),
				zap.Int("max", s.MaxTopics),
				zap.Float64("median_nonzero", s.MedianNonZero),
			)
		}

		if metaStatsDetail == "" {
			return nil
		}
		detail, err := metadata.WithTopicCounts(table)
		if err != nil {
			return err
		}
		if strings.HasSuffix(strings.ToLower(metaStatsDetail), ".xlsx") {
			return detail.WriteXLSX(metaStatsDetail, "topic_counts")
		}
		return detail.WriteTable(metaStatsDetail)
	},
}

func init() {
	metaFilterCmd.Flags().StringVar(&metaFilterCSV, "csv", "", "metadata CSV to filter (required)")
	metaFilterCmd.Flags().StringVar(&metaFilterDir, "dir", "", "folder with transcript .txt files (required)")
	metaFilterCmd.Flags().StringVar(&metaFilterOutCSV, "out", "", "output CSV path (default: overwrite input)")
	_ = metaFilterCmd.MarkFlagRequired("csv")
	_ = metaFilterCmd.MarkFlagRequired("dir")

	metaMergeCmd.Flags().StringVar(&metaMergeTarget, "target", "", "CSV receiving the column (required)")
	metaMergeCmd.Flags().StringVar(&metaMergeSource, "source", "", "CSV providing the column (required)")
	metaMergeCmd.Flags().StringVar(&metaMergeColumn, "column", "interviewer", "column to merge")
	metaMergeCmd.Flags().StringVar(&metaMergeOutCSV, "out", "", "output CSV path (default: overwrite target)")
	_ = metaMergeCmd.MarkFlagRequired("target")
	_ = metaMergeCmd.MarkFlagRequired("source")

	metaSampleCmd.Flags().StringVar(&metaSampleSrc, "src", "", "folder with transcript .txt files (required)")
	metaSampleCmd.Flags().StringVar(&metaSampleDst, "dst", "", "output folder for the sample (required)")
	metaSampleCmd.Flags().IntVar(&metaSampleN, "n", 100, "sample size")
	metaSampleCmd.Flags().Int64Var(&metaSampleSeed, "seed", 42, "random seed")
	_ = metaSampleCmd.MarkFlagRequired("src")
	_ = metaSampleCmd.MarkFlagRequired("dst")

	metaStatsCmd.Flags().StringVar(&metaStatsCSV, "csv", "", "metadata CSV to analyze (required)")
	metaStatsCmd.Flags().StringVar(&metaStatsDetail, "detail", "", "write per-row topic counts (.csv or .xlsx)")
	_ = metaStatsCmd.MarkFlagRequired("csv")

	metaCmd.AddCommand(metaFilterCmd)
	metaCmd.AddCommand(metaMergeCmd)
	metaCmd.AddCommand(metaSampleCmd)
	metaCmd.AddCommand(metaStatsCmd)
	rootCmd.AddCommand(metaCmd)
}
