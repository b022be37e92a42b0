package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/annotate"
	"github.com/oral-history-lab/transcript-cli/internal/cost"
	"github.com/oral-history-lab/transcript-cli/pkg/anthropic"
)

var (
	genderMetaCSV string
	genderTxtDir  string
	genderOutCSV  string

	topicsTxtDir string
	topicsOutCSV string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "LLM annotation of cleaned transcripts",
}

var annotateGenderCmd = &cobra.Command{
	Use:   "gender",
	Short: "Classify interviewee gender by majority vote",
	Long:  "Reads the interview opening of each transcript, asks Claude for a one-word gender answer several times, and records the majority vote with a confidence ratio. Resumes from an existing output CSV.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := anthropicClient()
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		annotator := &annotate.GenderAnnotator{Client: client, Store: st, Cfg: cfg.Annotate}
		res, err := annotator.Run(ctx, genderMetaCSV, genderTxtDir, genderOutCSV)
		if err != nil {
			return err
		}

		zap.L().Info("gender annotation summary",
			zap.Int("total", res.Total),
			zap.Int("reused", res.Reused),
			zap.Int("male", res.Male),
			zap.Int("female", res.Female),
			zap.Int("unknown", res.Unknown),
			zap.Int("high_confidence", res.HighConfidence),
			zap.Float64("estimated_cost_usd", costCalc().Claude(cfg.Annotate.Model, false, res.Usage)),
		)
		return nil
	},
}

var annotateTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Extract topic categories and speaker structure per transcript",
	Long:  "Splits each transcript into overlapping word chunks, classifies topics, gender and speaker structure per chunk, and aggregates one summary row per file with per-category frequency columns.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := anthropicClient()
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		annotator := &annotate.TopicsAnnotator{Client: client, Store: st, Cfg: cfg.Annotate}
		res, err := annotator.Run(ctx, topicsTxtDir, topicsOutCSV)
		if err != nil {
			return err
		}

		zap.L().Info("topic annotation summary",
			zap.Int("files", res.Files),
			zap.Int("reused", res.Reused),
			zap.Int("chunks", res.Chunks),
			zap.Int("requests", res.Requests),
			zap.Bool("batched", res.Batched),
			zap.Float64("estimated_cost_usd", costCalc().Claude(cfg.Annotate.Model, res.Batched, res.Usage)),
		)
		return nil
	},
}

func costCalc() *cost.Calculator {
	return cost.NewCalculator(cost.DefaultRates())
}

func anthropicClient() (anthropic.Client, error) {
	if cfg.Annotate.AnthropicKey == "" {
		return nil, eris.New("anthropic API key is required (TRANSCRIPT_ANNOTATE_ANTHROPIC_KEY)")
	}
	return anthropic.NewClient(cfg.Annotate.AnthropicKey), nil
}

func init() {
	annotateGenderCmd.Flags().StringVar(&genderMetaCSV, "metadata", "", "scrape CSV with interviewee names (required)")
	annotateGenderCmd.Flags().StringVar(&genderTxtDir, "in", "", "folder with cleaned .txt transcripts (required)")
	annotateGenderCmd.Flags().StringVar(&genderOutCSV, "out", "gender_predictions.csv", "output CSV path")
	_ = annotateGenderCmd.MarkFlagRequired("metadata")
	_ = annotateGenderCmd.MarkFlagRequired("in")

	annotateTopicsCmd.Flags().StringVar(&topicsTxtDir, "in", "", "folder with cleaned .txt transcripts (required)")
	annotateTopicsCmd.Flags().StringVar(&topicsOutCSV, "out", "topic_summaries.csv", "output CSV path")
	_ = annotateTopicsCmd.MarkFlagRequired("in")

	annotateCmd.AddCommand(annotateGenderCmd)
	annotateCmd.AddCommand(annotateTopicsCmd)
	rootCmd.AddCommand(annotateCmd)
}
