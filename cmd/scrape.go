package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/resilience"
	"github.com/oral-history-lab/transcript-cli/internal/scrape"
	"github.com/oral-history-lab/transcript-cli/pkg/ushmm"
)

var (
	scrapeInDir   string
	scrapeOutCSV  string
	scrapeNoCache bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch USHMM catalog metadata for cleaned transcripts",
	Long:  "Looks up every transcript's RG number in the USHMM collections catalog and writes one metadata row per file. Fetched records are cached locally; failed lookups produce empty rows.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := ushmm.NewClient(
			ushmm.WithBaseURL(cfg.Catalog.BaseURL),
			ushmm.WithUserAgent(cfg.Catalog.UserAgent),
			ushmm.WithRateLimit(cfg.Catalog.RequestsPerSecond),
			ushmm.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.Catalog.TimeoutSecs) * time.Second,
			}),
			ushmm.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.Catalog.MaxRetries}),
		)

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		scraper := &scrape.Scraper{Client: client, Store: st, RefreshCache: scrapeNoCache}

		res, err := scraper.Run(ctx, scrapeInDir, scrapeOutCSV)
		if err != nil {
			return err
		}

		zap.L().Info("scrape complete",
			zap.Int("files", res.Files),
			zap.Int("found", res.Found),
			zap.Int("not_found", res.NotFound),
			zap.Int("failed", res.Failed),
			zap.String("output", scrapeOutCSV),
		)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeInDir, "in", "", "folder with cleaned .txt transcripts (required)")
	scrapeCmd.Flags().StringVar(&scrapeOutCSV, "out", "interview_metadata.csv", "output CSV path")
	scrapeCmd.Flags().BoolVar(&scrapeNoCache, "no-cache", false, "ignore cached catalog records; fresh lookups still update the cache")
	_ = scrapeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(scrapeCmd)
}
