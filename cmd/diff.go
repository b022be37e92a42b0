package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/diffreport"
)

var (
	diffLeftDir  string
	diffRightDir string
	diffOutDir   string
	diffContext  int
	diffNames    []string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Side-by-side HTML diffs of pre- and post-clean transcripts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := diffreport.Generate(diffLeftDir, diffRightDir, diffOutDir, diffreport.Options{
			Context: diffContext,
			Names:   diffNames,
		})
		if err != nil {
			return err
		}

		zap.L().Info("diff complete",
			zap.Int("compared", res.Compared),
			zap.Int("skipped", res.Skipped),
			zap.String("index", res.Index),
		)
		return nil
	},
}

var diffServePort int

var diffServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a generated diff report over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := diffServePort
		if port == 0 {
			port = cfg.Report.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: diffreport.Handler(diffOutDir),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down report server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("serving diff report",
			zap.String("dir", diffOutDir),
			zap.Int("port", port),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "report server listen")
		}
		return nil
	},
}

func init() {
	diffCmd.PersistentFlags().StringVar(&diffOutDir, "report", "docs-diffs", "report output folder")

	diffCmd.Flags().StringVar(&diffLeftDir, "left", "", "folder with pre-clean transcripts (required)")
	diffCmd.Flags().StringVar(&diffRightDir, "right", "", "folder with post-clean transcripts (required)")
	diffCmd.Flags().IntVar(&diffContext, "context", 3, "context lines around changes")
	diffCmd.Flags().StringSliceVar(&diffNames, "names", nil, "explicit filenames to compare")
	_ = diffCmd.MarkFlagRequired("left")
	_ = diffCmd.MarkFlagRequired("right")

	diffServeCmd.Flags().IntVar(&diffServePort, "port", 0, "server port (default from config)")

	diffCmd.AddCommand(diffServeCmd)
	rootCmd.AddCommand(diffCmd)
}
