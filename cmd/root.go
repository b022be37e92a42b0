package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/config"
	"github.com/oral-history-lab/transcript-cli/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "transcript-cli",
	Short: "Prepare oral-history transcripts for topic modeling",
	Long:  "Converts USHMM interview PDFs to text, strips transcription-service boilerplate, scrapes catalog metadata, runs LLM gender/topic annotation, and manages the metadata CSVs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openStore opens the local cache/checkpoint database and runs
// migrations. Callers own Close.
func openStore(cmd *cobra.Command) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
