package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Convert  ConvertConfig  `yaml:"convert" mapstructure:"convert"`
	Clean    CleanConfig    `yaml:"clean" mapstructure:"clean"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Annotate AnnotateConfig `yaml:"annotate" mapstructure:"annotate"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the local cache/checkpoint database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ConvertConfig configures PDF text extraction.
type ConvertConfig struct {
	Extractor     string `yaml:"extractor" mapstructure:"extractor"` // "pdftotext" or "native"
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	Workers       int    `yaml:"workers" mapstructure:"workers"`
}

// CleanConfig configures the transcript cleaning pipeline.
type CleanConfig struct {
	HeaderCutoffLines int `yaml:"header_cutoff_lines" mapstructure:"header_cutoff_lines"`
	HeaderLookahead   int `yaml:"header_lookahead" mapstructure:"header_lookahead"`
	Workers           int `yaml:"workers" mapstructure:"workers"`
}

// CatalogConfig configures the USHMM collections catalog client.
type CatalogConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// AnnotateConfig configures the LLM annotation commands.
type AnnotateConfig struct {
	AnthropicKey    string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	Model           string `yaml:"model" mapstructure:"model"`
	SnippetLines    int    `yaml:"snippet_lines" mapstructure:"snippet_lines"`
	VoteQueries     int    `yaml:"vote_queries" mapstructure:"vote_queries"`
	CheckpointEvery int    `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	ChunkWords      int    `yaml:"chunk_words" mapstructure:"chunk_words"`
	ChunkOverlap    int    `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	BatchThreshold  int    `yaml:"batch_threshold" mapstructure:"batch_threshold"`
	MaxConcurrency  int    `yaml:"max_concurrency" mapstructure:"max_concurrency"`
}

// ReportConfig configures the diff report server.
type ReportConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRANSCRIPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "transcript-cli.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("convert.extractor", "pdftotext")
	v.SetDefault("convert.pdftotext_path", "pdftotext")
	v.SetDefault("convert.workers", 4)
	v.SetDefault("clean.header_cutoff_lines", 50)
	v.SetDefault("clean.header_lookahead", 4)
	v.SetDefault("clean.workers", 4)
	v.SetDefault("catalog.base_url", "https://collections.ushmm.org")
	v.SetDefault("catalog.user_agent", "transcript-cli (oral-history-lab)")
	v.SetDefault("catalog.requests_per_second", 2.0)
	v.SetDefault("catalog.timeout_secs", 30)
	v.SetDefault("catalog.max_retries", 3)
	v.SetDefault("annotate.model", "claude-haiku-4-5-20251001")
	v.SetDefault("annotate.snippet_lines", 20)
	v.SetDefault("annotate.vote_queries", 3)
	v.SetDefault("annotate.checkpoint_every", 50)
	v.SetDefault("annotate.chunk_words", 1000)
	v.SetDefault("annotate.chunk_overlap", 200)
	v.SetDefault("annotate.batch_threshold", 15)
	v.SetDefault("annotate.max_concurrency", 8)
	v.SetDefault("report.port", 8080)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
