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
	Apify  ApifyConfig  `yaml:"apify" mapstructure:"apify"`
	Search SearchConfig `yaml:"search" mapstructure:"search"`
	Filter FilterConfig `yaml:"filter" mapstructure:"filter"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ApifyConfig holds actor API credentials and job settings.
type ApifyConfig struct {
	Token             string `yaml:"token" mapstructure:"token"`
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	SearchActor       string `yaml:"search_actor" mapstructure:"search_actor"`
	ProfileActor      string `yaml:"profile_actor" mapstructure:"profile_actor"`
	PollIntervalSecs  int    `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	WaitTimeoutSecs   int    `yaml:"wait_timeout_secs" mapstructure:"wait_timeout_secs"`
	RequestDelaySecs  int    `yaml:"request_delay_secs" mapstructure:"request_delay_secs"`
}

// SearchConfig bounds topic discovery.
type SearchConfig struct {
	ResultsPerHashtag   int `yaml:"results_per_hashtag" mapstructure:"results_per_hashtag"`
	MaxProfilesPerTopic int `yaml:"max_profiles_per_topic" mapstructure:"max_profiles_per_topic"`
}

// FilterConfig configures the email filter stage.
type FilterConfig struct {
	RequireEmail bool `yaml:"require_email" mapstructure:"require_email"`
}

// ExportConfig configures output files.
type ExportConfig struct {
	Format    string `yaml:"format" mapstructure:"format"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// StoreConfig configures the run-history database. An empty path
// disables persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. The token default registers the key with viper; without
	// it, Unmarshal never sees HARVEST_APIFY_TOKEN because AutomaticEnv
	// alone does not bind keys.
	v.SetDefault("apify.token", "")
	v.SetDefault("apify.base_url", "https://api.apify.com")
	v.SetDefault("apify.search_actor", "clockworks~tiktok-scraper")
	v.SetDefault("apify.profile_actor", "clockworks~tiktok-profile-scraper")
	v.SetDefault("apify.poll_interval_secs", 5)
	v.SetDefault("apify.wait_timeout_secs", 300)
	v.SetDefault("apify.request_delay_secs", 2)
	v.SetDefault("search.results_per_hashtag", 50)
	v.SetDefault("search.max_profiles_per_topic", 20)
	v.SetDefault("filter.require_email", true)
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.output_dir", "./output")
	v.SetDefault("store.path", "harvest.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
