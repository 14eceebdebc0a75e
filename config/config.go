package config

import (
	"strings"

	"github.com/tamnhu11204/project-chatbot/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CHATBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	err := viper.BindEnv("messenger.page_token", "CHATBOT_FACEBOOK_PAGE_TOKEN")
	if err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in zero-valued tuning knobs so that a minimal config
// file still yields the documented threshold policy.
func applyDefaults(cfg *Config) {
	if cfg.Resolver.LowConfidence == 0 {
		cfg.Resolver.LowConfidence = DefaultLowConfidence
	}
	if cfg.Resolver.FallbackMatch == 0 {
		cfg.Resolver.FallbackMatch = DefaultFallbackMatch
	}
	if cfg.Resolver.FallbackAdopted == 0 {
		cfg.Resolver.FallbackAdopted = DefaultFallbackAdopted
	}
	if cfg.Learning.FeedbackLog == 0 {
		cfg.Learning.FeedbackLog = DefaultFeedbackLog
	}
	if cfg.Learning.SuggestionMatch == 0 {
		cfg.Learning.SuggestionMatch = DefaultSuggestionMatch
	}
	if cfg.Learning.HarvestConfidence == 0 {
		cfg.Learning.HarvestConfidence = DefaultHarvestConfidence
	}
	if cfg.Learning.RetrainDelta == 0 {
		cfg.Learning.RetrainDelta = DefaultRetrainDelta
	}
	if cfg.Learning.MinPatternLength == 0 {
		cfg.Learning.MinPatternLength = DefaultMinPatternLength
	}
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
