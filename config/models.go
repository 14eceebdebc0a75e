package config

// Default values for the resolver and learning loop thresholds. The source of
// truth for what each knob means is the field comment on the struct below.
const (
	DefaultLowConfidence     = 0.60
	DefaultFallbackMatch     = 0.50
	DefaultFallbackAdopted   = 0.75
	DefaultFeedbackLog       = 0.50
	DefaultSuggestionMatch   = 0.70
	DefaultHarvestConfidence = 0.80
	DefaultRetrainDelta      = 50
	DefaultMinPatternLength  = 3
)

// Config holds the configuration of the application
// Use cmd.NewConfig to create a new instance
type Config struct {
	NLP       NLPConfig       `mapstructure:"nlp"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Learning  LearningConfig  `mapstructure:"learning"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Store     StoreConfig     `mapstructure:"store"`
	Server    ServerConfig    `mapstructure:"server"`
	Messenger MessengerConfig `mapstructure:"messenger"`
	Log       LogConfig       `mapstructure:"log"`
	Data      DataConfig      `mapstructure:"data"`
}

// NLPConfig points at the external classifier/trainer server.
type NLPConfig struct {
	ServerURL string `mapstructure:"server_url"`
}

type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// ResolverConfig is the per-turn confidence policy.
type ResolverConfig struct {
	// LowConfidence is the classifier confidence below which the resolver
	// attempts the pattern-matcher fallback.
	LowConfidence float64 `mapstructure:"low_confidence"`
	// FallbackMatch is the minimum pattern overlap score the fallback accepts.
	FallbackMatch float64 `mapstructure:"fallback_match"`
	// FallbackAdopted is the confidence assigned to an adopted fallback match.
	FallbackAdopted float64 `mapstructure:"fallback_adopted"`
}

// LearningConfig tunes the feedback collection and retraining loop.
type LearningConfig struct {
	// FeedbackLog: turns with confidence below this are recorded as
	// correction candidates.
	FeedbackLog float64 `mapstructure:"feedback_log"`
	// SuggestionMatch is the pattern score required before a feedback record
	// gets a suggested intent. Stricter than FallbackMatch so that triage
	// does not reinforce weak guesses.
	SuggestionMatch float64 `mapstructure:"suggestion_match"`
	// HarvestConfidence: turns at or above this are harvested as extra
	// training patterns for their predicted intent.
	HarvestConfidence float64 `mapstructure:"harvest_confidence"`
	// RetrainDelta is the number of newly merged patterns required before a
	// retrain is triggered.
	RetrainDelta int `mapstructure:"retrain_delta"`
	// MinPatternLength is the minimum trimmed length of a merged pattern.
	MinPatternLength int `mapstructure:"min_pattern_length"`
}

type CatalogConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// AdminChatURL receives support escalations. Optional.
	AdminChatURL string `mapstructure:"admin_chat_url"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MessengerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// PageToken is loaded from ENV not config file.
	PageToken   string `mapstructure:"page_token"`
	VerifyToken string `mapstructure:"verify_token"`
	GraphAPIURL string `mapstructure:"graph_api_url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DataConfig struct {
	// PurgeEvery is the interval, in minutes, at which stale session
	// contexts are swept. 0 disables the sweep.
	PurgeEvery int `mapstructure:"purge_every"`
	// SessionTTL is the age, in minutes, past which an idle session context
	// is eligible for purging.
	SessionTTL int `mapstructure:"session_ttl"`
}
