// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	GenAI     GenAIConfig             `mapstructure:"genai"`
	Pipeline  PipelineConfig          `mapstructure:"pipeline"`
	Artifacts ArtifactsConfig         `mapstructure:"artifacts"`
	Registry  RegistryConfig          `mapstructure:"registry"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Server    ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`

	// ConnMaxLifetime is in milliseconds; zero keeps connections for five minutes.
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

// GenAIConfig selects the generative backend and the model used for each stage.
// Models overrides the profile per stage: conversation, grounding, image,
// video, analysis.
type GenAIConfig struct {
	APIKey  string            `mapstructure:"api_key"`
	Profile string            `mapstructure:"profile"` // quality | fast
	Models  map[string]string `mapstructure:"models"`
	Timeout int               `mapstructure:"timeout"` // milliseconds, per outbound call
}

// PipelineConfig holds stage policies and the video polling settings.
type PipelineConfig struct {
	SkipGrounding      bool    `mapstructure:"skip_grounding"`
	GroundingPolicy    string  `mapstructure:"grounding_policy"`   // best_effort | fatal
	ConceptArtPolicy   string  `mapstructure:"concept_art_policy"` // best_effort | fatal
	ConceptArtSizeTier string  `mapstructure:"concept_art_size_tier"`
	PollInterval       int     `mapstructure:"poll_interval"`     // milliseconds
	PollMaxAttempts    int     `mapstructure:"poll_max_attempts"` // 0 = unbounded
	VideoResolution    string  `mapstructure:"video_resolution"`
	VideoAspectRatio   string  `mapstructure:"video_aspect_ratio"`
	VideoCount         int     `mapstructure:"video_count"`
	ConversationTemp   float64 `mapstructure:"conversation_temperature"`
}

// ArtifactsConfig configures the Redis hand-off store used between workflow tasks.
type ArtifactsConfig struct {
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// RegistryConfig points at an activity registry file. Empty uses the
// built-in registry.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
