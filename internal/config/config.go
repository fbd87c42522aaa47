// Package config defines the application configuration surface and its
// loading/validation logic.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"        validate:"required"`
	Tasks     TasksConfig     `mapstructure:"tasks"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Research  ResearchConfig  `mapstructure:"research"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"        validate:"required,gt=0,lt=65536"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development staging production"`
	LogLevel    string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether the server runs in the production environment.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseConfig selects and parameterizes one of the two interchangeable
// storage backends.
type DatabaseConfig struct {
	// Backend selects the storage backend: "postgres" (networked, pooled)
	// or "sqlite" (embedded, serialized through a single connection).
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres sqlite"`

	// URL is the connection string for the postgres backend.
	URL string `mapstructure:"url" validate:"required_if=Backend postgres"`

	// Path is the database file path for the sqlite backend.
	Path string `mapstructure:"path" validate:"required_if=Backend sqlite"`
}

// LLMConfig contains the generative text API settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxSummaryTokens bounds the executive summary generation call.
	MaxSummaryTokens int `mapstructure:"max_summary_tokens" validate:"gte=0"`
}

// TasksConfig identifies the external executor queue and its HTTP callback.
type TasksConfig struct {
	// Enabled controls whether jobs are handed off to Cloud Tasks.
	// When disabled (development default), submitted jobs stay pending until
	// the callback endpoint is invoked manually or via analyze-sync.
	Enabled             bool   `mapstructure:"enabled"`
	ProjectID           string `mapstructure:"project_id"            validate:"required_if=Enabled true"`
	Location            string `mapstructure:"location"              validate:"required_if=Enabled true"`
	Queue               string `mapstructure:"queue"                 validate:"required_if=Enabled true"`
	CallbackURL         string `mapstructure:"callback_url"          validate:"required_if=Enabled true,omitempty,url"`
	ServiceAccountEmail string `mapstructure:"service_account_email" validate:"omitempty,email"`

	// ScheduleDelaySeconds delays task execution so the job row is visible
	// before the executor calls back.
	ScheduleDelaySeconds int `mapstructure:"schedule_delay_seconds" validate:"gte=0"`
}

// SecurityConfig contains access-control and CORS settings.
type SecurityConfig struct {
	// APIKey protects the /api routes. An empty key outside production
	// disables the check for local development.
	APIKey     string `mapstructure:"api_key"`
	CORSOrigin string `mapstructure:"cors_origin" validate:"required"`
}

// RateLimitConfig bounds request volume on the /api routes.
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds" validate:"required,gt=0"`
	MaxRequests   int `mapstructure:"max_requests"   validate:"required,gt=0"`
}

// ResearchConfig bounds the research pipeline's external calls.
type ResearchConfig struct {
	// AspectTimeoutSeconds is the per-aspect research call deadline; a
	// timed-out aspect is substituted with a fallback finding.
	AspectTimeoutSeconds int `mapstructure:"aspect_timeout_seconds" validate:"required,gt=0"`

	// PipelineTimeoutSeconds is the overall deadline for one analyze run.
	PipelineTimeoutSeconds int `mapstructure:"pipeline_timeout_seconds" validate:"required,gt=0"`
}
