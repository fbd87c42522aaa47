package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml file. Environment variables (LANDSCAPE_ prefix, underscores
// for nesting, e.g. LANDSCAPE_DATABASE_BACKEND) take precedence over file
// values. Returns a populated Config or an error aggregating every
// validation violation.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LANDSCAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a startup failure.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration and returns a single error listing
// every violation, so a misconfigured deployment reports all problems at
// once instead of one per restart.
func Validate(cfg *Config) error {
	validate := validator.New()

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf(
			"%s: failed %q constraint", fe.Namespace(), fe.Tag()))
	}

	return fmt.Errorf("configuration errors:\n%s", strings.Join(violations, "\n"))
}

// setDefaults registers a default for every known key. Defaults double as
// env-var bindings: viper only honors AutomaticEnv for keys it knows about.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3700)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.backend", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "./competitive_landscape.db")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_summary_tokens", 300)

	v.SetDefault("tasks.enabled", false)
	v.SetDefault("tasks.project_id", "")
	v.SetDefault("tasks.location", "us-central1")
	v.SetDefault("tasks.queue", "competitive-analysis")
	v.SetDefault("tasks.callback_url", "")
	v.SetDefault("tasks.service_account_email", "")
	v.SetDefault("tasks.schedule_delay_seconds", 2)

	v.SetDefault("security.api_key", "")
	v.SetDefault("security.cors_origin", "http://localhost:3000")

	v.SetDefault("rate_limit.window_seconds", 900)
	v.SetDefault("rate_limit.max_requests", 100)

	v.SetDefault("research.aspect_timeout_seconds", 60)
	v.SetDefault("research.pipeline_timeout_seconds", 300)
}
