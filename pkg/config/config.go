package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		// Environment variable overrides, e.g. LECTERN_GENAI_API_KEY
		viper.SetEnvPrefix("LECTERN")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine - defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1<<20)

	viper.SetDefault("database.path", "./data/lectern.db")
	viper.SetDefault("database.max_connections", 100)
	viper.SetDefault("database.max_idle_connections", 10)
	viper.SetDefault("database.connection_max_lifetime", time.Hour)
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.log_queries", false)

	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.poll_interval", 2*time.Second)
	viper.SetDefault("processing.job_max_retries", 3)
	viper.SetDefault("processing.job_retention_days", 30)

	viper.SetDefault("genai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("genai.model", "gpt-4o-mini")
	viper.SetDefault("genai.timeout", 2*time.Minute)
	viper.SetDefault("genai.max_retries", 5)
	viper.SetDefault("genai.base_delay", 5*time.Second)
	viper.SetDefault("genai.generator_version", "v1")

	viper.SetDefault("scoring.completion_threshold", 70.0)

	viper.SetDefault("auth.enabled", false)

	viper.SetDefault("rate_limiting.generate_rps", 2)
	viper.SetDefault("rate_limiting.generate_burst", 5)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		return fmt.Errorf("database path must be configured")
	}

	if err := validateAPIKeys(); err != nil {
		return err
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}

	// Auto-correct retry schedule values
	if viper.GetInt("genai.max_retries") < 0 {
		viper.Set("genai.max_retries", 5)
	}
	if viper.GetDuration("genai.base_delay") <= 0 {
		viper.Set("genai.base_delay", 5*time.Second)
	}

	threshold := viper.GetFloat64("scoring.completion_threshold")
	if threshold <= 0 || threshold > 100 {
		viper.Set("scoring.completion_threshold", 70.0)
	}

	return nil
}

// validateAPIKeys validates that API keys are not using placeholder values
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{
		"YOUR_KEY_HERE",
		"YOUR_API_KEY",
		"changeme",
		"CHANGEME",
		"",
	}

	genaiKey := viper.GetString("genai.api_key")
	for _, placeholder := range placeholders {
		if genaiKey == placeholder {
			if isProduction {
				return fmt.Errorf("invalid generative service API key: cannot use placeholder values in production")
			}
			fmt.Println("Warning: generative service API key is using a placeholder value")
			break
		}
	}

	if viper.GetBool("auth.enabled") {
		jwtSecret := viper.GetString("auth.jwt_secret")
		for _, placeholder := range placeholders {
			if jwtSecret == placeholder {
				if isProduction {
					return fmt.Errorf("invalid JWT secret: cannot use placeholder values in production")
				}
				fmt.Println("Warning: JWT secret is using a placeholder value - this is insecure!")
				break
			}
		}
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path must be configured")
	}

	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}

	if c.GenAI.MaxRetries < 0 {
		c.GenAI.MaxRetries = 5
	}
	if c.GenAI.BaseDelay <= 0 {
		c.GenAI.BaseDelay = 5 * time.Second
	}

	if c.Scoring.CompletionThreshold <= 0 || c.Scoring.CompletionThreshold > 100 {
		c.Scoring.CompletionThreshold = 70.0
	}

	return nil
}
