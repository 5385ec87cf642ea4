package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultCandidateModels is the ordered fallback list used for roadmap generation
var DefaultCandidateModels = []string{
	"gemini-flash-latest",
	"gemini-pro-latest",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"text-bison-001",
}

// Supported generative providers
const (
	ProviderGemini    = "gemini"
	ProviderLangChain = "langchain"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		AllowTPORegistration bool   `yaml:"allow_tpo_registration" env:"AUTH_ALLOW_TPO_REGISTRATION"`
		SeedTPOUsername      string `yaml:"seed_tpo_username" env:"AUTH_SEED_TPO_USERNAME"`
		SeedTPOEmail         string `yaml:"seed_tpo_email" env:"AUTH_SEED_TPO_EMAIL"`
		SeedTPOPassword      string `yaml:"seed_tpo_password" env:"AUTH_SEED_TPO_PASSWORD"`
	} `yaml:"auth"`

	GenAI struct {
		Enabled          bool     `yaml:"enabled" env:"GENAI_ENABLED"`
		Provider         string   `yaml:"provider" env:"GENAI_PROVIDER"`
		APIKey           string   `yaml:"api_key" env:"GEMINI_API_KEY"`
		CandidateModels  []string `yaml:"candidate_models" env:"GENAI_CANDIDATE_MODELS"`
		CandidateTimeout string   `yaml:"candidate_timeout" env:"GENAI_CANDIDATE_TIMEOUT"`
	} `yaml:"genai"`

	Tracing struct {
		Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED"`
		ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME"`
		Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
		Insecure    bool    `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
		SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLER_RATIO"`
	} `yaml:"tracing"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"cors"`

	Dashboard struct {
		Port          string `yaml:"port" env:"DASHBOARD_PORT"`
		APIBaseURL    string `yaml:"api_base_url" env:"DASHBOARD_API_BASE_URL"`
		SessionDBPath string `yaml:"session_db_path" env:"DASHBOARD_SESSION_DB_PATH"`
		SessionTTL    string `yaml:"session_ttl" env:"DASHBOARD_SESSION_TTL"`
		CookieSecure  bool   `yaml:"cookie_secure" env:"DASHBOARD_COOKIE_SECURE"`
	} `yaml:"dashboard"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file (when present), a YAML file and
// environment variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8000"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "15s"
	// generation may walk the whole candidate list
	config.Server.WriteTimeout = "5m"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "acroconnect"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "5m"
	config.JWT.RefreshTokenExpiration = "24h"
	config.JWT.Issuer = "acroconnect"

	config.GenAI.Provider = ProviderGemini
	config.GenAI.CandidateModels = append([]string(nil), DefaultCandidateModels...)
	config.GenAI.CandidateTimeout = "30s"

	config.Tracing.ServiceName = "acroconnect-api"
	config.Tracing.SampleRatio = 0.1

	config.CORS.AllowedOrigins = []string{"http://localhost:8501", "http://127.0.0.1:8501"}

	config.Dashboard.Port = "8501"
	config.Dashboard.APIBaseURL = "http://127.0.0.1:8000"
	config.Dashboard.SessionDBPath = "data/dashboard.db"
	config.Dashboard.SessionTTL = "12h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return errors.New("database host is required")
	}

	durations := map[string]string{
		"server read timeout":          config.Server.ReadTimeout,
		"server write timeout":         config.Server.WriteTimeout,
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"JWT refresh token expiration": config.JWT.RefreshTokenExpiration,
		"genai candidate timeout":      config.GenAI.CandidateTimeout,
		"dashboard session ttl":        config.Dashboard.SessionTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.GenAI.Provider {
	case ProviderGemini, ProviderLangChain:
	default:
		return fmt.Errorf("unknown genai provider %q", config.GenAI.Provider)
	}

	if config.GenAI.Enabled && len(config.GenAI.CandidateModels) == 0 {
		return errors.New("genai candidate_models must not be empty when genai is enabled")
	}

	if config.Tracing.SampleRatio < 0 || config.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio must be within [0,1], got %v", config.Tracing.SampleRatio)
	}

	if _, err := url.ParseRequestURI(config.Dashboard.APIBaseURL); err != nil {
		return fmt.Errorf("invalid dashboard api_base_url: %w", err)
	}

	return nil
}

// ValidateAPI checks the settings only the API server needs.
func (c *Config) ValidateAPI() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}
	return nil
}

// GenAIAvailable is the capability flag consulted by the roadmap generator and the
// model listing endpoint.
func (c *Config) GenAIAvailable() bool {
	return c.GenAI.Enabled && strings.TrimSpace(c.GenAI.APIKey) != ""
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
