package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/adlens/internal/meta"
	"github.com/ignite/adlens/internal/storage"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Meta      meta.Config     `yaml:"meta"`
	LLM       LLMConfig       `yaml:"llm"`
	SES       SESConfig       `yaml:"ses"`
	Export    storage.Config  `yaml:"export"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`

	// BenchmarksPath points at a YAML benchmark table. Empty uses the
	// built-in table.
	BenchmarksPath string `yaml:"benchmarks_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int      `yaml:"port"`
	Host               string   `yaml:"host"`
	BaseURL            string   `yaml:"base_url"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	CronSecret         string   `yaml:"cron_secret"`
	ReadTimeoutSeconds int      `yaml:"read_timeout_seconds"`
	// Report generation fans out to Graph and a model, so writes need headroom.
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
}

// GetHost returns the listen host. In a container it binds all interfaces.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	return c.Host
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds Redis settings. An empty URL disables Redis; locks then
// fall back to PostgreSQL and model responses are not cached.
type RedisConfig struct {
	URL             string `yaml:"url"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// CacheTTL returns the insight cache TTL.
func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// LLMConfig holds Bedrock model settings for insight generation.
type LLMConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Region         string  `yaml:"region"`
	ModelID        string  `yaml:"model_id"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES delivery settings.
type SESConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// Enabled reports whether scheduled reports can be emailed.
func (c SESConfig) Enabled() bool {
	return c.FromEmail != ""
}

// SchedulerConfig holds scheduled report worker settings.
type SchedulerConfig struct {
	Enabled             bool `yaml:"enabled"`
	PollIntervalSeconds int  `yaml:"poll_interval_seconds"`
	BatchSize           int  `yaml:"batch_size"`
	TickTimeoutSeconds  int  `yaml:"tick_timeout_seconds"`
}

func (c SchedulerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c SchedulerConfig) TickTimeout() time.Duration {
	return time.Duration(c.TickTimeoutSeconds) * time.Second
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 120
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 20
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.CacheTTLMinutes == 0 {
		cfg.Redis.CacheTTLMinutes = 24 * 60
	}
	if cfg.LLM.Region == "" {
		cfg.LLM.Region = "us-east-1"
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 30
	}
	if cfg.Meta.MaxRetries == 0 {
		cfg.Meta.MaxRetries = 2
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.SES.FromName == "" {
		cfg.SES.FromName = "Ad Reports"
	}
	if cfg.Export.Type == "s3" && cfg.Export.Region == "" {
		cfg.Export.Region = "us-east-1"
	}
	if cfg.Scheduler.PollIntervalSeconds == 0 {
		cfg.Scheduler.PollIntervalSeconds = 60
	}
	if cfg.Scheduler.BatchSize == 0 {
		cfg.Scheduler.BatchSize = 50
	}
	if cfg.Scheduler.TickTimeoutSeconds == 0 {
		cfg.Scheduler.TickTimeoutSeconds = 600
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads .env (if present), the YAML file at path, and then
// environment overrides. A missing file is not an error; defaults apply.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg, err = Parse(nil)
	}
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")

	setString(&cfg.Meta.BaseURL, "META_BASE_URL")
	setString(&cfg.Meta.APIVersion, "META_API_VERSION")

	setBool(&cfg.LLM.Enabled, "LLM_ENABLED")
	setString(&cfg.LLM.ModelID, "LLM_MODEL_ID")
	setString(&cfg.LLM.Region, "LLM_REGION")

	setString(&cfg.SES.AccessKey, "AWS_SES_ACCESS_KEY")
	setString(&cfg.SES.SecretKey, "AWS_SES_SECRET_KEY")
	setString(&cfg.SES.Region, "AWS_SES_REGION")
	setString(&cfg.SES.FromEmail, "SES_FROM_EMAIL")

	if bucket := os.Getenv("EXPORT_S3_BUCKET"); bucket != "" {
		cfg.Export.Type = "s3"
		cfg.Export.Bucket = bucket
		if cfg.Export.Region == "" {
			cfg.Export.Region = "us-east-1"
		}
	}
	setString(&cfg.BenchmarksPath, "BENCHMARKS_PATH")
	setString(&cfg.Server.CronSecret, "CRON_SECRET")
	setString(&cfg.Server.BaseURL, "APP_BASE_URL")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	setBool(&cfg.Scheduler.Enabled, "SCHEDULER_ENABLED")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
}

// Validate checks settings the server cannot start without.
func (cfg *Config) Validate() error {
	var problems []string
	if cfg.Database.URL == "" {
		problems = append(problems, "database url is required (DATABASE_URL)")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port %d", cfg.Server.Port))
	}
	switch cfg.Export.Type {
	case "", "local", "s3":
	default:
		problems = append(problems, fmt.Sprintf("unknown export type %q", cfg.Export.Type))
	}
	if cfg.Export.Type == "s3" && cfg.Export.Bucket == "" {
		problems = append(problems, "export bucket is required for s3")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
