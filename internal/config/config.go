package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config/bot.toml"

	// FactAPIKeyEnv overrides providers.fact_api_key when set
	FactAPIKeyEnv = "LUDBOT_FACT_API_KEY"
)

var nicknamePattern = regexp.MustCompile("^[A-Za-z\\[\\]\\\\`_^{|}][A-Za-z0-9\\[\\]\\\\`_^{|}-]{0,29}$")

// DefaultPath returns the configuration path used when none is given
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the configuration file at path on top of the defaults.
// The format is picked from the extension: .toml, .yaml/.yml or .json.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found at %s", path)
	}

	cfg := DefaultConfig()
	if err := decodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrCreate attempts to load the configuration file, and if it doesn't exist,
// creates a default configuration file and returns the default config.
func LoadOrCreate(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Configuration file not found. Creating default configuration at %s\n", path)

		cfg := DefaultConfig()
		if err := CreateDefault(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default configuration: %w", err)
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	return Load(path)
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.DecodeFile(path, cfg)
		return err
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return yaml.Unmarshal(data, cfg)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}
}

// CreateDefault writes cfg as TOML to path, creating parent directories
func CreateDefault(path string, cfg *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Hostname:  "fc00:1337::17",
			Port:      6667,
			IPVersion: 6,
			Encoding:  "utf-8",
			Nickname:  "LudBot",
			Channel:   "global",
		},
		Bot: BotConfig{
			MaxMessageLength: 400,
			JokeDelayMS:      1000,
		},
		Providers: ProvidersConfig{
			JokeURL:                 "https://official-joke-api.appspot.com/jokes/programming/random",
			FactURL:                 "https://api.api-ninjas.com/v1/facts?limit=1",
			Timeout:                 10,
			CircuitBreakerThreshold: 5,
			CircuitBreakerTimeout:   30,
		},
		Limits: LimitsConfig{
			ConnectAttempts: 3,
			RetryDelay:      5,
			MaxNickSuffix:   99,
			ConnectTimeout:  10,
		},
		Database: DatabaseConfig{
			RetentionDays:   30,
			CleanupInterval: 60,
		},
		Logging: LoggingConfig{
			ErrorLog:     "data/error.log",
			MaxLogSizeMB: 10,
			MaxLogFiles:  5,
		},
	}
}

// Overrides holds command-line values. Nil fields were not given and leave
// the loaded configuration untouched.
type Overrides struct {
	Hostname  *string
	Port      *int
	Nickname  *string
	Channel   *string
	IPVersion *int
	Encoding  *string
}

// Apply copies every set override into cfg and re-validates it
func (o Overrides) Apply(cfg *Config) error {
	if o.Hostname != nil {
		cfg.Server.Hostname = *o.Hostname
	}
	if o.Port != nil {
		cfg.Server.Port = *o.Port
	}
	if o.Nickname != nil {
		cfg.Server.Nickname = *o.Nickname
	}
	if o.Channel != nil {
		cfg.Server.Channel = *o.Channel
	}
	if o.IPVersion != nil {
		cfg.Server.IPVersion = *o.IPVersion
	}
	if o.Encoding != nil {
		cfg.Server.Encoding = *o.Encoding
	}

	cfg.normalize()
	return validate(cfg)
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv(FactAPIKeyEnv); key != "" {
		c.Providers.FactAPIKey = key
	}
}

func (c *Config) normalize() {
	c.Server.Hostname = strings.TrimSpace(c.Server.Hostname)
	c.Server.Channel = strings.TrimPrefix(strings.TrimSpace(c.Server.Channel), "#")
}

// validate checks that all required configuration fields are present and valid
func validate(cfg *Config) error {
	if cfg.Server.Hostname == "" {
		return fmt.Errorf("server.hostname is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if !nicknamePattern.MatchString(cfg.Server.Nickname) {
		return fmt.Errorf("server.nickname %q is not a valid IRC nickname", cfg.Server.Nickname)
	}
	if cfg.Server.Channel == "" {
		return fmt.Errorf("server.channel is required")
	}
	if strings.ContainsAny(cfg.Server.Channel, " ,\a") {
		return fmt.Errorf("server.channel %q contains characters not allowed in a channel name", cfg.Server.Channel)
	}
	if cfg.Server.IPVersion != int(IPv4) && cfg.Server.IPVersion != int(IPv6) {
		return fmt.Errorf("server.ip_version must be 4 or 6, got %d", cfg.Server.IPVersion)
	}
	if _, err := htmlindex.Get(cfg.Server.Encoding); err != nil {
		return fmt.Errorf("server.encoding %q is not a known text encoding", cfg.Server.Encoding)
	}

	if cfg.Bot.MaxMessageLength <= 0 {
		return fmt.Errorf("bot.max_message_length must be positive, got %d", cfg.Bot.MaxMessageLength)
	}
	if cfg.Bot.JokeDelayMS < 0 {
		return fmt.Errorf("bot.joke_delay_ms must be non-negative, got %d", cfg.Bot.JokeDelayMS)
	}

	if cfg.Providers.JokeURL == "" {
		return fmt.Errorf("providers.joke_url is required")
	}
	if cfg.Providers.FactURL == "" {
		return fmt.Errorf("providers.fact_url is required")
	}
	if cfg.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive, got %d", cfg.Providers.Timeout)
	}
	if cfg.Providers.CircuitBreakerThreshold <= 0 {
		return fmt.Errorf("providers.circuit_breaker_threshold must be positive, got %d", cfg.Providers.CircuitBreakerThreshold)
	}
	if cfg.Providers.CircuitBreakerTimeout <= 0 {
		return fmt.Errorf("providers.circuit_breaker_timeout must be positive, got %d", cfg.Providers.CircuitBreakerTimeout)
	}

	if cfg.Limits.ConnectAttempts <= 0 {
		return fmt.Errorf("limits.connect_attempts must be positive, got %d", cfg.Limits.ConnectAttempts)
	}
	if cfg.Limits.RetryDelay < 0 {
		return fmt.Errorf("limits.retry_delay must be non-negative, got %d", cfg.Limits.RetryDelay)
	}
	if cfg.Limits.MaxNickSuffix <= 0 {
		return fmt.Errorf("limits.max_nick_suffix must be positive, got %d", cfg.Limits.MaxNickSuffix)
	}
	if cfg.Limits.ConnectTimeout <= 0 {
		return fmt.Errorf("limits.connect_timeout must be positive, got %d", cfg.Limits.ConnectTimeout)
	}

	if cfg.Database.RetentionDays < 0 {
		return fmt.Errorf("database.retention_days must be non-negative, got %d", cfg.Database.RetentionDays)
	}
	if cfg.Database.RetentionDays > 0 && cfg.Database.CleanupInterval <= 0 {
		return fmt.Errorf("database.cleanup_interval must be positive when retention is enabled, got %d", cfg.Database.CleanupInterval)
	}

	if cfg.Logging.ErrorLog == "" {
		return fmt.Errorf("logging.error_log is required")
	}
	if cfg.Logging.MaxLogSizeMB <= 0 {
		return fmt.Errorf("logging.max_log_size_mb must be positive, got %d", cfg.Logging.MaxLogSizeMB)
	}
	if cfg.Logging.MaxLogFiles <= 0 {
		return fmt.Errorf("logging.max_log_files must be positive, got %d", cfg.Logging.MaxLogFiles)
	}

	return nil
}
