package config

import "time"

// Config represents the complete bot configuration
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server" json:"server"`
	Bot       BotConfig       `toml:"bot" yaml:"bot" json:"bot"`
	Providers ProvidersConfig `toml:"providers" yaml:"providers" json:"providers"`
	Limits    LimitsConfig    `toml:"limits" yaml:"limits" json:"limits"`
	Database  DatabaseConfig  `toml:"database" yaml:"database" json:"database"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging" json:"logging"`
}

// ServerConfig contains IRC server connection settings
type ServerConfig struct {
	Hostname   string `toml:"hostname" yaml:"hostname" json:"hostname"`
	Port       int    `toml:"port" yaml:"port" json:"port"`
	IPVersion  int    `toml:"ip_version" yaml:"ip_version" json:"ip_version"`
	Encoding   string `toml:"encoding" yaml:"encoding" json:"encoding"`
	Nickname   string `toml:"nickname" yaml:"nickname" json:"nickname"`
	Channel    string `toml:"channel" yaml:"channel" json:"channel"`
	ChannelKey string `toml:"channel_key" yaml:"channel_key" json:"channel_key"`
}

// BotConfig contains bot behavior settings
type BotConfig struct {
	MaxMessageLength int `toml:"max_message_length" yaml:"max_message_length" json:"max_message_length"`
	JokeDelayMS      int `toml:"joke_delay_ms" yaml:"joke_delay_ms" json:"joke_delay_ms"`
}

// ProvidersConfig contains the joke and fact API settings
type ProvidersConfig struct {
	JokeURL                 string `toml:"joke_url" yaml:"joke_url" json:"joke_url"`
	FactURL                 string `toml:"fact_url" yaml:"fact_url" json:"fact_url"`
	FactAPIKey              string `toml:"fact_api_key" yaml:"fact_api_key" json:"fact_api_key"`
	Timeout                 int    `toml:"timeout" yaml:"timeout" json:"timeout"`
	CircuitBreakerThreshold int    `toml:"circuit_breaker_threshold" yaml:"circuit_breaker_threshold" json:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   int    `toml:"circuit_breaker_timeout" yaml:"circuit_breaker_timeout" json:"circuit_breaker_timeout"`
}

// LimitsConfig contains connection retry and nickname settings
type LimitsConfig struct {
	ConnectAttempts int `toml:"connect_attempts" yaml:"connect_attempts" json:"connect_attempts"`
	RetryDelay      int `toml:"retry_delay" yaml:"retry_delay" json:"retry_delay"`
	MaxNickSuffix   int `toml:"max_nick_suffix" yaml:"max_nick_suffix" json:"max_nick_suffix"`
	ConnectTimeout  int `toml:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout"`
}

// DatabaseConfig contains event store settings. An empty path keeps the
// store in memory. RetentionDays 0 keeps events forever.
type DatabaseConfig struct {
	Path            string `toml:"path" yaml:"path" json:"path"`
	RetentionDays   int    `toml:"retention_days" yaml:"retention_days" json:"retention_days"`
	CleanupInterval int    `toml:"cleanup_interval" yaml:"cleanup_interval" json:"cleanup_interval"` // minutes
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	ErrorLog     string `toml:"error_log" yaml:"error_log" json:"error_log"`
	MaxLogSizeMB int    `toml:"max_log_size_mb" yaml:"max_log_size_mb" json:"max_log_size_mb"`
	MaxLogFiles  int    `toml:"max_log_files" yaml:"max_log_files" json:"max_log_files"`
}

// AddressFamily selects IPv4 or IPv6 for the server socket
type AddressFamily int

const (
	IPv4 AddressFamily = 4
	IPv6 AddressFamily = 6
)

// Network returns the net.Dial network name for the family
func (f AddressFamily) Network() string {
	if f == IPv4 {
		return "tcp4"
	}
	return "tcp6"
}

// ConnectionParams is everything a session needs to reach and register with
// the server. It does not change for the lifetime of a session.
type ConnectionParams struct {
	Host       string
	Port       int
	Nickname   string
	Channel    string // without the leading '#'
	ChannelKey string
	Family     AddressFamily
	Encoding   string
}

// ConnectionParams derives the session parameters from the server section
func (c *Config) ConnectionParams() ConnectionParams {
	return ConnectionParams{
		Host:       c.Server.Hostname,
		Port:       c.Server.Port,
		Nickname:   c.Server.Nickname,
		Channel:    c.Server.Channel,
		ChannelKey: c.Server.ChannelKey,
		Family:     AddressFamily(c.Server.IPVersion),
		Encoding:   c.Server.Encoding,
	}
}

// GetJokeDelayDuration returns the pause between setup and punchline
func (c *BotConfig) GetJokeDelayDuration() time.Duration {
	return time.Duration(c.JokeDelayMS) * time.Millisecond
}

// GetTimeoutDuration returns the provider request timeout as a time.Duration
func (c *ProvidersConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetCircuitBreakerTimeoutDuration returns the circuit breaker timeout as a time.Duration
func (c *ProvidersConfig) GetCircuitBreakerTimeoutDuration() time.Duration {
	return time.Duration(c.CircuitBreakerTimeout) * time.Second
}

// GetRetryDelayDuration returns the delay between connection attempts
func (c *LimitsConfig) GetRetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// GetRetentionDuration returns how long events are kept
func (c *DatabaseConfig) GetRetentionDuration() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c *DatabaseConfig) GetCleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Minute
}

// GetConnectTimeoutDuration returns the dial timeout
func (c *LimitsConfig) GetConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}
