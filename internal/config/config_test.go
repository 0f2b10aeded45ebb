package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "bot.toml", `
[server]
hostname = "irc.example.org"
port = 6697
ip_version = 4
channel = "#lobby"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "irc.example.org", cfg.Server.Hostname)
	assert.Equal(t, 6697, cfg.Server.Port)
	assert.Equal(t, "lobby", cfg.Server.Channel, "leading # is stripped")
	// Untouched keys keep their defaults.
	assert.Equal(t, "LudBot", cfg.Server.Nickname)
	assert.Equal(t, "utf-8", cfg.Server.Encoding)
	assert.Equal(t, 3, cfg.Limits.ConnectAttempts)
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "bot.yaml", "server:\n  hostname: irc.yaml.test\n  nickname: YamlBot\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "irc.yaml.test", cfg.Server.Hostname)
		assert.Equal(t, "YamlBot", cfg.Server.Nickname)
		assert.Equal(t, 6667, cfg.Server.Port)
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "config.json", `{"server": {"hostname": "127.0.0.1", "port": 7000, "channel": "dev"}}`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Hostname)
		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, "dev", cfg.Server.Channel)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := writeFile(t, "bot.ini", "hostname=x")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port too large", "[server]\nport = 70000\n"},
		{"port zero", "[server]\nport = 0\n"},
		{"nickname starts with digit", "[server]\nnickname = \"9bot\"\n"},
		{"nickname with space", "[server]\nnickname = \"lud bot\"\n"},
		{"bad ip version", "[server]\nip_version = 5\n"},
		{"unknown encoding", "[server]\nencoding = \"klingon-8\"\n"},
		{"empty channel", "[server]\nchannel = \"#\"\n"},
		{"zero connect attempts", "[limits]\nconnect_attempts = 0\n"},
		{"negative retention", "[database]\nretention_days = -1\n"},
		{"retention without interval", "[database]\nretention_days = 7\ncleanup_interval = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bot.toml", tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOrCreate_WritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "bot.toml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)

	_, err = os.Stat(path)
	require.NoError(t, err, "default file should exist")

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, reloaded.Server)
	assert.Equal(t, cfg.Limits, reloaded.Limits)
}

func TestOverrides_Precedence(t *testing.T) {
	path := writeFile(t, "bot.toml", "[server]\nhostname = \"file.example\"\nport = 7000\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	host := "flag.example"
	channel := "#flags"
	require.NoError(t, Overrides{Hostname: &host, Channel: &channel}.Apply(cfg))

	assert.Equal(t, "flag.example", cfg.Server.Hostname, "flag beats file")
	assert.Equal(t, 7000, cfg.Server.Port, "file beats default")
	assert.Equal(t, "flags", cfg.Server.Channel)
	assert.Equal(t, "LudBot", cfg.Server.Nickname, "default survives")
}

func TestOverrides_Invalid(t *testing.T) {
	cfg := DefaultConfig()
	port := -1
	assert.Error(t, Overrides{Port: &port}.Apply(cfg))
}

func TestEnvOverrides_FactAPIKey(t *testing.T) {
	t.Setenv(FactAPIKeyEnv, "secret-key")

	path := writeFile(t, "bot.toml", "[providers]\nfact_api_key = \"from-file\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Providers.FactAPIKey)
}

func TestConnectionParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.IPVersion = 4

	p := cfg.ConnectionParams()
	assert.Equal(t, "fc00:1337::17", p.Host)
	assert.Equal(t, 6667, p.Port)
	assert.Equal(t, "global", p.Channel)
	assert.Equal(t, IPv4, p.Family)
	assert.Equal(t, "tcp4", p.Family.Network())
	assert.Equal(t, "tcp6", IPv6.Network())
}
