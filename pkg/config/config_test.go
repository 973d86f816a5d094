package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConfigSource struct {
	name     string
	priority int
	loadFunc func(k *koanf.Koanf) error
}

func (m *mockConfigSource) Name() string              { return m.name }
func (m *mockConfigSource) Priority() int             { return m.priority }
func (m *mockConfigSource) Load(k *koanf.Koanf) error { return m.loadFunc(k) }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"KISMET_API_KEY", "KISMET_HOST"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestManager_DefaultsOnly(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.LoadWithSources([]ConfigSource{&DefaultSource{}}))

	assert.Equal(t, DefaultConfig(), m.Get())
	assert.Equal(t, []string{"defaults"}, m.Sources())
}

func TestManager_Precedence(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("kismet:\n  host: http://file:2501\n  api_key: file-key\nlog:\n  level: warn\n"), 0o644))
	t.Setenv("KISMET_API_KEY", "legacy-key")
	t.Setenv("KISMETCAM_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("debug", false, "")
	flags.String("host", "", "")
	require.NoError(t, flags.Parse([]string{"--host", "http://flag:2501/"}))

	m := NewManager()
	require.NoError(t, m.Load(flags, configPath))
	cfg := m.Get()

	assert.Equal(t, "http://flag:2501", cfg.Kismet.Host, "flags win and the trailing slash is trimmed")
	assert.Equal(t, "legacy-key", cfg.Kismet.APIKey, "legacy env overrides the file")
	assert.Equal(t, "error", cfg.Log.Level, "prefixed env overrides the file")
}

func TestManager_DebugFlag(t *testing.T) {
	clearEnv(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("debug", false, "")
	require.NoError(t, flags.Parse([]string{"--debug"}))

	m := NewManager()
	require.NoError(t, m.Load(flags, filepath.Join(t.TempDir(), "none.yaml")))
	assert.Equal(t, "debug", m.Get().Log.Level)
}

func TestManager_EnvDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("KISMETCAM_WATCH_INTERVAL", "45s")
	t.Setenv("KISMETCAM_LOOKUP_RATE", "2.5")
	t.Setenv("KISMETCAM_PROBE_ENABLED", "false")

	m := NewManager()
	require.NoError(t, m.Load(nil, filepath.Join(t.TempDir(), "none.yaml")))
	cfg := m.Get()

	assert.Equal(t, 45*time.Second, cfg.Watch.Interval)
	assert.Equal(t, 2.5, cfg.Lookup.Rate)
	assert.False(t, cfg.Probe.Enabled)
}

func TestLoadWithSources_CustomSource(t *testing.T) {
	custom := &mockConfigSource{
		name:     "custom",
		priority: 15,
		loadFunc: func(k *koanf.Koanf) error {
			return k.Set("metrics.addr", ":9100")
		},
	}

	m := NewManager()
	require.NoError(t, m.LoadWithSources([]ConfigSource{custom, &DefaultSource{}}))
	assert.Equal(t, ":9100", m.Get().Metrics.Addr)
	assert.Equal(t, []string{"defaults", "custom"}, m.Sources())
}

func TestLoadWithSources_SourceError(t *testing.T) {
	failing := &mockConfigSource{
		name:     "broken",
		priority: 15,
		loadFunc: func(*koanf.Koanf) error { return errors.New("boom") },
	}

	m := NewManager()
	err := m.LoadWithSources([]ConfigSource{&DefaultSource{}, failing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config source broken")
}

func TestLoadWithSources_InvalidKeepsPrevious(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.LoadWithSources([]ConfigSource{&DefaultSource{}}))

	bad := &mockConfigSource{
		name:     "bad",
		priority: 15,
		loadFunc: func(k *koanf.Koanf) error {
			_ = k.Set("log.format", "xml")
			return k.Set("lookup.rate", 0)
		},
	}
	err := m.LoadWithSources([]ConfigSource{&DefaultSource{}, bad})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), `log.format failed "oneof"`)
	assert.Contains(t, verr.Error(), `lookup.rate failed "gt"`)
	assert.Equal(t, "text", m.Get().Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"missing host", func(c *Config) { c.Kismet.Host = "" }, "kismet.host"},
		{"host not a url", func(c *Config) { c.Kismet.Host = "not a url" }, "kismet.host"},
		{"zero timeout", func(c *Config) { c.Kismet.StatusTimeout = 0 }, "kismet.status_timeout"},
		{"negative watch", func(c *Config) { c.Watch.Interval = -time.Second }, "watch.interval"},
		{"metrics port only", func(c *Config) { c.Metrics.Addr = ":9100" }, ""},
		{"metrics without port", func(c *Config) { c.Metrics.Addr = "localhost" }, "metrics.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDefaultConfigAsMap_CoversConfig(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, (&DefaultSource{}).Load(k))

	var cfg Config
	require.NoError(t, k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)

	for _, name := range []string{"debug", "log-format", "catalog"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
}
