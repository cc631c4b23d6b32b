package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{Watches: []Watch{{URL: "https://example.com/feed", Keyword: "golang"}}}
	cfg.setDefaults()
	return cfg
}

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, VerifyAgainstEmbeddedSchema(validConfig()))
	})

	t.Run("missing required field", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Listen = ""
		err := VerifyAgainstEmbeddedSchema(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.listen is required")
	})

	t.Run("stale schema", func(t *testing.T) {
		schema := `{"$defs": {"Config": {"properties": {"server": {}, "database": {}}}}}`
		err := verifyAgainstSchema(validConfig(), []byte(schema))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema is missing sections [fetch poller sentiment watches]")
	})

	t.Run("no config definition", func(t *testing.T) {
		err := verifyAgainstSchema(validConfig(), []byte(`{"$defs": {}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no Config definition")
	})

	t.Run("broken schema", func(t *testing.T) {
		err := verifyAgainstSchema(validConfig(), []byte(`{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse schema")
	})
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		errMsg string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "no server timeout", modify: func(cfg *Config) { cfg.Server.Timeout = 0 }, errMsg: "server.timeout is required"},
		{name: "no dsn", modify: func(cfg *Config) { cfg.Database.DSN = "" }, errMsg: "database.dsn is required"},
		{name: "no poller interval", modify: func(cfg *Config) { cfg.Poller.Interval = 0 }, errMsg: "poller.interval is required"},
		{name: "no fetch timeout", modify: func(cfg *Config) { cfg.Fetch.Timeout = 0 }, errMsg: "fetch.timeout is required"},
		{
			name: "sentiment enabled without timeout",
			modify: func(cfg *Config) {
				cfg.Sentiment.Enabled = true
				cfg.Sentiment.Timeout = 0
			},
			errMsg: "sentiment.timeout is required when sentiment is enabled",
		},
		{
			name: "sentiment disabled without timeout",
			modify: func(cfg *Config) {
				cfg.Sentiment.Timeout = 0
			},
		},
		{name: "watch without keyword", modify: func(cfg *Config) { cfg.Watches[0].Keyword = "" }, errMsg: "watches[0] requires url and keyword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := validateRequiredFields(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := schema.MarshalJSON()
	require.NoError(t, err)

	var parsed struct {
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Contains(t, parsed.Defs, "Config")
	for _, section := range []string{"server", "database", "poller", "fetch", "sentiment", "watches"} {
		assert.Contains(t, parsed.Defs["Config"].Properties, section)
	}
	require.Contains(t, parsed.Defs, "Watch")
	assert.Contains(t, parsed.Defs["Watch"].Properties, "keyword")
}

func TestEmbeddedSchemaUpToDate(t *testing.T) {
	// reflected sections and embedded sections must match
	require.NoError(t, VerifyAgainstEmbeddedSchema(&Config{
		Server:   ServerConfig{Listen: ":8080", Timeout: time.Second},
		Database: DatabaseConfig{DSN: ":memory:"},
		Poller:   PollerConfig{Interval: time.Second},
		Fetch:    FetchConfig{Timeout: time.Second},
	}))
}
