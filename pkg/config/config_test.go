package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = "environment: test\n"

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.True(t, c.Server.CORS)
	assert.Equal(t, 10.0, c.Astro.DefaultOrb)
	assert.Equal(t, "placidus", c.Astro.HouseSystem)
	assert.Equal(t, "fixture", c.Engine.Type)
	assert.Equal(t, "memory", c.Cache.Type)
	assert.Equal(t, "memory", c.Storage.Type)
	assert.Equal(t, "astro.layout-requests", c.Kafka.RequestTopic)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
}

func TestParseKeepsExplicitZeros(t *testing.T) {
	c, err := Parse([]byte(minimal + "astro:\n  default_orb: 0\nserver:\n  cors: false\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Astro.DefaultOrb)
	assert.False(t, c.Server.CORS)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"missing environment": "engine:\n  type: fixture\n",
		"unknown engine":      minimal + "engine:\n  type: swiss\n",
		"http without url":    minimal + "engine:\n  type: http\n",
		"negative orb":        minimal + "astro:\n  default_orb: -1\n",
		"infinite orb":        minimal + "astro:\n  default_orb: .inf\n",
		"zero sweep":          minimal + "server:\n  rate_limit:\n    sweep_interval: 0s\n",
		"zero refill":         minimal + "server:\n  rate_limit:\n    per_second: 0\n",
		"bad house system":    minimal + "astro:\n  house_system: topocentric\n",
		"bad cache":           minimal + "cache:\n  type: disk\n",
		"bad storage":         minimal + "storage:\n  type: postgres\n",
		"kafka no brokers":    minimal + "kafka:\n  enabled: true\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidateAllowsZeroSweepWhenRateLimitOff(t *testing.T) {
	_, err := Parse([]byte(minimal + "server:\n  rate_limit:\n    enabled: false\n    sweep_interval: 0s\n"))
	assert.NoError(t, err)
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	env := map[string]string{
		"ASTRO_ENGINE":      "http",
		"ASTRO_ENGINE_URL":  "http://ephemeris:9000",
		"ASTRO_DEFAULT_ORB": "6.5",
		"KAFKA_BROKERS":     "k1:9092, k2:9092,",
		"REDIS_ADDR":        "cache",
		"CLICKHOUSE_HOST":   "ch",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "http", c.Engine.Type)
	assert.Equal(t, "http://ephemeris:9000", c.Engine.URL)
	assert.Equal(t, 6.5, c.Astro.DefaultOrb)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "cache", c.Redis.Host)
	assert.Equal(t, "ch", c.ClickHouse.Host)
	assert.NoError(t, c.Validate())
}

func TestLoadWithEnvValidatesAfterOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal+"engine:\n  type: http\n"), 0o600))

	_, err := LoadWithEnv(path)
	require.Error(t, err)

	t.Setenv("ASTRO_ENGINE_URL", "http://localhost:9000")
	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", c.Engine.URL)
}
