package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"AstroCore/internal/domain/models"
	"AstroCore/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		CORS            bool          `yaml:"cors" default:"true"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"500ms"`
		RateLimit       struct {
			Enabled bool          `yaml:"enabled" default:"true"`
			Burst   float64       `yaml:"burst" default:"20"`
			PerSec  float64       `yaml:"per_second" default:"10"`
			MaxIdle time.Duration `yaml:"max_idle" default:"10m"`
			Sweep   time.Duration `yaml:"sweep_interval" default:"1m"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logger struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		TimeFormat string `yaml:"time_format"`
		Digest     struct {
			Enabled   bool          `yaml:"enabled"`
			Topic     string        `yaml:"topic" default:"astro.log-digest"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			MaxUnique int           `yaml:"max_unique" default:"100"`
		} `yaml:"digest"`
	} `yaml:"logger"`
	Astro struct {
		DefaultOrb  float64 `yaml:"default_orb" default:"10"`
		HouseSystem string  `yaml:"house_system" default:"placidus"`
	} `yaml:"astro"`
	Engine struct {
		Type        string        `yaml:"type" default:"fixture"` // http or fixture
		URL         string        `yaml:"url"`
		Timeout     time.Duration `yaml:"timeout" default:"3s"`
		Retries     int           `yaml:"retries" default:"2"`
		FixturePath string        `yaml:"fixture_path" default:"config/fixture.yaml"`
		Reentrant   bool          `yaml:"reentrant" default:"true"`
	} `yaml:"engine"`
	Cache struct {
		Type          string        `yaml:"type" default:"memory"` // none, memory, redis, layered
		TTL           time.Duration `yaml:"ttl" default:"1h"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"10000"`
	} `yaml:"cache"`
	Redis struct {
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size" default:"10"`
		Prefix   string `yaml:"prefix" default:"astro"`
	} `yaml:"redis"`
	Storage struct {
		Type string `yaml:"type" default:"memory"` // memory or clickhouse
	} `yaml:"storage"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		AspectTopic  string   `yaml:"aspect_topic" default:"astro.aspects"`
		LayoutTopic  string   `yaml:"layout_topic" default:"astro.layouts"`
		RequestTopic string   `yaml:"requests_topic" default:"astro.layout-requests"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"astrocore"`
			Workers    int           `yaml:"workers" default:"4"`
			BufferSize int           `yaml:"buffer_size" default:"64"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic" default:"astro.layout-requests.dlq"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"astro"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		Compress         bool          `yaml:"compress" default:"true"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxOpenConns     int           `yaml:"max_open_conns" default:"10"`
		MaxIdleConns     int           `yaml:"max_idle_conns" default:"5"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse is Load without the file read.
func Parse(b []byte) (*Config, error) {
	c, err := parse(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Validation runs after the overrides.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := parse(b)
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// parse applies struct defaults first so that keys present in the file,
// including explicit zeros, win.
func parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("ASTRO_ENGINE"); v != "" {
		c.Engine.Type = v
	}
	if v := getenv("ASTRO_ENGINE_URL"); v != "" {
		c.Engine.URL = v
	}
	if v := getenv("ASTRO_DEFAULT_ORB"); v != "" {
		c.Astro.DefaultOrb = util.ParseFloatDefault(v, c.Astro.DefaultOrb)
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitList(v)
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Host = v
	}
	if v := getenv("REDIS_PORT"); v != "" {
		c.Redis.Port = util.ParseIntDefault(v, c.Redis.Port)
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Engine.Type {
	case "http":
		if c.Engine.URL == "" {
			return fmt.Errorf("engine.url is required for the http engine")
		}
	case "fixture":
		if c.Engine.FixturePath == "" {
			return fmt.Errorf("engine.fixture_path is required for the fixture engine")
		}
	default:
		return fmt.Errorf("engine.type must be 'http' or 'fixture', got '%s'", c.Engine.Type)
	}
	if c.Astro.DefaultOrb < 0 || math.IsNaN(c.Astro.DefaultOrb) || math.IsInf(c.Astro.DefaultOrb, 0) {
		return fmt.Errorf("astro.default_orb must be a finite non-negative number, got %v", c.Astro.DefaultOrb)
	}
	if _, err := models.ParseHouseSystem(c.Astro.HouseSystem); err != nil {
		return fmt.Errorf("astro.house_system: %w", err)
	}
	switch c.Cache.Type {
	case "none", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.type must be one of none, memory, redis, layered, got '%s'", c.Cache.Type)
	}
	switch c.Storage.Type {
	case "memory", "clickhouse":
	default:
		return fmt.Errorf("storage.type must be 'memory' or 'clickhouse', got '%s'", c.Storage.Type)
	}
	if rl := c.Server.RateLimit; rl.Enabled {
		if rl.Sweep <= 0 {
			return fmt.Errorf("server.rate_limit.sweep_interval must be positive, got %v", rl.Sweep)
		}
		if !(rl.PerSec > 0) || math.IsInf(rl.PerSec, 0) {
			return fmt.Errorf("server.rate_limit.per_second must be positive, got %v", rl.PerSec)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
