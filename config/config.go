package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// RateLimitConfig is a per-client fixed window: Capacity requests per Window.
type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Window   time.Duration `yaml:"window"`
}

type SimulationConfig struct {
	MaxMonths   int `yaml:"max_months"`
	SampleEvery int `yaml:"sample_every"`
}

type AdviceConfig struct {
	APIURL    string        `yaml:"api_url"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
	Debounce  time.Duration `yaml:"debounce"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	// How long a finished advice session stays pollable.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type RedisConfig struct {
	// Empty means the in-memory cache.
	Addr string `yaml:"addr"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Simulation SimulationConfig `yaml:"simulation"`
	Advice     AdviceConfig     `yaml:"advice"`
	Redis      RedisConfig      `yaml:"redis"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Capacity: 30,
			Window:   time.Minute,
		},
		Simulation: SimulationConfig{
			MaxMonths:   360,
			SampleEvery: 6,
		},
		Advice: AdviceConfig{
			APIURL:    "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-4o-mini",
			MaxTokens: 300,
			Timeout:   30 * time.Second,
			Debounce:  2 * time.Second,
			CacheTTL:  24 * time.Hour,

			SessionTTL: time.Hour,
		},
	}
}

// Load reads defaults, then the YAML file at path (if any), then a .env file
// in the working directory, then the environment. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Advice.APIKey = v
	}
	if v := os.Getenv("ADVICE_API_URL"); v != "" {
		cfg.Advice.APIURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Addr = ":" + v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate_limit.capacity and rate_limit.window must be positive")
	}
	if c.Simulation.MaxMonths < 1 || c.Simulation.MaxMonths > 600 {
		return fmt.Errorf("simulation.max_months must be between 1 and 600, got %d", c.Simulation.MaxMonths)
	}
	if c.Simulation.SampleEvery < 1 {
		return errors.New("simulation.sample_every must be positive")
	}
	if c.Advice.Timeout <= 0 {
		return errors.New("advice.timeout must be positive")
	}
	if c.Advice.Debounce < 0 || c.Advice.CacheTTL < 0 {
		return errors.New("advice.debounce and advice.cache_ttl cannot be negative")
	}
	if c.Advice.SessionTTL <= 0 {
		return errors.New("advice.session_ttl must be positive")
	}
	return nil
}

// AdviceEnabled reports whether an API key is configured.
func (c Config) AdviceEnabled() bool {
	return c.Advice.APIKey != ""
}
