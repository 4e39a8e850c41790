package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
	SourceStatic   = "static"

	DefaultBaseURL  = "https://quizapi.io/api/v1"
	DefaultExchange = "quizbot.events"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	QuestionBank struct {
		Source  string `yaml:"source"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Timeout string `yaml:"timeout"`
	} `yaml:"question_bank"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
}

// Load reads YAML config from path and applies defaults and env overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.QuestionBank.Source == "" {
		c.QuestionBank.Source = SourceHTTP
	}
	if c.QuestionBank.BaseURL == "" {
		c.QuestionBank.BaseURL = DefaultBaseURL
	}
	if key := os.Getenv("QUIZ_API_KEY"); key != "" {
		c.QuestionBank.APIKey = key
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = DefaultExchange
	}
}

// Origins returns the configured CORS origins, or the local dev server when none are set.
func (c Config) Origins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{"http://localhost:4200", "https://localhost:4200"}
	}
	return c.Server.AllowedOrigins
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
