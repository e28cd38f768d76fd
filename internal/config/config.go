package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Examples struct {
		// Dir holds the files served under /examples/{name}.
		Dir string `yaml:"dir"`
		// URL is fetched by the example source; empty means this server's
		// own /examples/{Default} resource.
		URL     string `yaml:"url"`
		Default string `yaml:"default"`
		TTL     string `yaml:"ttl"`
	} `yaml:"examples"`
	View struct {
		ItemsPerPage int `yaml:"itemsPerPage"`
		NumQuestions int `yaml:"numQuestions"`
	} `yaml:"view"`
}

const (
	DefaultExamplesDir  = "data_example"
	DefaultExampleName  = "questions_example_bloom_level"
	DefaultItemsPerPage = 10
)

// Load reads YAML config from path and fills unset fields with defaults.
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

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Examples.Dir == "" {
		c.Examples.Dir = DefaultExamplesDir
	}
	if c.Examples.Default == "" {
		c.Examples.Default = DefaultExampleName
	}
	if c.View.ItemsPerPage <= 0 {
		c.View.ItemsPerPage = DefaultItemsPerPage
	}
}

// ExampleURL returns the URL the example source should fetch when serving
// on port.
func (c Config) ExampleURL(port string) string {
	if c.Examples.URL != "" {
		return c.Examples.URL
	}
	return "http://localhost:" + port + "/examples/" + c.Examples.Default
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
