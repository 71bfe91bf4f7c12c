// Package config loads pipeline configuration: a YAML file layered with
// KIOKUN_-prefixed environment variables (a .env file is honored when
// present).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds every pipeline setting.
type Config struct {
	ChineseSource  string `yaml:"chinese_source" envconfig:"CHINESE_SOURCE"`
	JapaneseSource string `yaml:"japanese_source" envconfig:"JAPANESE_SOURCE"`
	TranslitDB     string `yaml:"translit_db" envconfig:"TRANSLIT_DB"`
	OutputDir      string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	Workers      int `yaml:"workers" envconfig:"WORKERS"`
	WriteRetries int `yaml:"write_retries" envconfig:"WRITE_RETRIES"`

	Shards  ShardsConfig  `yaml:"shards"`
	Logging LoggingConfig `yaml:"logging"`

	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
}

// ShardsConfig holds the bucket counts per Han-character class. Changing
// these invalidates previously published shard locations.
type ShardsConfig struct {
	OneHan   int `yaml:"one_han" envconfig:"SHARDS_ONE_HAN"`
	TwoHan   int `yaml:"two_han" envconfig:"SHARDS_TWO_HAN"`
	MultiHan int `yaml:"multi_han" envconfig:"SHARDS_MULTI_HAN"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Env   string `yaml:"env" envconfig:"LOG_ENV"`
	Level string `yaml:"level" envconfig:"LOG_LEVEL"`
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Load reads the YAML file at path (optional: empty path means defaults
// only), substitutes ${VAR} references, applies KIOKUN_ environment
// overrides, fills defaults, and validates.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		data = envVarPattern.ReplaceAllFunc(data, func(m []byte) []byte {
			name := envVarPattern.FindSubmatch(m)[1]
			return []byte(os.Getenv(string(name)))
		})
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("KIOKUN", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env overrides: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.TranslitDB == "" {
		c.TranslitDB = "translit.db"
	}
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.WriteRetries <= 0 {
		c.WriteRetries = 3
	}
	if c.Shards.OneHan <= 0 {
		c.Shards.OneHan = 2
	}
	if c.Shards.TwoHan <= 0 {
		c.Shards.TwoHan = 3
	}
	if c.Shards.MultiHan <= 0 {
		c.Shards.MultiHan = 3
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Shards.OneHan <= 0 || c.Shards.TwoHan <= 0 || c.Shards.MultiHan <= 0 {
		return fmt.Errorf("shard bucket counts must be positive")
	}
	return nil
}
