package advisor

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level advisor configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	LLM       LLMConfig       `yaml:"llm"`
	Interregs InterregsConfig `yaml:"interregs"`
	Data      DataConfig      `yaml:"data"`

	// MaxWebsites caps how many catalog sites one query scrapes.
	MaxWebsites int `yaml:"max_websites"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ScrapeConfig configures the hosted scrape API client.
type ScrapeConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig configures the completion endpoint used for website
// selection and answer synthesis.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// InterregsConfig configures the licensed-database backup. Both fields
// empty disables the backup entirely.
type InterregsConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	BaseURL  string `yaml:"base_url"`
}

// DataConfig locates persistent state.
type DataConfig struct {
	LearningCache string `yaml:"learning_cache"`
	QueryLogDB    string `yaml:"query_log_db"`
}

func (c *Config) defaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Scrape.Timeout <= 0 {
		c.Scrape.Timeout = 30 * time.Second
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.Data.LearningCache == "" {
		c.Data.LearningCache = "data/learning_cache.json"
	}
	if c.Data.QueryLogDB == "" {
		c.Data.QueryLogDB = "data/querylog.db"
	}
	if c.MaxWebsites <= 0 {
		c.MaxWebsites = 3
	}
}

// applyEnv lets credentials come from the environment instead of the
// config file. Environment wins over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("FIRECRAWL_API_KEY"); v != "" {
		c.Scrape.APIKey = v
	}
	if v := os.Getenv("CEREBRAS_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("INTERREGS_EMAIL"); v != "" {
		c.Interregs.Email = v
	}
	if v := os.Getenv("INTERREGS_PASSWORD"); v != "" {
		c.Interregs.Password = v
	}
}

// Validate reports fatal configuration problems. Missing scrape or
// model credentials make the core pipeline impossible; missing
// database credentials only disable the backup path.
func (c *Config) Validate() error {
	if c.Scrape.APIKey == "" {
		return errors.New("advisor: scrape API key is not configured (set scrape.api_key or FIRECRAWL_API_KEY)")
	}
	if c.LLM.APIKey == "" {
		return errors.New("advisor: model API key is not configured (set llm.api_key or CEREBRAS_API_KEY)")
	}
	if (c.Interregs.Email == "") != (c.Interregs.Password == "") {
		return errors.New("advisor: interregs email and password must be set together")
	}
	return nil
}

// LoadConfig reads a YAML config file, applies environment overrides
// and defaults. An empty path yields an environment-only config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("advisor: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("advisor: parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.defaults()
	return &cfg, nil
}
