package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Scraper struct {
		UserAgent          string        `yaml:"user_agent"`
		RetryAttempts      int           `yaml:"retry_attempts"`
		RequestTimeout     time.Duration `yaml:"request_timeout"`
		RateLimitDelay     time.Duration `yaml:"rate_limit_delay"`
		MinContentChars    int           `yaml:"min_content_chars"`
		SettleDelay        time.Duration `yaml:"settle_delay"`
		BrowserFallback    bool          `yaml:"browser_fallback"`
		HeadlessMode       bool          `yaml:"headless_mode"`
		StealthMode        bool          `yaml:"stealth_mode"`
		UnsupportedDomains []string      `yaml:"unsupported_domains"`
	} `yaml:"scraper"`

	LLM struct {
		Provider    string        `yaml:"provider"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		BaseURL     string        `yaml:"base_url"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float64       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Storage struct {
		DataRoot string `yaml:"data_root"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Scraper.UserAgent = "Mozilla/5.0 (compatible; JobVault/1.0)"
	config.Scraper.RetryAttempts = 3
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.RateLimitDelay = 2 * time.Second
	config.Scraper.MinContentChars = 500
	config.Scraper.SettleDelay = 2 * time.Second
	config.Scraper.BrowserFallback = true
	config.Scraper.HeadlessMode = true
	config.Scraper.StealthMode = true
	config.Scraper.UnsupportedDomains = []string{"linkedin.com"}

	config.LLM.Provider = "openai"
	config.LLM.Model = "gpt-4o"
	config.LLM.MaxTokens = 4000
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 120 * time.Second

	config.Database.URL = "postgres://localhost:5432/jobvault?sslmode=disable"
	config.Storage.DataRoot = "./data"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	// Provider-specific key variables keep .env files compatible with the
	// vendors' own naming.
	if c.LLM.APIKey == "" {
		for _, env := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
			if key := os.Getenv(env); key != "" {
				c.LLM.APIKey = key
				break
			}
		}
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = strings.ToLower(provider)
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		c.LLM.BaseURL = baseURL
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		c.Database.URL = databaseURL
	}

	if dataRoot := os.Getenv("DATA_ROOT"); dataRoot != "" {
		c.Storage.DataRoot = dataRoot
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if retries := os.Getenv("SCRAPER_RETRY_ATTEMPTS"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			c.Scraper.RetryAttempts = n
		}
	}

	if minChars := os.Getenv("SCRAPER_MIN_CONTENT_CHARS"); minChars != "" {
		if n, err := strconv.Atoi(minChars); err == nil {
			c.Scraper.MinContentChars = n
		}
	}

	if delay := os.Getenv("SCRAPER_RATE_LIMIT_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Scraper.RateLimitDelay = d
		}
	}

	if timeout := os.Getenv("SCRAPER_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Scraper.RequestTimeout = d
		}
	}

	if fallback := os.Getenv("SCRAPER_BROWSER_FALLBACK"); fallback != "" {
		c.Scraper.BrowserFallback = fallback == "true" || fallback == "1"
	}
}
