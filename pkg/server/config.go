package server

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration for the Gong MCP server.
type Config struct {
	HTTPMode bool
	HTTPAddr string

	// DatabaseMode loads the operation catalog from Postgres instead of
	// the embedded API description.
	DatabaseMode bool
	DatabaseURL  string

	// SpecFile overrides the embedded Gong API description.
	SpecFile string

	// BaseURL overrides the server URL declared in the API description.
	BaseURL string

	RequestTimeout time.Duration
}

// fileConfig is the optional YAML config file shape. Environment variables
// take precedence over file values.
type fileConfig struct {
	HTTPAddr              string `yaml:"http_addr"`
	BaseURL               string `yaml:"base_url"`
	SpecFile              string `yaml:"spec_file"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// LoadConfig builds configuration from an optional YAML file, environment
// variables, and command line arguments, in increasing precedence.
func LoadConfig(args []string) (*Config, error) {
	config := &Config{
		RequestTimeout: 120 * time.Second,
	}

	configPath := os.Getenv("CONFIG_FILE")
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
		}
	}
	if configPath != "" {
		if err := applyConfigFile(config, configPath); err != nil {
			return nil, err
		}
	}

	if baseURL := os.Getenv("GONG_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}
	if specFile := os.Getenv("GONG_SPEC_FILE"); specFile != "" {
		config.SpecFile = specFile
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.DatabaseMode = true
		config.DatabaseURL = dbURL
		log.Println("Database mode enabled")
	}

	for i, arg := range args {
		if arg == "--http" {
			config.HTTPMode = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				config.HTTPAddr = args[i+1]
			}
		}
	}
	if config.HTTPMode && config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}

	return config, nil
}

func applyConfigFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file %s: %v", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid config file %s: %v", path, err)
	}

	if fc.HTTPAddr != "" {
		config.HTTPMode = true
		config.HTTPAddr = fc.HTTPAddr
	}
	if fc.BaseURL != "" {
		config.BaseURL = fc.BaseURL
	}
	if fc.SpecFile != "" {
		config.SpecFile = fc.SpecFile
	}
	if fc.RequestTimeoutSeconds > 0 {
		config.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
	}
	return nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.DatabaseMode && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for database mode")
	}
	if c.HTTPMode && c.HTTPAddr == "" {
		return fmt.Errorf("HTTP mode requires a listen address")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}

// LogConfiguration logs the effective configuration with secrets masked.
func (c *Config) LogConfiguration() {
	if c.DatabaseMode {
		log.Printf("Catalog source: database (%s)", maskSensitive(c.DatabaseURL))
	} else if c.SpecFile != "" {
		log.Printf("Catalog source: spec file %s", c.SpecFile)
	} else {
		log.Println("Catalog source: embedded Gong API description")
	}
	if c.BaseURL != "" {
		log.Printf("Base URL override: %s", c.BaseURL)
	}
	if c.HTTPMode {
		log.Printf("HTTP server will start on %s", c.HTTPAddr)
	} else {
		log.Println("Serving MCP over stdio")
	}
}

// maskSensitive masks credential-bearing parts of URLs for logging.
func maskSensitive(url string) string {
	if len(url) > 20 {
		return url[:8] + "***" + url[len(url)-8:]
	}
	return "***"
}
