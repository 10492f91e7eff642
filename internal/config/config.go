// Package config loads the provisioner's configuration from environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the provisioner configuration, loaded from environment
// variables.
type Config struct {
	// GoodData Cloud endpoint and API token.
	GoodDataHost  string
	GoodDataToken string

	// Snowflake connection parameters used when registering data sources.
	SnowflakeUser      string
	SnowflakePassword  string
	SnowflakeAccount   string
	SnowflakeWarehouse string
	SnowflakeRole      string
	SnowflakePort      int

	ListenAddr string

	// AuthJWTSecret enables bearer-token auth on the API when non-empty.
	AuthJWTSecret string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		GoodDataHost:       os.Getenv("GOODDATA_HOST"),
		GoodDataToken:      os.Getenv("GOODDATA_TOKEN"),
		SnowflakeUser:      os.Getenv("SNOWFLAKE_USER"),
		SnowflakePassword:  os.Getenv("SNOWFLAKE_PASSWORD"),
		SnowflakeAccount:   os.Getenv("SNOWFLAKE_ACCOUNT"),
		SnowflakeWarehouse: os.Getenv("SNOWFLAKE_WAREHOUSE"),
		SnowflakeRole:      os.Getenv("SNOWFLAKE_ROLE"),
		SnowflakePort:      443,
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		AuthJWTSecret:      os.Getenv("AUTH_JWT_SECRET"),
		RateLimitRPS:       50,
		RateLimitBurst:     100,
	}

	if v := os.Getenv("SNOWFLAKE_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SNOWFLAKE_PORT: %w", err)
		}
		cfg.SnowflakePort = n
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var missing []string
	if c.GoodDataHost == "" {
		missing = append(missing, "GOODDATA_HOST")
	}
	if c.GoodDataToken == "" {
		missing = append(missing, "GOODDATA_TOKEN")
	}
	if c.SnowflakeUser == "" {
		missing = append(missing, "SNOWFLAKE_USER")
	}
	if c.SnowflakePassword == "" {
		missing = append(missing, "SNOWFLAKE_PASSWORD")
	}
	if c.SnowflakeAccount == "" {
		missing = append(missing, "SNOWFLAKE_ACCOUNT")
	}
	if c.SnowflakeWarehouse == "" {
		missing = append(missing, "SNOWFLAKE_WAREHOUSE")
	}
	if c.SnowflakeRole == "" {
		missing = append(missing, "SNOWFLAKE_ROLE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.SnowflakePort <= 0 || c.SnowflakePort > 65535 {
		return fmt.Errorf("SNOWFLAKE_PORT must be in (0, 65535], got %d", c.SnowflakePort)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	return nil
}
