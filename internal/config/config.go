package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Backend BackendConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// RedisConfig holds the unified redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	// Mode: redis operating mode ("single", "sentinel", "cluster"). Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs: list of redis addresses (host:port), used in every mode.
	// For 'single', the first address of the list wins when non-empty.
	Addrs []string `mapstructure:"addrs"`

	// Addr: alternative single-mode address, used when Addrs is empty.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: redis master name (sentinel mode only).
	MasterName string `mapstructure:"master_name"`
}

// BackendConfig holds the quiz backend API settings.
type BackendConfig struct {
	// BaseURL is the root of the quiz backend (categories, stats, sessions).
	BaseURL string `mapstructure:"base_url"`

	// TimeoutSec bounds every backend call. Defaults to 10.
	TimeoutSec int `mapstructure:"timeout_sec"`
}

// AuthConfig holds login gate settings.
type AuthConfig struct {
	// GoogleClientID is the OAuth client the login widget uses. Empty is a
	// valid deployment: the login surface degrades to guest-only mode.
	GoogleClientID string `mapstructure:"google_client_id"`

	// TokenSecret signs session tokens. Required.
	TokenSecret string `mapstructure:"token_secret"`

	// TokenLifetimeHrs is the session token lifetime in hours. Defaults to 24.
	TokenLifetimeHrs int `mapstructure:"token_lifetime_hrs"`

	// LandingPath is the default post-login destination.
	LandingPath string `mapstructure:"landing_path"`
}

// Load reads configuration from an optional file plus environment variables.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // fresh instance, no global viper state

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 10)
	vip.SetDefault("server.writetimeout", 10)
	vip.SetDefault("backend.timeout_sec", 10)
	vip.SetDefault("auth.token_lifetime_hrs", 24)
	vip.SetDefault("auth.landing_path", "/categories")

	// Bind environment variables explicitly.
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.readtimeout", "SERVER_READ_TIMEOUT")
	vip.BindEnv("server.writetimeout", "SERVER_WRITE_TIMEOUT")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	vip.BindEnv("backend.timeout_sec", "BACKEND_TIMEOUT_SEC")

	vip.BindEnv("auth.google_client_id", "GOOGLE_CLIENT_ID")
	vip.BindEnv("auth.token_secret", "AUTH_TOKEN_SECRET")
	vip.BindEnv("auth.token_lifetime_hrs", "AUTH_TOKEN_LIFETIME_HRS")
	vip.BindEnv("auth.landing_path", "AUTH_LANDING_PATH")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, using environment variables/defaults.", configPath)
			} else {
				log.Printf("Warning: could not read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Redis Addr: %s (mode: %s)", cfg.Redis.Addr, cfg.Redis.Mode)
		log.Printf("Backend Base URL: %s", cfg.Backend.BaseURL)
		log.Printf("Google Client ID Set: %t", cfg.Auth.GoogleClientID != "")
		log.Printf("Token Secret Set: %t", cfg.Auth.TokenSecret != "")
		log.Printf("----------------------------")
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required in config (check BACKEND_BASE_URL env var)")
	}
	if cfg.Auth.TokenSecret == "" {
		return nil, fmt.Errorf("session token secret is required in config (check AUTH_TOKEN_SECRET env var)")
	}

	return &cfg, nil
}
