package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the event generator service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"EVTGEN_HTTP_PORT" envDefault:"8080"`
	GRPCPort int    `env:"EVTGEN_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis configuration
	Redis RedisConfig

	// Engine configuration
	Engine EngineConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	// Enabled switches the scenario store and log sink to Redis;
	// when false the in-memory adapters are used.
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Event stream settings
	EventStream       string `env:"REDIS_EVENT_STREAM" envDefault:"evtgen:events"`
	EventStreamMaxLen int64  `env:"REDIS_EVENT_STREAM_MAXLEN" envDefault:"100000"`

	// Scenario retention; 0 keeps scenarios forever
	ScenarioTTL time.Duration `env:"REDIS_SCENARIO_TTL" envDefault:"0"`
}

// EngineConfig holds engine defaults applied when a request omits them
type EngineConfig struct {
	DelayMultiplier          float64       `env:"ENGINE_DELAY_MULTIPLIER" envDefault:"1.0"`
	ContinueOnError          bool          `env:"ENGINE_CONTINUE_ON_ERROR" envDefault:"false"`
	StrictTemplateValidation bool          `env:"ENGINE_STRICT_TEMPLATES" envDefault:"true"`
	ValidateMitreReferences  bool          `env:"ENGINE_VALIDATE_MITRE" envDefault:"true"`
	MonitorInterval          time.Duration `env:"ENGINE_MONITOR_INTERVAL" envDefault:"30s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ExecutionTimeout time.Duration `env:"TIMEOUT_EXECUTION" envDefault:"3600s"` // 1 hour
	ShutdownTimeout  time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Engine.DelayMultiplier < 0 {
		return fmt.Errorf("delay multiplier must not be negative: %f", c.Engine.DelayMultiplier)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}
