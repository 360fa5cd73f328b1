package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	MySQL   MySQLConfig   `yaml:"mysql"`
	Queue   QueueConfig   `yaml:"queue"`
	Monitor MonitorConfig `yaml:"monitor"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // API key for lifecycle endpoints (optional, if empty, auth is disabled)
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MySQLConfig MySQL configuration for the unit-metrics archive
type MySQLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// QueueConfig archive queue configuration
type QueueConfig struct {
	Concurrency int `yaml:"concurrency"` // archive worker concurrency
	MaxRetry    int `yaml:"max_retry"`   // maximum retry count per archive task
}

// MonitorConfig sampling and history configuration
type MonitorConfig struct {
	IntervalSeconds    float64 `yaml:"interval_seconds"`    // sampling tick period, default 1s
	HistorySize        int     `yaml:"history_size"`        // ring slots per metric, default 60
	UnitLogSize        int     `yaml:"unit_log_size"`       // bounded completed-unit log, default 10
	ArchiveRetainDays  int     `yaml:"archive_retain_days"` // archive cleanup horizon, default 30
	EnableGPU          bool    `yaml:"enable_gpu"`
	EnableSystem       bool    `yaml:"enable_system"`
	NvidiaSMITimeoutMs int     `yaml:"nvidia_smi_timeout_ms"`
}

// Interval returns the sampling period as a duration.
func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds * float64(time.Second))
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// MinInterval and MaxInterval bound the sampling period. Values outside this
// range are a contract violation, not a recoverable condition.
const (
	MinInterval = 100 * time.Millisecond
	MaxInterval = 60 * time.Second
)

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return err
	}

	GlobalConfig = &cfg
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Monitor.IntervalSeconds == 0 {
		cfg.Monitor.IntervalSeconds = 1
	}
	if cfg.Monitor.HistorySize <= 0 {
		cfg.Monitor.HistorySize = 60
	}
	if cfg.Monitor.UnitLogSize <= 0 {
		cfg.Monitor.UnitLogSize = 10
	}
	if cfg.Monitor.ArchiveRetainDays <= 0 {
		cfg.Monitor.ArchiveRetainDays = 30
	}
	if cfg.Monitor.NvidiaSMITimeoutMs <= 0 {
		cfg.Monitor.NvidiaSMITimeoutMs = 400
	}
	// At least one subsystem must be sampled; an all-disabled monitor section
	// means the section was omitted, so both default on.
	if !cfg.Monitor.EnableGPU && !cfg.Monitor.EnableSystem {
		cfg.Monitor.EnableGPU = true
		cfg.Monitor.EnableSystem = true
	}
	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = 2
	}
	if cfg.Queue.MaxRetry <= 0 {
		cfg.Queue.MaxRetry = 3
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8188
	}
}

func validate(cfg *Config) error {
	interval := cfg.Monitor.Interval()
	if interval < MinInterval || interval > MaxInterval {
		return fmt.Errorf("monitor.interval_seconds out of range: %v (want %v..%v)",
			interval, MinInterval, MaxInterval)
	}
	return nil
}
