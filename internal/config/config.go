package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	StaticDir       string        `yaml:"staticDir"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type Storage struct {
	Type     string `yaml:"type"`     // memory|redis
	RedisURL string `yaml:"redisUrl"` // required for redis
}

type Logging struct {
	Env       string `yaml:"env"`     // dev|stage|prod
	Backend   string `yaml:"backend"` // std|zap, empty picks by env
	Level     string `yaml:"level"`
	Service   string `yaml:"service"`
	Version   string `yaml:"version"`
	AddSource bool   `yaml:"addSource"`
}

type Rooms struct {
	IdleTTL       time.Duration `yaml:"idleTtl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	BcryptCost    int           `yaml:"bcryptCost"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Rooms   Rooms   `yaml:"rooms"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server: Server{
			Port:            3000,
			StaticDir:       "public",
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: Storage{
			Type: StorageMemory,
		},
		Logging: Logging{
			Env:     "dev",
			Level:   "info",
			Service: "minigolf",
			Version: "dev",
		},
		Rooms: Rooms{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			BcryptCost:    10,
		},
	}
}

// Load reads defaults, then the YAML file named by CONFIG_PATH, then the
// environment
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(getenv, "HOST", &c.Server.Host)
	setString(getenv, "STATIC_DIR", &c.Server.StaticDir)
	setString(getenv, "STORAGE_TYPE", &c.Storage.Type)
	setString(getenv, "REDIS_URL", &c.Storage.RedisURL)
	setString(getenv, "APP_ENV", &c.Logging.Env)
	setString(getenv, "LOG_BACKEND", &c.Logging.Backend)
	setString(getenv, "LOG_LEVEL", &c.Logging.Level)
	setString(getenv, "APP_VERSION", &c.Logging.Version)

	if err := setInt(getenv, "PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := setInt(getenv, "BCRYPT_COST", &c.Rooms.BcryptCost); err != nil {
		return err
	}
	if err := setDuration(getenv, "ROOM_IDLE_TTL", &c.Rooms.IdleTTL); err != nil {
		return err
	}
	return setDuration(getenv, "ROOM_SWEEP_INTERVAL", &c.Rooms.SweepInterval)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redisUrl is required for redis storage")
		}
	default:
		return fmt.Errorf("storage.type %q must be memory or redis", c.Storage.Type)
	}
	if c.Rooms.IdleTTL < 0 || c.Rooms.SweepInterval < 0 {
		return errors.New("room durations must not be negative")
	}
	if c.Rooms.BcryptCost < 4 || c.Rooms.BcryptCost > 31 {
		return fmt.Errorf("rooms.bcryptCost %d out of range", c.Rooms.BcryptCost)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func setInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
