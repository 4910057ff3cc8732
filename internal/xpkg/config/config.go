package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Storage *Storage  `yaml:"storage"`
	DB      *Postgres `yaml:"database"`
	Redis   *Redis    `yaml:"redis"`
	RMQ     *RabbitMQ `yaml:"rabbitmq"`
	MenuAPI *MenuAPI  `yaml:"menu_api"`
	Kitchen *Kitchen  `yaml:"kitchen"`
}

type Storage struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type Redis struct {
	URL       string `yaml:"url"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type MenuAPI struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	SeedLimit int           `yaml:"seed_limit"`
}

type Kitchen struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns a config under which services started on the same host
// share their collections through files in ./data, with no external
// dependencies besides the public menu API.
func Default() *Config {
	return &Config{
		Storage: &Storage{
			Driver: DriverFile,
			Dir:    "data",
		},
		DB: &Postgres{
			Host:     "localhost",
			Port:     "5432",
			User:     "pos",
			Password: "pos",
			Database: "pos",
			SSLMode:  "disable",
		},
		Redis: &Redis{
			URL:       "redis://localhost:6379/0",
			Namespace: "pos",
		},
		RMQ: &RabbitMQ{
			User:     "guest",
			Password: "guest",
			Port:     "5672",
		},
		MenuAPI: &MenuAPI{
			BaseURL:   "https://free-food-menus-api-two.vercel.app",
			Timeout:   10 * time.Second,
			SeedLimit: 10,
		},
		Kitchen: &Kitchen{PollInterval: 10 * time.Second},
	}
}

// LoadConfig reads the yaml file at configPath on top of the defaults and
// applies environment overrides. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cnf := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cnf); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	cnf.applyEnv()

	if err := cnf.Validate(); err != nil {
		return nil, err
	}
	return cnf, nil
}

func (c *Config) applyEnv() {
	c.Storage.Driver = getEnv("POS_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Dir = getEnv("POS_STORAGE_DIR", c.Storage.Dir)

	c.DB.Host = getEnv("POSTGRES_HOST", c.DB.Host)
	c.DB.Port = getEnv("POSTGRES_PORT", c.DB.Port)
	c.DB.User = getEnv("POSTGRES_USER", c.DB.User)
	c.DB.Password = getEnv("POSTGRES_PASSWORD", c.DB.Password)
	c.DB.Database = getEnv("POSTGRES_DBNAME", c.DB.Database)

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		c.Redis.DB = v
	}

	c.RMQ.Host = getEnv("RABBITMQ_HOST", c.RMQ.Host)
	c.RMQ.Port = getEnv("RABBITMQ_PORT", c.RMQ.Port)
	c.RMQ.User = getEnv("RABBITMQ_USER", c.RMQ.User)
	c.RMQ.Password = getEnv("RABBITMQ_PASSWORD", c.RMQ.Password)

	c.MenuAPI.BaseURL = getEnv("MENU_API_URL", c.MenuAPI.BaseURL)
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required by the %s driver", DriverFile)
		}
	case DriverMemory, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Redis.DB < 0 || c.Redis.DB > 15 {
		return fmt.Errorf("redis db must be in [0, 15]: %d", c.Redis.DB)
	}
	if c.Kitchen.PollInterval <= 0 {
		return fmt.Errorf("kitchen poll interval must be positive: %s", c.Kitchen.PollInterval)
	}
	if c.MenuAPI.SeedLimit <= 0 {
		return fmt.Errorf("menu api seed limit must be positive: %d", c.MenuAPI.SeedLimit)
	}
	return nil
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Database,
		p.SSLMode,
	)
}

func (r *RabbitMQ) Enabled() bool {
	return r != nil && r.Host != ""
}

func (r *RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s",
		r.User,
		r.Password,
		r.Host,
		r.Port,
		r.VHost,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
