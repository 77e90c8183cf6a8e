// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vk-blackjack-bot/internal/vk"
)

// Config holds all application configuration.
type Config struct {
	VK       vk.Config      `mapstructure:"vk"`
	Rabbit   RabbitConfig   `mapstructure:"rabbit"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// RabbitConfig holds RabbitMQ connection and consumer configuration.
// Capacity bounds how many deliveries are in flight at once.
type RabbitConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	Queue            string        `mapstructure:"queue"`
	Capacity         int           `mapstructure:"capacity"`
	ReconnectTimeout time.Duration `mapstructure:"reconnect_timeout"`
}

// URL returns the AMQP connection string.
func (r *RabbitConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}

// RedisConfig holds the session store connection configuration.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	DB   int    `mapstructure:"db"`
}

// Addr returns the host:port address of the redis server.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// GameConfig holds the table-rule seed values. They populate the
// game_settings storage row on first start; the stored row is
// authoritative afterwards.
type GameConfig struct {
	MinBet             int64   `mapstructure:"min_bet"`
	MaxBet             int64   `mapstructure:"max_bet"`
	StartCash          float64 `mapstructure:"start_cash"`
	Bonus              float64 `mapstructure:"bonus"`
	BonusPeriodMinutes int     `mapstructure:"bonus_period_minutes"`
	NumOfDecks         int     `mapstructure:"num_of_decks"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., VK_TOKEN, DATABASE_HOST, RABBIT_QUEUE
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// VK defaults
	v.SetDefault("vk.version", "5.131")
	v.SetDefault("vk.poll_wait", 25)

	// RabbitMQ defaults
	v.SetDefault("rabbit.host", "localhost")
	v.SetDefault("rabbit.port", 5672)
	v.SetDefault("rabbit.user", "guest")
	v.SetDefault("rabbit.password", "guest")
	v.SetDefault("rabbit.queue", "vk_updates")
	v.SetDefault("rabbit.capacity", 10)
	v.SetDefault("rabbit.reconnect_timeout", "5s")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "blackjack")
	v.SetDefault("database.name", "blackjack")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Game rule seeds
	v.SetDefault("game.min_bet", 10)
	v.SetDefault("game.max_bet", 1000)
	v.SetDefault("game.start_cash", 1000)
	v.SetDefault("game.bonus", 500)
	v.SetDefault("game.bonus_period_minutes", 1440)
	v.SetDefault("game.num_of_decks", 3)
}
