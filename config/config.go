package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Award    AwardConfig    `mapstructure:"award"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// AwardConfig carries the reward policy knobs. The defaults match the
// production values the policy was tuned with: members within 3 km count as
// co-located, and a rewarded stay is worth 50 guild points.
type AwardConfig struct {
	ProximityRadiusMeters float64       `mapstructure:"proximity_radius_meters"`
	Points                int64         `mapstructure:"points"`
	AttemptLimit          int           `mapstructure:"attempt_limit"`
	AttemptWindow         time.Duration `mapstructure:"attempt_window"`
}

// LoadConfig reads the config file at path and unmarshals it over the
// built-in defaults. A missing award or logging section falls back to the
// defaults rather than failing.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	v.SetDefault("server.port", 9000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.topic", "guild.score.awarded")
	v.SetDefault("award.proximity_radius_meters", 3000.0)
	v.SetDefault("award.points", 50)
	v.SetDefault("award.attempt_limit", 30)
	v.SetDefault("award.attempt_window", time.Minute)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}
