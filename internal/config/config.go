package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type StoreConfig struct {
	Backend         string `mapstructure:"backend"`
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	HistoryLimit    int64  `mapstructure:"history_limit"`
	PersistMessages bool   `mapstructure:"persist_messages"`
}

type RateLimitConfig struct {
	Burst    int           `mapstructure:"burst"`
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	Mode         string          `mapstructure:"mode"`
	Port         int             `mapstructure:"port"`
	Secret       string          `mapstructure:"secret"`
	ReadLimit    int64           `mapstructure:"read_limit"`
	PingPeriod   time.Duration   `mapstructure:"ping_period"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	AuthTimeout  time.Duration   `mapstructure:"auth_timeout"`
	SendBuffer   int             `mapstructure:"send_buffer"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	Store        StoreConfig     `mapstructure:"store"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("auth_timeout", "3s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.interval", "1s")
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis_addr", "127.0.0.1:6379")
	v.SetDefault("store.history_limit", 500)
	v.SetDefault("store.persist_messages", false)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Store: %s\n", cfg.Mode, cfg.Port, cfg.Store.Backend)
	return &cfg, nil
}
