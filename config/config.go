package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Discord   DiscordConfig   `yaml:"discord"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Boxscore  BoxscoreConfig  `yaml:"boxscore"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	// URL is a dburl-style URL (mysql://, postgres://, sqlserver://,
	// sqlite:) or a bare MySQL DSN.
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

type SchedulerConfig struct {
	// Cron specs include a seconds field.
	SettleSpec  string        `yaml:"settle_spec"`
	ExpireSpec  string        `yaml:"expire_spec"`
	LeaseTTL    time.Duration `yaml:"lease_ttl"`
	Concurrency int           `yaml:"concurrency"`
	// LockBackend is memory, db or redis. Empty picks redis when an address
	// is configured and db otherwise.
	LockBackend string `yaml:"lock_backend"`
}

type BoxscoreConfig struct {
	Source        string        `yaml:"source"` // db | espn
	ESPNBaseURL   string        `yaml:"espn_base_url"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the optional YAML file at path, then .env, then environment
// overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Database.URL, "MYSQL_URL")
	setStr(&cfg.Database.URL, "DATABASE_URL")
	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setStr(&cfg.Discord.Token, "DISCORD_BOT_TOKEN")
	setStr(&cfg.Discord.ChannelID, "DISCORD_CHANNEL_ID")
	setStr(&cfg.Scheduler.SettleSpec, "SETTLE_CRON")
	setStr(&cfg.Scheduler.ExpireSpec, "EXPIRE_CRON")
	setDuration(&cfg.Scheduler.LeaseTTL, "LEASE_TTL")
	setInt(&cfg.Scheduler.Concurrency, "SETTLE_CONCURRENCY")
	setStr(&cfg.Scheduler.LockBackend, "LOCK_BACKEND")
	setStr(&cfg.Boxscore.Source, "BOXSCORE_SOURCE")
	setStr(&cfg.Boxscore.ESPNBaseURL, "ESPN_BASE_URL")
	setDuration(&cfg.Boxscore.LookupTimeout, "LOOKUP_TIMEOUT")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.Log.Format, "LOG_FORMAT")
}

func setDefaults(cfg *Config) {
	if cfg.Scheduler.SettleSpec == "" {
		cfg.Scheduler.SettleSpec = "0 */2 * * * *" // every 2 minutes
	}
	if cfg.Scheduler.ExpireSpec == "" {
		cfg.Scheduler.ExpireSpec = "0 */5 * * * *"
	}
	if cfg.Scheduler.LeaseTTL <= 0 {
		cfg.Scheduler.LeaseTTL = 5 * time.Minute
	}
	if cfg.Scheduler.Concurrency <= 0 {
		cfg.Scheduler.Concurrency = 4
	}
	if cfg.Scheduler.LockBackend == "" {
		cfg.Scheduler.LockBackend = "db"
		if cfg.Redis.Addr != "" {
			cfg.Scheduler.LockBackend = "redis"
		}
	}
	if cfg.Boxscore.Source == "" {
		cfg.Boxscore.Source = "db"
	}
	if cfg.Boxscore.LookupTimeout <= 0 {
		cfg.Boxscore.LookupTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("config: DATABASE_URL not set")
	}
	switch c.Scheduler.LockBackend {
	case "memory", "db":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("config: lock backend redis needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown lock backend %q", c.Scheduler.LockBackend)
	}
	switch c.Boxscore.Source {
	case "db", "espn":
	default:
		return fmt.Errorf("config: unknown boxscore source %q", c.Boxscore.Source)
	}
	if c.Scheduler.LeaseTTL < time.Second {
		return fmt.Errorf("config: lease ttl %s is too short", c.Scheduler.LeaseTTL)
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
