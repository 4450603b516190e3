package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	ReadTimeoutSec    int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int    `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type AdminHTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	Name  string    `mapstructure:"name"`
	Env   string    `mapstructure:"env"`
	HTTP  HTTP      `mapstructure:"http"`
	Admin AdminHTTP `mapstructure:"admin"`
}

type LogFile struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level string  `mapstructure:"level"`
	JSON  bool    `mapstructure:"json"`
	File  LogFile `mapstructure:"file"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Address prefers an explicit addr over host and port.
func (r Redis) Address() string {
	if r.Addr != "" {
		return r.Addr
	}
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type Cache struct {
	Driver            string `mapstructure:"driver"`
	TTLSec            int    `mapstructure:"ttl_sec"`
	OpTimeoutMs       int    `mapstructure:"op_timeout_ms"`
	InvalidateOnWrite bool   `mapstructure:"invalidate_on_write"`
}

func (c Cache) TTL() time.Duration       { return time.Duration(c.TTLSec) * time.Second }
func (c Cache) OpTimeout() time.Duration { return time.Duration(c.OpTimeoutMs) * time.Millisecond }

type Limits struct {
	RPS           float64 `mapstructure:"rps"`
	Burst         int     `mapstructure:"burst"`
	PerIPRPS      float64 `mapstructure:"per_ip_rps"`
	PerIPBurst    int     `mapstructure:"per_ip_burst"`
	MaxConcurrent int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes  int64   `mapstructure:"max_body_bytes"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Log    Log    `mapstructure:"log"`
	JWT    JWT    `mapstructure:"jwt"`
	DB     DB     `mapstructure:"db"`
	Redis  Redis  `mapstructure:"redis"`
	Cache  Cache  `mapstructure:"cache"`
	Limits Limits `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gin-gorm-cache")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.request_timeout_sec", 10)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 14)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "gin-gorm-cache")
	v.SetDefault("jwt.access_token_ttl_min", 60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "data/app.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("cache.driver", CacheRedis)
	v.SetDefault("cache.ttl_sec", 60)
	v.SetDefault("cache.op_timeout_ms", 500)
	v.SetDefault("cache.invalidate_on_write", false)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 50)
	v.SetDefault("limits.per_ip_burst", 100)
	v.SetDefault("limits.max_concurrent", 300)
	v.SetDefault("limits.max_body_bytes", 16<<20)
}

// legacyEnv are the unprefixed variable names older deployments export.
var legacyEnv = map[string]string{
	"app.http.port":  "PORT",
	"db.dsn":         "DATABASE_URL",
	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
}

// Load reads path (or CONFIG_PATH, or the local default). Every key has a
// default, so a missing default file is not an error; a missing explicit
// path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := true
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path, explicit = defaultPath, false
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("config: unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec <= 0 {
		return fmt.Errorf("config: cache.ttl_sec must be positive, got %d", c.Cache.TTLSec)
	}
	if c.App.HTTP.Port <= 0 {
		return fmt.Errorf("config: app.http.port must be positive, got %d", c.App.HTTP.Port)
	}
	return nil
}
