package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

func (h HTTP) ReadTimeout() time.Duration  { return time.Duration(h.ReadTimeoutSec) * time.Second }
func (h HTTP) WriteTimeout() time.Duration { return time.Duration(h.WriteTimeoutSec) * time.Second }
func (h HTTP) IdleTimeout() time.Duration  { return time.Duration(h.IdleTimeoutSec) * time.Second }

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       HTTP
	CORSOrigins []string
}

type Log struct {
	Level string
	JSON  bool
	// File enables rotation through lumberjack when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret              string
	Issuer              string
	Audience            string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int
}

func (j JWT) AccessTTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenTTLDays) * 24 * time.Hour
}

// Redis with an empty Addr disables caching.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
	SlowThresholdMs    int
}

// Limits bounds inbound traffic. RPS and Burst apply per client IP, GlobalRPS
// and GlobalBurst to the whole process. Zero disables a limit.
type Limits struct {
	RPS           float64
	Burst         int
	GlobalRPS     float64
	GlobalBurst   int
	MaxConcurrent int64
	MaxBodyBytes  int64
	TimeoutSec    int
}

func (l Limits) Timeout() time.Duration { return time.Duration(l.TimeoutSec) * time.Second }

// Seed creates an Admin account on startup when Username is set.
type Seed struct {
	AdminUsername string
	AdminPassword string
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis `mapstructure:"redis"`
	Limits Limits
	Seed   Seed
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "customer-order-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.admin.readtimeoutsec", 10)
	v.SetDefault("app.admin.writetimeoutsec", 15)
	v.SetDefault("app.admin.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "customer-order-api")
	v.SetDefault("jwt.audience", "customer-order-api")
	v.SetDefault("jwt.accesstokenttlmin", 60)
	v.SetDefault("jwt.refreshtokenttldays", 7)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:customer_order.db?cache=shared")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("seed.adminusername", "")
	v.SetDefault("seed.adminpassword", "")

	v.SetDefault("limits.rps", 50)
	v.SetDefault("limits.burst", 100)
	v.SetDefault("limits.globalrps", 500)
	v.SetDefault("limits.globalburst", 1000)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.timeoutsec", 10)
}

// Read loads path (or $CONFIG_PATH, or ./configs/config.local.yaml). A missing
// file is not an error; defaults and APP_* env vars still apply. A .env in the
// working directory is loaded first.
func Read(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
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
	if len(c.JWT.Secret) < 32 {
		return errors.New("config: jwt.secret must be at least 32 bytes")
	}
	if c.JWT.AccessTokenTTLMin <= 0 || c.JWT.RefreshTokenTTLDays <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.Seed.AdminUsername != "" && c.Seed.AdminPassword == "" {
		return errors.New("config: seed.adminpassword is required with seed.adminusername")
	}
	return nil
}
