// Package config loads service configuration from defaults, an optional
// config file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Allocator AllocatorConfig `mapstructure:"allocator"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	BaseURL string `mapstructure:"base_url"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `mapstructure:"rate_limit"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	// Addr empty disables the link cache.
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type GeoConfig struct {
	Provider  string        `mapstructure:"provider"`
	IPAPIURL  string        `mapstructure:"ipapi_url"`
	GeoIPPath string        `mapstructure:"geoip_path"`
	Timeout   time.Duration `mapstructure:"timeout"`
	TestIP    string        `mapstructure:"test_ip"`
}

type AllocatorConfig struct {
	TokenLength int `mapstructure:"token_length"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	GeoProviderIPAPI = "ipapi"
	GeoProviderGeoIP = "geoip"
	GeoProviderNone  = "none"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.rate_limit", 100)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/shortlink.db")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("geo.provider", GeoProviderIPAPI)
	v.SetDefault("geo.ipapi_url", "http://ip-api.com/json/")
	v.SetDefault("geo.geoip_path", "")
	v.SetDefault("geo.timeout", 5*time.Second)
	v.SetDefault("geo.test_ip", "8.8.8.8")

	v.SetDefault("allocator.token_length", 6)
	v.SetDefault("allocator.max_attempts", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration. configFile may be empty. Environment variables
// use the upper-cased key with dots replaced by underscores, e.g.
// DATABASE_DSN or GEO_TEST_IP. Missing .env files are ignored.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Redis),
		validation.Field(&c.Geo),
		validation.Field(&c.Allocator),
		validation.Field(&c.Log),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, is.Port),
		validation.Field(&s.BaseURL, validation.Required, is.URL),
		validation.Field(&s.RateLimit, validation.Min(0)),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In("sqlite", "postgres")),
		validation.Field(&d.DSN, validation.Required),
	)
}

func (r RedisConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DB, validation.Min(0)),
		validation.Field(&r.TTL, validation.Min(time.Duration(0))),
	)
}

func (g GeoConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Provider, validation.Required,
			validation.In(GeoProviderIPAPI, GeoProviderGeoIP, GeoProviderNone)),
		validation.Field(&g.IPAPIURL, validation.When(g.Provider == GeoProviderIPAPI, validation.Required, is.URL)),
		validation.Field(&g.GeoIPPath, validation.When(g.Provider == GeoProviderGeoIP, validation.Required)),
		validation.Field(&g.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&g.TestIP, validation.Required, is.IP),
	)
}

func (a AllocatorConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.TokenLength, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&a.MaxAttempts, validation.Required, validation.Min(1)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.Required, validation.In("json", "console")),
	)
}
