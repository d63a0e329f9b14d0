package config

import (
	"time"

	pkgconfig "github.com/weiawesome/paper-review-chat/pkg/config"
	"github.com/weiawesome/paper-review-chat/pkg/database"
	"github.com/weiawesome/paper-review-chat/pkg/pubsub"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Events   EventsConfig
	IDs      IDsConfig
	Auth     AuthConfig
	Chat     ChatConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// EventsConfig enables publishing chat events over Redis pub/sub.
type EventsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IDsConfig selects the pkg/idgen strategy for new records.
type IDsConfig struct {
	Strategy string `mapstructure:"strategy"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

type ChatConfig struct {
	DefaultReviewerID   string `mapstructure:"default_reviewer_id"`
	DefaultReviewerName string `mapstructure:"default_reviewer_name"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads config.yaml from CONFIG_DIR (default ./config) when present,
// then the environment.
func Load() (*Config, error) {
	v, err := pkgconfig.Load(pkgconfig.GetEnv("CONFIG_DIR", "./config"), "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "review_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/review.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.prefix", "paperchat")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("events.enabled", false)
	v.SetDefault("ids.strategy", "ulid")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.issuer", "review-service")
	v.SetDefault("chat.default_reviewer_id", "")
	v.SetDefault("chat.default_reviewer_name", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("events.enabled", "EVENTS_ENABLED")
	v.BindEnv("ids.strategy", "ID_STRATEGY")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_ttl", "TOKEN_TTL")
	v.BindEnv("chat.default_reviewer_id", "DEFAULT_REVIEWER_ID")
	v.BindEnv("chat.default_reviewer_name", "DEFAULT_REVIEWER_NAME")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// PubSub builds the event bus config on the shared Redis connection settings.
func (c *Config) PubSub() pubsub.Config {
	ps := pubsub.DefaultConfig()
	ps.Enabled = c.Events.Enabled
	ps.Redis.Address = c.Redis.Address
	ps.Redis.Password = c.Redis.Password
	ps.Redis.DB = c.Redis.DB
	return ps
}

// DB converts the database section for pkg/database.
func (c *Config) DB() *database.Config {
	d := c.Database
	return &database.Config{
		Driver:          d.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		DBName:          d.DBName,
		SSLMode:         d.SSLMode,
		FilePath:        d.FilePath,
		MaxIdleConns:    d.MaxIdleConns,
		MaxOpenConns:    d.MaxOpenConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		LogLevel:        d.LogLevel,
	}
}
