package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	Session   SessionConfig
	CredStore CredStoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type SessionConfig struct {
	// TTL is the sliding session window; each observed activity extends
	// the expiry by this much.
	TTL         time.Duration `env:"SESSION_TTL,          default=30m"`
	RememberTTL time.Duration `env:"SESSION_REMEMBER_TTL, default=720h"`

	DefaultRoute string `env:"DEFAULT_ROUTE, default=/demo"`
	LoginPath    string `env:"LOGIN_PATH,    default=/login"`

	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS,   default=5"`
	AttemptWindow    time.Duration `env:"ATTEMPT_WINDOW,       default=15m"`
	RouteCacheTTL    time.Duration `env:"ROUTE_CACHE_TTL,      default=5m"`
	SweepInterval    time.Duration `env:"GUARD_SWEEP_INTERVAL, default=1m"`
}

type CredStoreConfig struct {
	// URL is the base of the PostgREST-style REST interface the
	// credential and workspace-route tables are served from.
	URL string `env:"CREDSTORE_URL"`
	Key string `env:"CREDSTORE_KEY"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=smartfdx"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
