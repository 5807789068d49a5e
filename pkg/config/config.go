package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every variable below.
const EnvPrefix = "KISANBAZAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside envconfig tags (tests, error
// messages).
const (
	EnvAppEnv    = "KISANBAZAR_APP_ENV"
	EnvPort      = "KISANBAZAR_APP_PORT"
	EnvDBDSN     = "KISANBAZAR_DB_DSN"
	EnvDBHost    = "KISANBAZAR_DB_HOST"
	EnvDBUser    = "KISANBAZAR_DB_USER"
	EnvDBName    = "KISANBAZAR_DB_NAME"
	EnvRedisURL  = "KISANBAZAR_REDIS_URL"
	EnvJWTSecret = "KISANBAZAR_JWT_SECRET"
	EnvJWTIssuer = "KISANBAZAR_JWT_ISSUER"
	EnvJWTExp    = "KISANBAZAR_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KISANBAZAR_APP_ENV" required:"true"`
	Port         string `envconfig:"KISANBAZAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KISANBAZAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KISANBAZAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KISANBAZAR_DB_DSN"`

	LegacyHost     string `envconfig:"KISANBAZAR_DB_HOST"`
	LegacyPort     int    `envconfig:"KISANBAZAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KISANBAZAR_DB_USER"`
	LegacyPassword string `envconfig:"KISANBAZAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"KISANBAZAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"KISANBAZAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KISANBAZAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KISANBAZAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KISANBAZAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KISANBAZAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KISANBAZAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KISANBAZAR_REDIS_ADDR"`
	Password     string        `envconfig:"KISANBAZAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"KISANBAZAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KISANBAZAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KISANBAZAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KISANBAZAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KISANBAZAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KISANBAZAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KISANBAZAR_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KISANBAZAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KISANBAZAR_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KISANBAZAR_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KISANBAZAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KISANBAZAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KISANBAZAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KISANBAZAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KISANBAZAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KISANBAZAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"KISANBAZAR_CART_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KISANBAZAR_AUTO_MIGRATE" default:"false"`

	// StockDecrement switches order creation from the legacy check-then-create
	// behavior to a conditional decrement of product stock inside the same
	// transaction.
	StockDecrement bool `envconfig:"KISANBAZAR_STOCK_DECREMENT" default:"false"`

	// StrictOrderTransitions enforces the
	// pending->accepted|rejected|cancelled, accepted->completed|cancelled
	// graph instead of accepting any status verbatim.
	StrictOrderTransitions bool `envconfig:"KISANBAZAR_STRICT_ORDER_TRANSITIONS" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
