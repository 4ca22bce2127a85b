package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	API      APIConfig
	Auth     AuthConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Cache    CacheConfig
	Lpo      LpoConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig points at the remote hospital REST API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	// OfflineFallback enables the local operator login when the API is unreachable.
	OfflineFallback        bool
	OfflineUsername        string
	OfflinePassword        string
	OfflineTokenSecret     string
	OfflineTokenTTLMinutes int
	BcryptCost             int
}

// SessionConfig configures browser sessions and the credential store.
type SessionConfig struct {
	Store        string
	CookieName   string
	CookieKey    string
	CookieSecure bool
	TTLMinutes   int
	MaxScopes    int

	// SweepIntervalSeconds paces the purge of expired sessions; 0 disables it.
	SweepIntervalSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// CacheConfig bounds the lookup list caches.
type CacheConfig struct {
	DrugTypesTTLMinutes int
	DrugListTTLSeconds  int
}

// LpoConfig carries the purchase order header values the API requires but the
// order form does not ask for.
type LpoConfig struct {
	CompanyNo    int
	DepartmentNo int
}

// Store backends accepted by SESSION_STORE.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hospital-portal"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:5000/"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 30),
		},
		Auth: AuthConfig{
			OfflineFallback:        getEnvAsBool("AUTH_OFFLINE_FALLBACK", env == "development"),
			OfflineUsername:        getEnv("AUTH_OFFLINE_USERNAME", "admin"),
			OfflinePassword:        getEnv("AUTH_OFFLINE_PASSWORD", "54321"),
			OfflineTokenSecret:     getEnv("AUTH_OFFLINE_TOKEN_SECRET", "dev-secret"),
			OfflineTokenTTLMinutes: getEnvAsInt("AUTH_OFFLINE_TOKEN_TTL_MINUTES", 480),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Session: SessionConfig{
			Store:        strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "hp_session"),
			CookieKey:    os.Getenv("SESSION_COOKIE_KEY"),
			CookieSecure: getEnvAsBool("SESSION_COOKIE_SECURE", env != "development"),
			TTLMinutes:   getEnvAsInt("SESSION_TTL_MINUTES", 480),
			MaxScopes:    getEnvAsInt("SESSION_MAX_SCOPES", 10000),

			SweepIntervalSeconds: getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 300),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Cache: CacheConfig{
			DrugTypesTTLMinutes: getEnvAsInt("CACHE_DRUG_TYPES_TTL_MINUTES", 30),
			DrugListTTLSeconds:  getEnvAsInt("CACHE_DRUG_LIST_TTL_SECONDS", 60),
		},
		Lpo: LpoConfig{
			CompanyNo:    getEnvAsInt("LPO_COMPANY_NO", 1),
			DepartmentNo: getEnvAsInt("LPO_DEPARTMENT_NO", 4),
		},
	}

	switch cfg.Session.Store {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q", cfg.Session.Store)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call timeout for outbound API requests.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// TTL returns how long a browser session's credentials are kept.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// SweepInterval returns how often expired sessions are purged.
func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
