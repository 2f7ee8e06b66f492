package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Demo      DemoConfig
	CORS      CORSConfig
	Log       LogConfig
	Audit     AuditConfig
	Policy    PolicyConfig
	GenAI     GenAIConfig
	SMS       SMSConfig
	Invoices  InvoicesConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes caching of generated text.
type CacheConfig struct {
	TTL       time.Duration
	LocalSize int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// DemoConfig holds the shared password of the seeded demo accounts.
type DemoConfig struct {
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuditConfig toggles the Postgres-backed audit trail.
type AuditConfig struct {
	Enabled bool
}

// PolicyConfig carries static inputs of the access policy.
type PolicyConfig struct {
	// TeacherClassScopes maps a teacher principal ID to the grades they are assigned to.
	TeacherClassScopes map[string][]string
}

// GenAIConfig configures the generative-text collaborator.
type GenAIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// SMSConfig configures the outbound SMS dispatch queue.
type SMSConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// InvoicesConfig controls invoice rendering storage & download links.
type InvoicesConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// RateLimitConfig throttles login and generative endpoints per client IP.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		TTL:       parseDuration(v.GetString("CACHE_TTL"), 30*time.Minute),
		LocalSize: v.GetInt("CACHE_LOCAL_SIZE"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.Demo = DemoConfig{Password: v.GetString("DEMO_PASSWORD")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Audit = AuditConfig{Enabled: v.GetBool("ENABLE_AUDIT")}

	cfg.Policy = PolicyConfig{TeacherClassScopes: parseScopes(v.GetString("TEACHER_CLASS_SCOPES"))}

	cfg.GenAI = GenAIConfig{
		APIKey:   v.GetString("GENAI_API_KEY"),
		Model:    v.GetString("GENAI_MODEL"),
		Endpoint: v.GetString("GENAI_ENDPOINT"),
		Timeout:  parseDuration(v.GetString("GENAI_TIMEOUT"), 20*time.Second),
	}

	cfg.SMS = SMSConfig{
		Workers:    v.GetInt("SMS_WORKERS"),
		MaxRetries: v.GetInt("SMS_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SMS_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Invoices = InvoicesConfig{
		StorageDir:      v.GetString("INVOICES_STORAGE_DIR"),
		SignedURLSecret: v.GetString("INVOICES_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("INVOICES_SIGNED_URL_TTL"), 15*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
		Window:   parseDuration(v.GetString("RATE_LIMIT_WINDOW"), time.Minute),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edusphere")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "30m")
	v.SetDefault("CACHE_LOCAL_SIZE", 256)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "edusphere")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("DEMO_PASSWORD", "password")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_AUDIT", false)
	v.SetDefault("TEACHER_CLASS_SCOPES", "")

	v.SetDefault("GENAI_API_KEY", "")
	v.SetDefault("GENAI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GENAI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("GENAI_TIMEOUT", "20s")

	v.SetDefault("SMS_WORKERS", 2)
	v.SetDefault("SMS_RETRIES", 3)
	v.SetDefault("SMS_RETRY_DELAY", "2s")

	v.SetDefault("INVOICES_STORAGE_DIR", "./invoices")
	v.SetDefault("INVOICES_SIGNED_URL_SECRET", "dev_invoices_secret")
	v.SetDefault("INVOICES_SIGNED_URL_TTL", "15m")

	v.SetDefault("RATE_LIMIT_REQUESTS", 20)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseScopes reads "T001:10th|11th;T002:11th" into a teacher -> grades mapping.
func parseScopes(raw string) map[string][]string {
	scopes := make(map[string][]string)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		teacherID, grades, ok := strings.Cut(entry, ":")
		teacherID = strings.TrimSpace(teacherID)
		if !ok || teacherID == "" {
			continue
		}
		for _, grade := range strings.Split(grades, "|") {
			if grade = strings.TrimSpace(grade); grade != "" {
				scopes[teacherID] = append(scopes[teacherID], grade)
			}
		}
	}
	return scopes
}
