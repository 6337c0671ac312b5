package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	AuthProviderAnubis = "anubis"
	AuthProviderJWT    = "jwt"
)

// Config stores runtime configuration for the api and the sync CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	InternalJobToken   string

	// DBURL empty runs the api on the seeded in-memory store.
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int

	CacheEnabled bool
	CacheTTL     time.Duration

	AuthProvider      string
	AuthAdminRole     string
	PrincipalCacheTTL time.Duration

	AnubisBaseURL               string
	AnubisIntrospectPath        string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int

	JWTSecret string
	JWTIssuer string

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FeedBaseURL               string
	FeedAPIKey                string
	FeedAPIHost               string
	FeedTimeout               time.Duration
	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int

	SyncWorkers int
	// SyncTargets are query strings such as "league=176&season=2023-2024".
	SyncTargets []string

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

// Load reads the environment, after applying ENV_FILE (default .env) when
// that file exists. Variables already set in the environment win.
func Load() (Config, error) {
	envFile := strings.TrimSpace(getEnv("ENV_FILE", ".env"))
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	p := &parser{}
	cfg := Config{}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv
	cfg.ServiceName = strings.TrimSpace(getEnv("APP_SERVICE_NAME", "basket-api"))
	cfg.ServiceVersion = strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev"))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080"))
	cfg.ReadTimeout = p.positiveDuration("APP_READ_TIMEOUT", "10s")
	cfg.WriteTimeout = p.positiveDuration("APP_WRITE_TIMEOUT", "30s")
	cfg.ShutdownTimeout = p.positiveDuration("APP_SHUTDOWN_TIMEOUT", "10s")
	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	cfg.SwaggerEnabled = p.bool("SWAGGER_ENABLED", swaggerDefault)
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	cfg.DBDisablePreparedBinary = p.bool("DB_DISABLE_PREPARED_BINARY_RESULT", "true")
	cfg.DBMaxOpenConns = p.intAtLeast("DB_MAX_OPEN_CONNS", 20, 1)

	cfg.CacheEnabled = p.bool("CACHE_ENABLED", "true")
	cfg.CacheTTL = p.positiveDuration("CACHE_TTL", "60s")

	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(getEnv("AUTH_PROVIDER", AuthProviderAnubis)))
	cfg.AuthAdminRole = strings.TrimSpace(getEnv("AUTH_ADMIN_ROLE", "basket-admin"))
	cfg.PrincipalCacheTTL = p.duration("PRINCIPAL_CACHE_TTL", "2m")

	cfg.AnubisBaseURL = strings.TrimSpace(getEnv("ANUBIS_BASE_URL", "http://localhost:8081"))
	cfg.AnubisIntrospectPath = strings.TrimSpace(getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"))
	cfg.AnubisAdminKey = strings.TrimSpace(getEnv("ANUBIS_ADMIN_KEY", ""))
	cfg.AnubisTimeout = p.positiveDuration("ANUBIS_TIMEOUT", "3s")
	cfg.AnubisCircuitEnabled = p.bool("ANUBIS_CIRCUIT_ENABLED", "true")
	cfg.AnubisCircuitFailureCount = p.intAtLeast("ANUBIS_CIRCUIT_FAILURE_COUNT", 5, 1)
	cfg.AnubisCircuitOpenTimeout = p.positiveDuration("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s")
	cfg.AnubisCircuitHalfOpenMaxReq = p.intAtLeast("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1)

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	cfg.JWTIssuer = strings.TrimSpace(getEnv("JWT_ISSUER", ""))

	cfg.RedisEnabled = p.bool("REDIS_ENABLED", "false")
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = p.intAtLeast("REDIS_DB", 0, 0)

	cfg.FeedBaseURL = strings.TrimSpace(getEnv("FEED_BASE_URL", "https://api-basketball.p.rapidapi.com"))
	cfg.FeedAPIKey = strings.TrimSpace(getEnv("FEED_API_KEY", ""))
	cfg.FeedAPIHost = strings.TrimSpace(getEnv("FEED_API_HOST", "api-basketball.p.rapidapi.com"))
	cfg.FeedTimeout = p.positiveDuration("FEED_TIMEOUT", "10s")
	cfg.FeedCircuitEnabled = p.bool("FEED_CIRCUIT_ENABLED", "true")
	cfg.FeedCircuitFailureCount = p.intAtLeast("FEED_CIRCUIT_FAILURE_COUNT", 5, 1)
	cfg.FeedCircuitOpenTimeout = p.positiveDuration("FEED_CIRCUIT_OPEN_TIMEOUT", "30s")
	cfg.FeedCircuitHalfOpenMaxReq = p.intAtLeast("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 1, 1)

	cfg.SyncWorkers = p.intAtLeast("SYNC_WORKERS", 4, 1)
	cfg.SyncTargets = splitList(getEnv("SYNC_TARGETS", ""), ",")

	cfg.UptraceEnabled = p.bool("UPTRACE_ENABLED", "false")
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.UptraceLogsEnabled = p.bool("UPTRACE_LOGS_ENABLED", "false")

	cfg.PyroscopeEnabled = p.bool("PYROSCOPE_ENABLED", "false")
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate = p.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")

	cfg.PprofEnabled = p.bool("PPROF_ENABLED", "false")
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	switch c.AuthProvider {
	case AuthProviderAnubis:
		if c.AnubisBaseURL == "" {
			return fmt.Errorf("ANUBIS_BASE_URL is required when AUTH_PROVIDER=anubis")
		}
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("invalid AUTH_PROVIDER %q: valid values are %s, %s", c.AuthProvider, AuthProviderAnubis, AuthProviderJWT)
	}

	if c.RedisEnabled && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if c.FeedBaseURL == "" {
		return fmt.Errorf("FEED_BASE_URL cannot be empty")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	return nil
}

// parser keeps the first error so Load reads as a flat list of settings.
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (p *parser) bool(key, fallback string) bool {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(key, err)
	}
	return out
}

func (p *parser) duration(key, fallback string) time.Duration {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(key, err)
	}
	return out
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	out := p.duration(key, fallback)
	if out <= 0 && p.err == nil {
		p.err = fmt.Errorf("%s must be > 0", key)
	}
	return out
}

func (p *parser) intAtLeast(key string, fallback, min int) int {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	if out < min && p.err == nil {
		p.err = fmt.Errorf("%s must be >= %d", key, min)
	}
	return out
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	return splitList(v, ",")
}

func splitList(v, sep string) []string {
	parts := strings.Split(v, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
