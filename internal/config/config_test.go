package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

// isolate points ENV_FILE at a missing file so a developer's .env never leaks
// into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("AUTH_PROVIDER", AuthProviderAnubis)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "basket-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DB_URL by default, got %q", cfg.DBURL)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled in dev")
	}
	if cfg.FeedTimeout != 10*time.Second {
		t.Fatalf("unexpected feed timeout: %s", cfg.FeedTimeout)
	}
	if cfg.SyncWorkers != 4 {
		t.Fatalf("unexpected sync workers: %d", cfg.SyncWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
}

func TestLoad_SwaggerDisabledByDefaultInProd(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod")
	}
}

func TestLoad_AuthProvider(t *testing.T) {
	isolate(t)

	t.Setenv("AUTH_PROVIDER", "saml")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown AUTH_PROVIDER")
	}

	t.Setenv("AUTH_PROVIDER", "JWT")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when AUTH_PROVIDER=jwt without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_ADMIN_ROLE", "ops")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthProvider != AuthProviderJWT || cfg.AuthAdminRole != "ops" {
		t.Fatalf("unexpected auth config: %q %q", cfg.AuthProvider, cfg.AuthAdminRole)
	}
}

func TestLoad_FeedAndSyncParsing(t *testing.T) {
	isolate(t)
	t.Setenv("FEED_API_KEY", "key-1")
	t.Setenv("FEED_TIMEOUT", "4s")
	t.Setenv("FEED_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("SYNC_TARGETS", "league=176&season=2023-2024, date=2024-03-09 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedAPIKey != "key-1" || cfg.FeedTimeout != 4*time.Second || cfg.FeedCircuitFailureCount != 3 {
		t.Fatalf("unexpected feed config: %+v", cfg)
	}
	if cfg.SyncWorkers != 8 {
		t.Fatalf("unexpected sync workers: %d", cfg.SyncWorkers)
	}
	want := []string{"league=176&season=2023-2024", "date=2024-03-09"}
	if len(cfg.SyncTargets) != len(want) || cfg.SyncTargets[0] != want[0] || cfg.SyncTargets[1] != want[1] {
		t.Fatalf("unexpected sync targets: %v", cfg.SyncTargets)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"FEED_TIMEOUT":                 "0s",
		"CACHE_TTL":                    "soon",
		"SYNC_WORKERS":                 "0",
		"REDIS_DB":                     "-1",
		"CACHE_ENABLED":                "maybe",
		"ANUBIS_CIRCUIT_FAILURE_COUNT": "x",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	isolate(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	isolate(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar,uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	isolate(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	isolate(t)
	t.Setenv("APP_SERVICE_NAME", "basket-sync")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "basket-sync" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	isolate(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "FEED_API_HOST=feed.example.com\nINTERNAL_JOB_TOKEN=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	// Registered so t.Setenv restores them; godotenv skips keys already set
	// to a non-empty value, so start them empty.
	t.Setenv("FEED_API_HOST", "")
	t.Setenv("INTERNAL_JOB_TOKEN", "")
	os.Unsetenv("FEED_API_HOST")
	os.Unsetenv("INTERNAL_JOB_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FeedAPIHost != "feed.example.com" || cfg.InternalJobToken != "from-file" {
		t.Fatalf("env file not applied: host=%q token=%q", cfg.FeedAPIHost, cfg.InternalJobToken)
	}
}
