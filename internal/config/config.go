package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string // Base URL embedded in verification links and QR codes
	Port    string

	// Admin identity
	AdminUser     string
	AdminPass     string
	AdminPassHash string // Optional bcrypt hash; takes precedence over AdminPass

	// Sessions
	SessionSecret string
	SessionExpiry time.Duration // Absolute timeout, not sliding

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Certificate image storage
	StorageDriver string // "disk" or "s3"
	CertsDir      string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3Endpoint    string // Optional: for S3-compatible services (MinIO, R2, etc.)

	// Rasterization
	ChromePath           string // Optional explicit browser executable override
	RenderSettleDelay    time.Duration
	RenderTimeout        time.Duration
	MaxConcurrentRenders int

	// Email notifications (optional)
	ResendAPIKey string
	EmailFrom    string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Certmint"),
		AppEnv:  envString("APP_ENV", "development"),
		AppURL:  envRequired("APP_URL"), // Required: verification URLs are baked into issued images
		Port:    envString("PORT", "3000"),

		// Admin identity
		AdminUser:     envString("ADMIN_USER", "admin"),
		AdminPass:     envString("ADMIN_PASS", "admin123"),
		AdminPassHash: envString("ADMIN_PASS_HASH", ""),

		// Sessions
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionExpiry: envDuration("SESSION_EXPIRY", 2*time.Hour),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/certmint.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "disk"),
		CertsDir:      envString("CERTS_DIR", "./data/certs"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		// Rasterization
		ChromePath:           envString("CHROME_PATH", ""),
		RenderSettleDelay:    envDuration("RENDER_SETTLE_DELAY", 300*time.Millisecond),
		RenderTimeout:        envDuration("RENDER_TIMEOUT", 60*time.Second),
		MaxConcurrentRenders: envInt("MAX_CONCURRENT_RENDERS", 2),

		// Email
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects configurations that are only acceptable for
// local development, like shipping with the default admin password.
func validateProduction(cfg *Config) {
	if cfg.AdminPassHash == "" && cfg.AdminPass == "admin123" {
		slog.Error("production deployment requires ADMIN_PASS or ADMIN_PASS_HASH",
			"hint", "set APP_ENV=development for local testing with default credentials")
		os.Exit(1)
	}
	if cfg.StorageDriver == "s3" && (cfg.S3Bucket == "" || cfg.S3Region == "") {
		slog.Error("STORAGE_DRIVER=s3 requires S3_BUCKET and S3_REGION")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
