// Package config provides centralized default values for the Locatrova backend
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env overrides without clobbering variables already
// present in the process environment.
func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loaded configuration overrides from .env file")
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s (default: %q)", key, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const (
	SheetsBackendGoogle = "google"
	SheetsBackendSQLite = "sqlite"
)

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	CORSOrigins        []string

	// Logging
	LogFormat    string
	LogLevel     string
	LogDirectory string

	// Email
	ResendAPIKey                string
	EmailFrom                   string
	NotificationEmailRecipient  string
	AbandonmentEmailRecipient   string
	DefaultAbandonmentRecipient string

	// Abandonment tracking
	AbandonmentTrackingEnabled bool
	AbandonmentMaxPayloadBytes int
	DedupRetention             time.Duration
	DedupSweepInterval         time.Duration
	RedisURL                   string
	RedisKeyPrefix             string

	// Spreadsheet store
	GoogleSheetsID          string
	SheetsBackend           string
	SheetsSQLitePath        string
	TursoDatabaseURL        string
	TursoAuthToken          string
	GoogleSheetsAccessToken string
	SheetsTimeout           time.Duration
)

func init() {
	Load()
}

// Load (re)reads every setting from the environment.
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{
		"http://localhost:5000",
		"http://localhost:5173",
		"http://127.0.0.1:5000",
		"http://127.0.0.1:5173",
	})

	// Logging
	LogFormat = getEnvString("LOG_FORMAT", "json")
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogDirectory = os.Getenv("LOG_DIR")

	// Email
	ResendAPIKey = os.Getenv("RESEND_API_KEY")
	EmailFrom = getEnvString("EMAIL_FROM", "Locatrova <onboarding@resend.dev>")
	NotificationEmailRecipient = getEnvString("NOTIFICATION_EMAIL_RECIPIENT", "alessiopersichettidev@gmail.com")
	DefaultAbandonmentRecipient = "alessiopersichettidev@gmail.com"
	AbandonmentEmailRecipient = os.Getenv("ABANDONMENT_EMAIL_RECIPIENT")

	// Abandonment tracking is opt-in: only the literal "true" enables it.
	AbandonmentTrackingEnabled = os.Getenv("ENABLE_ABANDONMENT_TRACKING") == "true"
	AbandonmentMaxPayloadBytes = getEnvInt("ABANDONMENT_MAX_PAYLOAD_BYTES", 50000)
	DedupRetention = time.Duration(getEnvInt("DEDUP_RETENTION_HOURS", 24)) * time.Hour
	DedupSweepInterval = time.Duration(getEnvInt("DEDUP_SWEEP_INTERVAL_MINUTES", 60)) * time.Minute
	RedisURL = os.Getenv("REDIS_URL")
	RedisKeyPrefix = getEnvString("REDIS_KEY_PREFIX", "locatrova:abandonment:")

	// Spreadsheet store
	GoogleSheetsID = os.Getenv("GOOGLE_SHEETS_ID")
	SheetsBackend = strings.ToLower(getEnvString("SHEETS_BACKEND", SheetsBackendGoogle))
	SheetsSQLitePath = getEnvString("SHEETS_SQLITE_PATH", "data/sheets.db")
	TursoDatabaseURL = os.Getenv("TURSO_DATABASE_URL")
	TursoAuthToken = os.Getenv("TURSO_AUTH_TOKEN")
	GoogleSheetsAccessToken = os.Getenv("GOOGLE_SHEETS_ACCESS_TOKEN")
	SheetsTimeout = getEnvDuration("SHEETS_TIMEOUT", 20*time.Second)
}

// AbandonmentRecipient returns the override recipient when set.
func AbandonmentRecipient() string {
	if AbandonmentEmailRecipient != "" {
		return AbandonmentEmailRecipient
	}
	return DefaultAbandonmentRecipient
}
