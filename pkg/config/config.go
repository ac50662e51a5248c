package config

import (
	"errors"
	"fmt"
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

	CORS    CORSConfig
	Log     LogConfig
	Auth    AuthConfig
	Passes  PassConfig
	Data    DataConfig
	Reports ReportsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig covers the single admin credential and its session tokens.
type AuthConfig struct {
	JWTSecret       string
	TokenExpiry     time.Duration
	DefaultPassword string
}

// Window is one raw schedule entry; parsing into domain types happens in the
// schedule service so a bad table fails loudly at startup.
type Window struct {
	Period string
	Start  string
	End    string
}

// PassConfig tunes the slot pool and the schedule table.
type PassConfig struct {
	Slots             int
	Windows           []Window
	LongThreshold     time.Duration
	VeryLongThreshold time.Duration
}

// DataConfig names the flat files the service loads and persists.
type DataConfig struct {
	RosterFile      string
	PassLogFile     string
	AuditLogFile    string
	CredentialsFile string
	PersistRetries  int
	PersistDelay    time.Duration
}

// ReportsConfig controls export storage and signed download links.
type ReportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenExpiry:     parseDuration(v.GetString("JWT_EXPIRATION"), 8*time.Hour),
		DefaultPassword: v.GetString("ADMIN_DEFAULT_PASSWORD"),
	}

	windows, err := parseWindows(v.GetString("SCHEDULE_WINDOWS"))
	if err != nil {
		return nil, err
	}
	cfg.Passes = PassConfig{
		Slots:             v.GetInt("PASS_SLOTS"),
		Windows:           windows,
		LongThreshold:     parseDuration(v.GetString("LONG_PASS_THRESHOLD"), 5*time.Minute),
		VeryLongThreshold: parseDuration(v.GetString("VERY_LONG_PASS_THRESHOLD"), 10*time.Minute),
	}

	cfg.Data = DataConfig{
		RosterFile:      v.GetString("ROSTER_FILE"),
		PassLogFile:     v.GetString("PASS_LOG_FILE"),
		AuditLogFile:    v.GetString("AUDIT_LOG_FILE"),
		CredentialsFile: v.GetString("CREDENTIALS_FILE"),
		PersistRetries:  v.GetInt("PERSIST_RETRIES"),
		PersistDelay:    parseDuration(v.GetString("PERSIST_RETRY_DELAY"), time.Second),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:      v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "8h")
	v.SetDefault("ADMIN_DEFAULT_PASSWORD", "pass")

	v.SetDefault("PASS_SLOTS", 2)
	// The bell schedule of the original deployment.
	v.SetDefault("SCHEDULE_WINDOWS",
		"0=08:25-08:30,1=08:33-09:15,2=09:18-10:00,3=10:03-10:45,4.5=10:48-11:30,"+
			"7.8=12:03-12:45,9=12:48-13:30,10=13:33-14:15,11=14:18-15:00,12=15:00-20:00")
	v.SetDefault("LONG_PASS_THRESHOLD", "5m")
	v.SetDefault("VERY_LONG_PASS_THRESHOLD", "10m")

	v.SetDefault("ROSTER_FILE", "masterlist.csv")
	v.SetDefault("PASS_LOG_FILE", "passlog.json")
	v.SetDefault("AUDIT_LOG_FILE", "auditlog.json")
	v.SetDefault("CREDENTIALS_FILE", "credentials.json")
	v.SetDefault("PERSIST_RETRIES", 3)
	v.SetDefault("PERSIST_RETRY_DELAY", "1s")

	v.SetDefault("REPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "30m")
}

// parseWindows expands "1=08:33-09:15,2=09:18-10:00" into raw window entries.
func parseWindows(raw string) ([]Window, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	windows := make([]Window, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		dash := strings.IndexByte(part, '-')
		if eq <= 0 || dash <= eq {
			return nil, fmt.Errorf("invalid schedule window %q", part)
		}
		windows = append(windows, Window{
			Period: part[:eq],
			Start:  part[eq+1 : dash],
			End:    part[dash+1:],
		})
	}
	return windows, nil
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
