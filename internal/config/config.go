package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CookieSecure         bool

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	LogLevel  string
	LogFormat string

	SessionSecret string
	SyncSecret    string
	EncryptionKey string

	MessagingAPIBase string
	PhoneCountryCode string
	PublicBaseURL    string

	StorageRootFolder        string
	StorageServiceCredential string

	WorkerEnabled bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		CookieSecure:         getenv("COOKIE_SECURE", "true") == "true",

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		SessionSecret: getenv("SESSION_SECRET", ""),
		SyncSecret:    getenv("AUTH_SYNC_SECRET", ""),
		EncryptionKey: getenv("ENCRYPTION_KEY", ""),

		MessagingAPIBase: strings.TrimRight(getenv("WHATSAPP_API_BASE", "https://graph.facebook.com/v21.0"), "/"),
		PhoneCountryCode: getenv("PHONE_COUNTRY_CODE", "234"),
		PublicBaseURL:    strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),

		StorageRootFolder:        getenv("DRIVE_ROOT_FOLDER_ID", ""),
		StorageServiceCredential: getenv("DRIVE_SERVICE_ACCOUNT_JSON", ""),

		WorkerEnabled: getenv("WORKER_ENABLED", "true") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var errs *multierror.Error
	var err error

	if cfg.DBMaxOpenConns, err = getint("DB_MAX_OPEN_CONNS", 25); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.DBMaxIdleConns, err = getint("DB_MAX_IDLE_CONNS", 5); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.DBConnMaxLifetime, err = time.ParseDuration(getenv("DB_CONN_MAX_LIFETIME", "5m")); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	return cfg, errs.ErrorOrNil()
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	required := map[string]string{
		"DATABASE_URL":     c.DatabaseURL,
		"SESSION_SECRET":   c.SessionSecret,
		"ENCRYPTION_KEY":   c.EncryptionKey,
		"AUTH_SYNC_SECRET": c.SyncSecret,
	}
	for _, key := range []string{"DATABASE_URL", "SESSION_SECRET", "ENCRYPTION_KEY", "AUTH_SYNC_SECRET"} {
		if required[key] == "" {
			errs = multierror.Append(errs, fmt.Errorf("missing env: %s", key))
		}
	}
	if c.PhoneCountryCode != "" {
		if _, err := strconv.ParseUint(c.PhoneCountryCode, 10, 16); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("PHONE_COUNTRY_CODE must be digits, got %q", c.PhoneCountryCode))
		}
	}
	return errs.ErrorOrNil()
}

// UploadsEnabled is false when no storage credential is configured.
func (c Config) UploadsEnabled() bool {
	return c.StorageServiceCredential != "" && c.StorageRootFolder != ""
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) (int, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
