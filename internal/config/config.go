package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgcfg "github.com/Skotchmaster/shop_admin/pkg/config"
)

const (
	DefaultAPIURL     = "http://localhost:5000/api"
	DefaultAuditTopic = "admin_events"
)

type Config struct {
	APIURL       string
	HTTPTimeout  time.Duration
	LogLevel     string
	SessionDSN   string
	KafkaBrokers []string
	AuditTopic   string
}

// LoadConfig reads an optional .env file and then the process environment.
// A zero HTTPTimeout leaves the transport default in place.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Debug("env_file_not_loaded", "path", envFile, "error", err)
		}
	}

	cfg := &Config{
		APIURL:       strings.TrimRight(pkgcfg.EnvDefault("ADMIN_API_URL", DefaultAPIURL), "/"),
		HTTPTimeout:  pkgcfg.EnvDurationDefault("ADMIN_HTTP_TIMEOUT", 0),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		SessionDSN:   pkgcfg.EnvDefault("ADMIN_SESSION_DSN", DefaultSessionDSN()),
		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:   pkgcfg.EnvDefault("ADMIN_AUDIT_TOPIC", DefaultAuditTopic),
	}

	if err := pkgcfg.NonEmpty(cfg.APIURL, "ADMIN_API_URL"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultSessionDSN points at a sqlite file next to the rest of the user's config.
func DefaultSessionDSN() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "shop-admin", "session.db")
}
