package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	UsersURL        string
	TransactionsURL string
	EmailsURL       string
	ScoringURL      string
	SinkURL         string
	SinkSecret      string
	Port            string
	HTTPTimeout     time.Duration
	LogLevel        slog.Level
	PeriodCount     int
	MaxUploadBytes  int64
	ListsFile       string
	Lists           Lists
}

// Lists son los catálogos externos que usa el motor.
type Lists struct {
	Professions    []string `yaml:"professions"`
	NonPayingPlans []string `yaml:"non_paying_plans"`
	OAuthSentinel  string   `yaml:"oauth_sentinel"`
}

// DefaultProfessions es la lista de profesiones objetivo si no hay archivo.
var DefaultProfessions = []string{
	"Engenheiro Civil",
	"Arquiteto",
	"Engenheiro Eletricista",
	"Engenheiro Mecânico",
	"Técnico em Edificações",
	"Designer de Interiores",
	"Estudante",
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		UsersURL:        os.Getenv("USERS_CSV_URL"),
		TransactionsURL: os.Getenv("TRANSACTIONS_CSV_URL"),
		EmailsURL:       os.Getenv("EMAILS_CSV_URL"),
		ScoringURL:      os.Getenv("SCORING_CSV_URL"),
		SinkURL:         os.Getenv("SINK_URL"),
		SinkSecret:      os.Getenv("SINK_SECRET"),
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     to,
		LogLevel:        lvl,
		PeriodCount:     intOr("PERIOD_COUNT", 4),
		MaxUploadBytes:  int64(intOr("MAX_UPLOAD_MB", 32)) << 20,
		ListsFile:       os.Getenv("LISTS_FILE"),
		Lists:           Lists{Professions: DefaultProfessions},
	}
}

// LoadLists lee el YAML de catálogos; los campos vacíos conservan el default.
func LoadLists(path string, def Lists) (Lists, error) {
	if path == "" {
		return def, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read lists file: %w", err)
	}
	var f Lists
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return def, fmt.Errorf("parse lists file: %w", err)
	}
	out := def
	if len(f.Professions) > 0 {
		out.Professions = f.Professions
	}
	if len(f.NonPayingPlans) > 0 {
		out.NonPayingPlans = f.NonPayingPlans
	}
	if f.OAuthSentinel != "" {
		out.OAuthSentinel = f.OAuthSentinel
	}
	return out, nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func intOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
