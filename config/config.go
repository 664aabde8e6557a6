package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token               string
	MainAdminID         int64
	AdminIDs            []int64
	OwnerEmail          string
	ServiceAccountEmail string
	CredentialsFile     string
	DBPath              string
	QuestionsFile       string
	Addr                string
	PeriodMaxAge        time.Duration
	Debug               bool
}

// Parse reads flags for everything operational and the environment
// (optionally seeded from a .env file) for secrets and identities.
func Parse() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "health endpoint listen host")
	var port uint
	flag.UintVar(&port, "port", 8080, "health endpoint listen port")
	flag.StringVar(&cfg.DBPath, "db-path", "pulsebot.sqlite", "path to SQLite3 DB file")
	flag.StringVar(&cfg.QuestionsFile, "questions", "questions.yaml", "path to YAML question list")
	flag.StringVar(&cfg.CredentialsFile, "credentials", "credentials.json", "path to Google service account credentials")
	var maxAge uint
	flag.UintVar(&maxAge, "period-max-age", 7*24, "active period max age in hours before lazy rotation")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.PeriodMaxAge = time.Duration(maxAge) * time.Hour

	cfg.Token = os.Getenv("TELEGRAM_TOKEN")
	if cfg.Token == "" {
		return cfg, errors.New("missing environment variable TELEGRAM_TOKEN")
	}

	mainAdmin := os.Getenv("MAIN_ADMIN_ID")
	cfg.MainAdminID, err = strconv.ParseInt(mainAdmin, 10, 64)
	if err != nil {
		return cfg, errors.New("missing or malformed environment variable MAIN_ADMIN_ID")
	}

	cfg.AdminIDs, err = parseIDList(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return cfg, errors.New("malformed environment variable ADMIN_IDS")
	}

	cfg.OwnerEmail = os.Getenv("OWNER_EMAIL")
	cfg.ServiceAccountEmail = os.Getenv("SERVICE_ACCOUNT_EMAIL")

	return cfg, nil
}

func parseIDList(raw string) (ids []int64, err error) {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
