package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	Store       string // mysql|memory
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	JWTSecret   string
	CupidBase   string
	CupidKey    string
	Workers     int
	PropertyIDs []int64
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		Store:       strings.ToLower(env("STORE", "mysql")),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/ticket_hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSecret:   env("JWT_SECRET", ""),
		CupidBase:   env("CUPID_BASE_URL", "https://content-api.cupid.travel/v3.0"),
		CupidKey:    env("CUPID_API_KEY", ""),
		Workers:     atoi("IMPORT_WORKERS", 8),
		PropertyIDs: parseIDs(os.Getenv("IMPORT_PROPERTY_IDS")),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every request will be rejected")
	}
	return c
}

// parseIDs reads a comma separated id list, skipping junk entries.
func parseIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Str("value", part).Msg("ignoring invalid property id")
			continue
		}
		out = append(out, id)
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
