package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	APIBaseURL string
	APIRPS     int
	APITimeout time.Duration

	RedisAddr string // empty: in-process session store
	RedisDB   int
	RedisPass string

	SessionTTL    time.Duration
	FlashTTL      time.Duration
	TokenMaxAge   int // seconds
	CookieSecure  bool
	RedirectDelay time.Duration
	StaticDir     string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		APIBaseURL:    env("API_BASE_URL", "http://localhost:3000/api/v1"),
		APIRPS:        atoi("API_RPS", 20),
		APITimeout:    time.Duration(atoi("API_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
		FlashTTL:      time.Duration(atoi("FLASH_TTL_SECONDS", 60)) * time.Second,
		TokenMaxAge:   atoi("TOKEN_MAX_AGE_SECONDS", 86400),
		CookieSecure:  boolean("COOKIE_SECURE", false),
		RedirectDelay: time.Duration(atoi("REVIEW_REDIRECT_MS", 500)) * time.Millisecond,
		StaticDir:     env("STATIC_DIR", ""),
	}
	if c.AppEnv != "dev" && !c.CookieSecure {
		log.Warn().Msg("COOKIE_SECURE is off outside dev")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func boolean(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
