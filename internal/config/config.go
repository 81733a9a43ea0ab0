package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env               string
	HTTPPort          string
	DatabasePath      string
	RedisAddr         string
	SessionBackend    string
	SessionSecret     string
	SessionTTL        time.Duration
	AdminUsername     string
	AdminPasswordHash string
	DeviceAPIKey      string
	WebDir            string
	RateLimitPerMin   int
}

// Load returns application config populated from environment variables.
// Admin credentials, the session secret, and the device key have no usable
// defaults: startup fails when they are unset.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment directly")
	}

	cfg := App{
		Env:               getEnv("APP_ENV", "dev"),
		HTTPPort:          getEnv("HTTP_PORT", "3000"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/absensi.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		SessionBackend:    getEnv("SESSION_BACKEND", "memory"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        durationEnv("SESSION_TTL", 12*time.Hour),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		DeviceAPIKey:      os.Getenv("DEVICE_API_KEY"),
		WebDir:            getEnv("WEB_DIR", "web"),
		RateLimitPerMin:   intEnv("RATE_LIMIT_PER_MIN", 240),
	}

	var missing []string
	if cfg.AdminUsername == "" {
		missing = append(missing, "ADMIN_USERNAME")
	}
	if cfg.AdminPasswordHash == "" {
		missing = append(missing, "ADMIN_PASSWORD_HASH")
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if cfg.DeviceAPIKey == "" {
		missing = append(missing, "DEVICE_API_KEY")
	}
	if len(missing) > 0 {
		return App{}, errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
