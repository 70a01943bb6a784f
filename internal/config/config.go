package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	PhotoPath      string
	LogLevel       string
	LogFile        string
	Timezone       string // IANA name; every recorded timestamp uses this zone
	DashboardLimit int    // max rows per dashboard view, 0 = unlimited
	StoreRetries   uint   // attempts per store call on transient failure
	SessionTTL     time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "/data/gatepass.db"),
		PhotoPath:      getEnv("PHOTO_LOCAL_PATH", "/data/photos"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		Timezone:       getEnv("TIMEZONE", "Asia/Kolkata"),
		DashboardLimit: getEnvInt("DASHBOARD_ROW_LIMIT", 0),
		StoreRetries:   uint(getEnvInt("STORE_RETRIES", 3)),
		SessionTTL:     getEnvDuration("SESSION_TTL", 12*time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
