package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr     string
	BackendURL     string
	BackendTimeout time.Duration
	DBPath         string
	CSRFKey        string
	CSRFSecure     bool
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:3000"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 15*time.Second),
		DBPath:         getEnv("DB_PATH", "/data/hospmeals.db"),
		CSRFKey:        getEnv("CSRF_KEY", ""),
		CSRFSecure:     os.Getenv("CSRF_SECURE") == "1",
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}
