package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	FirebaseApiKey  string
	Environment     string
	JWTSecret       string
	JWTExpiry       int64

	// Presence tuning. Defaults match the windows the rest of the system is
	// calibrated for: two heartbeats land inside one offline threshold, so a
	// single dropped write does not flap the indicator.
	OfflineThreshold  time.Duration
	HeartbeatInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FirebaseProject:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:    getEnv("FIREBASE_API_KEY", ""),
		Environment:       getEnv("ENVIRONMENT", "development"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:         getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		OfflineThreshold:  getEnvAsSeconds("PRESENCE_OFFLINE_THRESHOLD_SECONDS", 30),
		HeartbeatInterval: getEnvAsSeconds("PRESENCE_HEARTBEAT_SECONDS", 10),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSeconds(key string, defaultSeconds int64) time.Duration {
	return time.Duration(getEnvAsInt64(key, defaultSeconds)) * time.Second
}
