package config

import (
	"os"
	"strconv"
	"time"
)

// ERPConfig holds connection settings for the 1C HTTP API.
// Env variables use the C1_* prefix kept from the legacy deployment.
type ERPConfig struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	BatchSize int
}

func LoadERPConfig() ERPConfig {
	timeout := envInt("C1_API_TIMEOUT_SECONDS", 60)
	batch := envInt("C1_API_BATCH_SIZE", 50)
	return ERPConfig{
		BaseURL:   os.Getenv("C1_API_URL"),
		Username:  os.Getenv("C1_API_USER"),
		Password:  os.Getenv("C1_API_PASSWORD"),
		Timeout:   time.Duration(timeout) * time.Second,
		BatchSize: batch,
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
