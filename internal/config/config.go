// internal/config/config.go
// Loader konfigurasi dari environment variables

package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	LogLevel string

	JWTSecret    string
	DeviceAPIKey string

	MySQL struct {
		Host     string
		Port     string
		DB       string
		User     string
		Password string
		MaxOpen  int
		MaxIdle  int
	}

	Kafka struct {
		Brokers []string
		Topic   string
		GroupID string
	}

	// ModelPath: file koefisien model JSON hasil training offline.
	// Kosong = semua jalur model pakai fallback.
	ModelPath string

	// TariffFixedCharge: override biaya tetap bulanan; <0 = pakai default.
	TariffFixedCharge float64

	// AlertWebhookURL: endpoint gateway SMS/WhatsApp untuk alert.
	// Kosong = alert hanya ke log proses.
	AlertWebhookURL string

	LLM struct {
		APIKey string
		Model  string
	}
}

func Load() *Config {
	c := &Config{}
	c.AppName = getEnv("APP_NAME", "gram-meter")
	c.AppEnv = getEnv("APP_ENV", "development")
	c.AppPort = getEnv("APP_PORT", "8080")
	c.LogLevel = getEnv("LOG_LEVEL", "debug")

	c.JWTSecret = getEnv("JWT_SECRET", "")
	c.DeviceAPIKey = getEnv("DEVICE_API_KEY", "")

	c.MySQL.Host = getEnv("MYSQL_HOST", "localhost")
	c.MySQL.Port = getEnv("MYSQL_PORT", "3306")
	c.MySQL.DB = getEnv("MYSQL_DB", "gram_meter")
	c.MySQL.User = getEnv("MYSQL_USER", "root")
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", "")
	c.MySQL.MaxOpen = getEnvInt("MYSQL_MAX_OPEN_CONNS", 20)
	c.MySQL.MaxIdle = getEnvInt("MYSQL_MAX_IDLE_CONNS", 10)

	c.Kafka.Brokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", "meter-readings")
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", "gram-meter-ingest")

	c.ModelPath = getEnv("MODEL_PATH", "")
	c.TariffFixedCharge = getEnvFloat("TARIFF_FIXED_CHARGE", -1)
	c.AlertWebhookURL = getEnv("ALERT_WEBHOOK_URL", "")

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
	c.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")

	if c.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set, authenticated routes will reject all requests")
	}
	if c.LLM.APIKey == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set, advisor runs in template mode")
	}

	return c
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		var f float64
		_, err := fmt.Sscanf(v, "%g", &f)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		_, err := fmt.Sscanf(v, "%d", &i)
		if err == nil {
			return i
		}
	}
	return def
}
