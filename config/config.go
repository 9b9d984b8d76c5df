package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Market data
	Symbols     string // comma-separated, e.g. "BTCUSDT,ETHUSDT"
	Interval    string // Binance kline interval, e.g. "1h"
	CandleLimit int

	// Evaluation loop
	PollSleep     time.Duration // pause between full passes over the symbol list
	FullRefresh   time.Duration // interval at which alerts are re-sent regardless of change
	TrendStrength string        // Weak, Moderate or Strong

	// Decision policy
	MinConfirmations int

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration
	SQLitePath    string
	MetricsAddr   string

	// Notification backends
	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Symbols:     getEnv("SYMBOLS", "BTCUSDT,ETHUSDT"),
		Interval:    getEnv("INTERVAL", "1h"),
		CandleLimit: getEnvInt("CANDLE_LIMIT", 500),

		PollSleep:     getEnvDuration("POLL_SLEEP", 5*time.Minute),
		FullRefresh:   getEnvDuration("FULL_REFRESH", 24*time.Hour),
		TrendStrength: getEnv("TREND_STRENGTH", "Moderate"),

		MinConfirmations: getEnvInt("MIN_CONFIRMATIONS", 2),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheTTL:      getEnvDuration("CACHE_TTL", 48*time.Hour),
		SQLitePath:    getEnv("SQLITE_PATH", "data/decisions.db"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),

		// Telegram is optional; when the token is empty alerts go to the log only
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// ParseSymbols splits the Symbols string into a clean, upper-cased slice.
func (c *Config) ParseSymbols() []string {
	parts := strings.Split(c.Symbols, ",")
	syms := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		syms = append(syms, p)
	}
	return syms
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
