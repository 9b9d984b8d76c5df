// cmd/alertbot runs the signal fusion alert service: it polls Binance
// candles for the configured symbols, fuses the detector verdicts into
// trade decisions and delivers change-gated alerts to Telegram and
// webhook backends.
//
// Config (env vars, .env supported):
//
//	SYMBOLS            — comma-separated pairs        (default: "BTCUSDT,ETHUSDT")
//	INTERVAL           — Binance kline interval       (default: "1h")
//	TREND_STRENGTH     — Weak, Moderate or Strong     (default: "Moderate")
//	POLL_SLEEP         — pause between passes         (default: "5m")
//	FULL_REFRESH       — forced re-alert interval     (default: "24h")
//	REDIS_ADDR         — state cache address          (default: "localhost:6379")
//	SQLITE_PATH        — decision journal path        (default: "data/decisions.db")
//	TELEGRAM_BOT_TOKEN — Telegram backend, optional
//	WEBHOOK_URL        — webhook backend, optional
//	METRICS_ADDR       — /metrics and /healthz        (default: ":9090")
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crypto-sentinelv1/config"
	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/gate"
	"crypto-sentinelv1/internal/logger"
	"crypto-sentinelv1/internal/market"
	"crypto-sentinelv1/internal/metrics"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/monitor"
	"crypto-sentinelv1/internal/notification"
	redisstore "crypto-sentinelv1/internal/store/redis"
	sqlitestore "crypto-sentinelv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	if err := godotenv.Load(); err == nil {
		log.Println("[alertbot] loaded .env")
	}

	cfg := config.Load()
	logger.Init("alertbot", slog.LevelInfo)

	profile, err := model.ProfileByName(cfg.TrendStrength)
	if err != nil {
		log.Fatalf("[alertbot] %v", err)
	}
	symbols := cfg.ParseSymbols()
	if len(symbols) == 0 {
		log.Fatal("[alertbot] no symbols configured")
	}
	log.Printf("[alertbot] profile %s, symbols %v", cfg.TrendStrength, symbols)

	// ---- Metrics and health ----
	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// ---- State cache ----
	cache, err := redisstore.New(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TTL:      cfg.CacheTTL,
	})
	if err != nil {
		log.Fatalf("[alertbot] redis init failed: %v", err)
	}
	defer cache.Close()
	health.SetRedisConnected(true)

	cache.Breaker().OnStateChange = func(from, to redisstore.State) {
		log.Printf("[alertbot] redis circuit breaker: %s -> %s", from, to)
		prom.RedisCircuitBreakerState.Set(float64(to))
		if to == redisstore.StateOpen {
			prom.RedisCircuitBreakerTrips.Inc()
		}
		health.SetRedisConnected(to != redisstore.StateOpen)
	}

	// ---- Decision journal ----
	os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
	journal, err := sqlitestore.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[alertbot] sqlite init failed: %v", err)
	}
	defer journal.Close()
	health.SetSQLiteOK(true)

	// ---- Notification backends ----
	backends := []notification.Notifier{notification.NewLogNotifier()}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		backends = append(backends, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Println("[alertbot] telegram backend enabled")
	}
	if cfg.WebhookURL != "" {
		backends = append(backends, notification.NewWebhookNotifier(cfg.WebhookURL))
		log.Println("[alertbot] webhook backend enabled")
	}

	// ---- Market data ----
	client := market.NewClient(market.Config{})
	stream := market.NewStream("", symbols)

	svc := monitor.New(monitor.Config{
		Symbols:     symbols,
		Interval:    cfg.Interval,
		CandleLimit: cfg.CandleLimit,
		PollSleep:   cfg.PollSleep,
		FullRefresh: cfg.FullRefresh,
		Profile:     profile,
		Policy:      decision.PolicyFor(profile, cfg.MinConfirmations),
	}, monitor.Deps{
		Market:   client,
		Gate:     gate.New(cache),
		Journal:  journal,
		Notifier: notification.NewMulti(backends...),
		Metrics:  prom,
		Health:   health,
		Cache:    cache,
		Stream:   stream,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = svc.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Stop(shutdownCtx)

	if err != nil && err != context.Canceled {
		log.Fatalf("[alertbot] fatal: %v", err)
	}
}
