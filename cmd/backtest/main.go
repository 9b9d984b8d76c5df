// cmd/backtest replays historical Binance candles through the full
// detector and decision pipeline with a long-only position model.
//
// Usage:
//
//	go run ./cmd/backtest --symbol=BTCUSDT --interval=1h --limit=500 --profile=Moderate
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-sentinelv1/internal/backtest"
	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/market"
	"crypto-sentinelv1/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	symbol := flag.String("symbol", "BTCUSDT", "Trading pair to replay")
	interval := flag.String("interval", "1h", "Binance kline interval")
	limit := flag.Int("limit", 500, "Number of candles to fetch")
	profileName := flag.String("profile", "Moderate", "Trend strength profile (Weak, Moderate, Strong)")
	minConf := flag.Int("min-confirmations", 2, "Detector confirmations required for a signal")
	equity := flag.Float64("equity", 10000, "Starting equity")
	warmup := flag.Int("warmup", 0, "Bars to skip before trading (0=longest EMA period)")
	flag.Parse()

	profile, err := model.ProfileByName(*profileName)
	if err != nil {
		log.Fatalf("[backtest] %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := market.NewClient(market.Config{})
	candles, err := client.Klines(ctx, *symbol, *interval, *limit)
	if err != nil {
		log.Fatalf("[backtest] fetch klines: %v", err)
	}
	if len(candles) == 0 {
		log.Fatalf("[backtest] no candles returned for %s %s", *symbol, *interval)
	}
	log.Printf("[backtest] %s %s: %d candles (%s .. %s)",
		*symbol, *interval, len(candles),
		candles[0].TS.Format(time.RFC3339), candles.Last().TS.Format(time.RFC3339))

	res := backtest.Run(candles, backtest.Config{
		Profile:       profile,
		Policy:        decision.PolicyFor(profile, *minConf),
		InitialEquity: *equity,
		Warmup:        *warmup,
	})

	fmt.Printf("\nBars tested:   %d\n", res.BarsTested)
	fmt.Printf("Closed trades: %d\n", len(res.Trades))
	for i, tr := range res.Trades {
		fmt.Printf("  #%-3d %s -> %s  %.2f -> %.2f  %+.2f%%\n",
			i+1,
			tr.EntryTime.Format("2006-01-02 15:04"),
			tr.ExitTime.Format("2006-01-02 15:04"),
			tr.EntryPrice, tr.ExitPrice, tr.Return*100)
	}
	if res.OpenPosition {
		fmt.Println("  (position still open at end of history)")
	}
	if len(res.Trades) > 0 {
		fmt.Printf("Win rate:      %.0f%%\n", res.WinRate*100)
	}
	fmt.Printf("Final equity:  %.2f (%+.2f%%)\n", res.FinalEquity, (res.FinalEquity / *equity - 1) * 100)

	if ctx.Err() != nil {
		os.Exit(130)
	}
}
