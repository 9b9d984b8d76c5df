// Package backtest replays the full detector and decision pipeline over
// historical candles with a long-only position model. Indicators are
// computed once over the whole history; each bar is then evaluated with
// only the data available up to that bar.
package backtest

import (
	"time"

	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/detector"
	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/trend"
)

// Trade is one closed round trip.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Return     float64 // fractional, e.g. 0.05 for +5%
}

// Result summarizes a backtest run.
type Result struct {
	Trades       []Trade
	FinalEquity  float64
	WinRate      float64 // closed trades with positive return
	OpenPosition bool    // still long at the end of history
	BarsTested   int
}

// Config tunes a run. Zero values fall back to sensible defaults.
type Config struct {
	Profile       model.Profile
	Policy        decision.Policy
	InitialEquity float64 // default 10000
	Warmup        int     // bars skipped before trading; default longest EMA period
}

// Run walks the candle history bar by bar, entering long on a BUY
// decision and exiting on SELL. An open position at the end of history
// is marked to market at the final close.
func Run(candles model.Series, cfg Config) Result {
	equity := cfg.InitialEquity
	if equity <= 0 {
		equity = 10000
	}
	warmup := cfg.Warmup
	if warmup <= 0 {
		warmup = cfg.Profile.EMALongest()
	}

	res := Result{FinalEquity: equity}
	if len(candles) < 2 || warmup >= len(candles) {
		return res
	}

	highs := candles.Highs()
	lows := candles.Lows()
	closes := candles.Closes()
	volumes := candles.Volumes()

	icfg := indicator.DefaultConfig(cfg.Profile.EMAPeriods, cfg.Profile.RSIPeriod, cfg.Profile.BreakoutPct)
	frame := indicator.Compute(highs, lows, closes, volumes, icfg)
	registry := detector.Registry()

	var (
		inPosition bool
		entryPrice float64
		entryTime  time.Time
		wins       int
	)

	for i := warmup; i < len(candles); i++ {
		// Truncated slices keep the classifier from seeing the future.
		regime := trend.Classify(frame, closes[:i+1], cfg.Profile)

		ctx := detector.Context{
			Frame:   frame,
			Candles: candles,
			Index:   i,
			Profile: cfg.Profile,
			Trend:   regime,
		}
		vector := make(model.ConfirmationVector, len(model.DetectorNames))
		for _, d := range registry {
			vector[d.Name()] = d.Evaluate(ctx)
		}

		dec := decision.Aggregate(decision.Inputs{
			Vector:    vector,
			Trend:     regime,
			ADX:       frame.ADX[i],
			Volume:    volumes[i],
			VolumeMA:  frame.VolumeMA[i],
			Close:     closes[i],
			PrevClose: closes[i-1],
		}, cfg.Policy)

		res.BarsTested++

		switch dec.Action {
		case model.ActionBuy:
			if !inPosition {
				inPosition = true
				entryPrice = closes[i]
				entryTime = candles[i].TS
			}
		case model.ActionSell:
			if inPosition {
				ret := closes[i]/entryPrice - 1
				equity *= 1 + ret
				if ret > 0 {
					wins++
				}
				res.Trades = append(res.Trades, Trade{
					EntryTime:  entryTime,
					ExitTime:   candles[i].TS,
					EntryPrice: entryPrice,
					ExitPrice:  closes[i],
					Return:     ret,
				})
				inPosition = false
			}
		}
	}

	if inPosition {
		// Mark to market without booking a trade.
		equity *= closes[len(closes)-1] / entryPrice
		res.OpenPosition = true
	}

	res.FinalEquity = equity
	if len(res.Trades) > 0 {
		res.WinRate = float64(wins) / float64(len(res.Trades))
	}
	return res
}
