// Package sentiment produces the best-effort enrichment blocks of an
// alert: funding-rate market sentiment and whale activity. Every
// function degrades to an explicit "unavailable" string on collaborator
// failure; enrichment never aborts an evaluation cycle.
package sentiment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"crypto-sentinelv1/internal/market"
	"crypto-sentinelv1/internal/model"
)

// DataSource is the subset of the market client the enrichment needs.
type DataSource interface {
	FundingRates(ctx context.Context, symbol string, limit int) ([]market.FundingRate, error)
	WhaleTransactions(ctx context.Context, minBTC float64, limit int) ([]market.WhaleTransaction, error)
	DailyVolumes(ctx context.Context, symbol string, n int) ([]float64, error)
}

const (
	fundingRateLimit = 30
	whaleMinBTC      = 1000
	whaleTxnLimit    = 5
	// day-over-day volume jump considered significant
	volumeJumpPct = 50.0
)

// MarketSentiment fetches recent funding rates and classifies them.
func MarketSentiment(ctx context.Context, src DataSource, symbol string) string {
	rates, err := src.FundingRates(ctx, symbol, fundingRateLimit)
	if err != nil {
		return "⚠️ *Market Sentiment: Data Unavailable* (failed to fetch funding rates)"
	}
	return ClassifyFundingRates(rates)
}

// ClassifyFundingRates rates the latest funding rate against the
// mean ± stddev bands of the sample. Positive rates mean longs pay
// shorts (bullish crowd), negative the reverse.
func ClassifyFundingRates(rates []market.FundingRate) string {
	if len(rates) == 0 {
		return "❓ *Market Sentiment*: Data Unavailable"
	}

	var sum float64
	for _, r := range rates {
		sum += r.Rate
	}
	mean := sum / float64(len(rates))

	var sqSum float64
	for _, r := range rates {
		d := r.Rate - mean
		sqSum += d * d
	}
	std := math.Sqrt(sqSum / float64(len(rates)))
	latest := rates[len(rates)-1].Rate

	var line string
	switch {
	case latest > mean+std:
		line = "  • 🟢 *Strong Bullish Sentiment:* High demand for long positions."
	case latest > 0:
		line = "  • 🟩 *Moderate Bullish Sentiment:* More longs than shorts."
	case latest < mean-std:
		line = "  • 🔴 *Strong Bearish Sentiment:* Shorts dominant."
	case latest < 0:
		line = "  • 🟥 *Moderate Bearish Sentiment:* More shorts than longs."
	default:
		line = "  • ⚪ *Neutral Market:* Balanced positions."
	}
	return "📊 *Binance Funding Rate:*\n" + line
}

// WhaleActivity summarizes possible whale moves for a symbol: a volume
// spike against the rolling average, large on-chain BTC transfers
// (BTCUSDT only) and a significant day-over-day volume jump. Each part
// is independently best-effort.
func WhaleActivity(ctx context.Context, src DataSource, symbol string, candles model.Series, volumeMA, volumeMultiplier float64) string {
	base := baseAsset(symbol)
	var signals []string

	if len(candles) > 0 && !math.IsNaN(volumeMA) {
		latest := candles.Last()
		if latest.Volume > volumeMultiplier*volumeMA {
			side := "🔴 Large Sell"
			if latest.Close > latest.Open {
				side = "🟢 Large Buy"
			}
			signals = append(signals, fmt.Sprintf(
				"🐳 *Volume Spike Detected!*\n  • Volume: %.2f (Avg: %.2f)\n  • %s Activity!",
				latest.Volume, volumeMA, side))
		}
	}

	if symbol == "BTCUSDT" {
		txns, err := src.WhaleTransactions(ctx, whaleMinBTC, whaleTxnLimit)
		switch {
		case err != nil:
			signals = append(signals, fmt.Sprintf("⚠️ *Blockchair error for %s*: data unavailable", base))
		case len(txns) == 0:
			signals = append(signals, fmt.Sprintf("⚪ No significant %s whale transactions *(Blockchair)*", base))
		default:
			for _, tx := range txns {
				signals = append(signals, fmt.Sprintf("🐳 *%s Whale Move*: %.2f BTC", base, tx.AmountBTC))
			}
		}
	}

	volumes, err := src.DailyVolumes(ctx, symbol, 2)
	if err != nil || len(volumes) < 2 {
		signals = append(signals, fmt.Sprintf("⚠️ *Binance volume data unavailable for %s*", base))
	} else if prev := volumes[0]; prev > 0 {
		jump := (volumes[1] - prev) / prev * 100
		if jump > volumeJumpPct {
			signals = append(signals, fmt.Sprintf(
				"📈 *Significant Volume Increase (%s)*: %.2f%% from previous day", base, jump))
		}
	}

	if len(signals) == 0 {
		return fmt.Sprintf("🐋 *Whale Activity (%s)*: No significant activity detected", base)
	}
	return fmt.Sprintf("🐋 *Whale Activity (%s):*\n%s", base, strings.Join(signals, "\n"))
}

// baseAsset strips the USDT quote suffix: BTCUSDT becomes BTC.
func baseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, "USDT")
}
