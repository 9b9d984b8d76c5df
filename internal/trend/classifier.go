// Package trend classifies market regime and strength from indicator data.
package trend

import (
	"fmt"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// Regime is the qualitative market classification.
type Regime int

const (
	Neutral Regime = iota
	WeakUptrend
	ModerateUptrend
	StrongUptrend
	WeakDowntrend
	ModerateDowntrend
	StrongDowntrend
)

func (r Regime) String() string {
	switch r {
	case StrongUptrend:
		return "Strong Uptrend"
	case ModerateUptrend:
		return "Moderate Uptrend"
	case WeakUptrend:
		return "Weak Uptrend"
	case WeakDowntrend:
		return "Weak Downtrend"
	case ModerateDowntrend:
		return "Moderate Downtrend"
	case StrongDowntrend:
		return "Strong Downtrend"
	default:
		return "Neutral / Ranging"
	}
}

// Uptrend reports whether the regime is any uptrend variant.
func (r Regime) Uptrend() bool {
	return r == WeakUptrend || r == ModerateUptrend || r == StrongUptrend
}

// Downtrend reports whether the regime is any downtrend variant.
func (r Regime) Downtrend() bool {
	return r == WeakDowntrend || r == ModerateDowntrend || r == StrongDowntrend
}

// Classify determines the regime from the latest frame row.
//
// A strictly ascending EMA ladder (shortest above longest) puts the market
// in the uptrend family, strictly descending in the downtrend family; the
// ADX sub-classifies strength (>25 strong, >20 moderate, else weak). When
// the ladder is unordered the close direction decides the family, unless
// ADX ≤ 20 in which case the market is ranging.
func Classify(f *indicator.Frame, closes []float64, profile model.Profile) Regime {
	i := len(closes) - 1
	adx := f.ADX[i]

	up, down := ladderOrder(f, profile.EMAPeriods, i)

	if !up && !down {
		if !indicator.Defined(adx) || adx <= 20 {
			return Neutral
		}
		// Unordered EMAs but a trending ADX: direction from price.
		if i == 0 || closes[i] == closes[i-1] {
			return Neutral
		}
		up = closes[i] > closes[i-1]
		down = !up
	}

	strength := WeakUptrend
	if !up {
		strength = WeakDowntrend
	}
	if indicator.Defined(adx) {
		switch {
		case adx > 25 && up:
			strength = StrongUptrend
		case adx > 25:
			strength = StrongDowntrend
		case adx > 20 && up:
			strength = ModerateUptrend
		case adx > 20:
			strength = ModerateDowntrend
		}
	}
	return strength
}

// ladderOrder reports whether the EMA ladder at row i is strictly ordered
// ascending (up) or descending (down). Undefined EMAs break the order.
func ladderOrder(f *indicator.Frame, periods []int, i int) (up, down bool) {
	if len(periods) < 2 {
		return false, false
	}
	up, down = true, true
	for j := 0; j < len(periods)-1; j++ {
		short := f.EMA[periods[j]][i]
		long := f.EMA[periods[j+1]][i]
		if !indicator.Defined(short) || !indicator.Defined(long) {
			return false, false
		}
		if short <= long {
			up = false
		}
		if short >= long {
			down = false
		}
	}
	return up, down
}

// Score computes the additive 0–100 trend strength score:
// +30 for an ordered EMA ladder (either direction), +30 for ADX>25 or +20
// for ADX>20, +10..15 for RSI distance from the 40–60 neutral band, +15 for
// an independent breakout condition, +10 for volume above its 20-bar mean.
func Score(f *indicator.Frame, closes, volumes []float64, profile model.Profile) int {
	i := len(closes) - 1
	score := 0

	if up, down := ladderOrder(f, profile.EMAPeriods, i); up || down {
		score += 30
	}

	if adx := f.ADX[i]; indicator.Defined(adx) {
		if adx > 25 {
			score += 30
		} else if adx > 20 {
			score += 20
		}
	}

	if rsi := f.RSI[i]; indicator.Defined(rsi) {
		if rsi > 40 && rsi < 60 {
			score += 10
		} else {
			score += 15
		}
	}

	if th := f.BreakoutThreshold[i]; indicator.Defined(th) && closes[i] > th {
		score += 15
	}

	if vma := f.VolumeMA[i]; indicator.Defined(vma) && volumes[i] > vma {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

// InterpretScore maps a trend score to its descriptive band.
func InterpretScore(score int) string {
	switch {
	case score <= 20:
		return "Very Weak Trend: choppy price action, low momentum."
	case score <= 40:
		return "Weak Trend: market is ranging, low conviction."
	case score <= 60:
		return "Moderate Trend: potential setups forming, watch closely."
	case score <= 80:
		return "Strong Trend: market gaining momentum, potential breakout."
	default:
		return "Very Strong Trend: strong momentum, high confidence in direction!"
	}
}

// Describe renders the trend block used in the detailed alert message.
func Describe(r Regime, score int) string {
	return fmt.Sprintf("Trend: %s | Trend Score: %d/100 — %s", r, score, InterpretScore(score))
}
