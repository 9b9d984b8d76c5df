package indicator

import "math"

// trueRange computes the True Range series:
// max(high−low, |high−prevClose|, |low−prevClose|). Index 0 is NaN.
func trueRange(highs, lows, closes []float64) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	tr[0] = nan
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ADX computes the Average Directional Index with its +DI/−DI components.
// TR, +DM and −DM are smoothed with simple rolling means over `period`;
// DX = 100·|+DI−−DI|/(+DI+−DI) with a zero-denominator guard; ADX is the
// rolling mean of DX. Results are clamped to ≥ 0.
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(closes)
	tr := trueRange(highs, lows, closes)

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	plusDM[0], minusDM[0] = nan, nan
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	smTR := rollingMean(tr, period)
	smPlus := rollingMean(plusDM, period)
	smMinus := rollingMean(minusDM, period)

	plusDI = make([]float64, n)
	minusDI = make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if !Defined(smTR[i]) || smTR[i] == 0 {
			plusDI[i], minusDI[i], dx[i] = nan, nan, nan
			continue
		}
		plusDI[i] = 100 * smPlus[i] / smTR[i]
		minusDI[i] = 100 * smMinus[i] / smTR[i]
		sum := plusDI[i] + minusDI[i]
		if sum == 0 {
			dx[i] = 0
			continue
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}

	adx = rollingMean(dx, period)
	for i := range adx {
		if Defined(adx[i]) && adx[i] < 0 {
			adx[i] = 0 // clip division-noise artifacts
		}
	}
	return adx, plusDI, minusDI
}

// ATR computes the Average True Range: a simple rolling mean of TR.
func ATR(highs, lows, closes []float64, period int) []float64 {
	return rollingMean(trueRange(highs, lows, closes), period)
}
