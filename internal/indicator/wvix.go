package indicator

// WilliamsVixFix computes the Williams VIX Fix panic gauge:
// ((rolling max(high, period) − close) / rolling max(high, period)) × 100,
// plus Bollinger-style bounds from its own bbPeriod mean and sample stddev.
func WilliamsVixFix(highs, closes []float64, period, bbPeriod int, mult float64) (wvix, upper, lower []float64) {
	hh := rollingMax(highs, period)

	n := len(closes)
	wvix = make([]float64, n)
	for i := 0; i < n; i++ {
		if !Defined(hh[i]) || hh[i] == 0 {
			wvix[i] = nan
			continue
		}
		wvix[i] = (hh[i] - closes[i]) / hh[i] * 100
	}

	mean := rollingMean(wvix, bbPeriod)
	std := rollingStd(wvix, bbPeriod)

	upper = make([]float64, n)
	lower = make([]float64, n)
	for i := 0; i < n; i++ {
		if !Defined(mean[i]) || !Defined(std[i]) {
			upper[i], lower[i] = nan, nan
			continue
		}
		upper[i] = mean[i] + std[i]*mult
		lower[i] = mean[i] - std[i]*mult
	}
	return wvix, upper, lower
}
