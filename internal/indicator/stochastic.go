package indicator

// Stochastic computes the fast stochastic oscillator:
// %K = 100·(close − LL) / (HH − LL) over kPeriod bars, %D = SMA(dPeriod) of %K.
// A flat HH==LL window yields a neutral 50 rather than a division by zero.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	hh := rollingMax(highs, kPeriod)
	ll := rollingMin(lows, kPeriod)

	n := len(closes)
	k = make([]float64, n)
	for i := 0; i < n; i++ {
		if !Defined(hh[i]) || !Defined(ll[i]) {
			k[i] = nan
			continue
		}
		span := hh[i] - ll[i]
		if span == 0 {
			k[i] = 50
			continue
		}
		k[i] = 100 * (closes[i] - ll[i]) / span
	}

	d = rollingMean(k, dPeriod)
	return k, d
}
