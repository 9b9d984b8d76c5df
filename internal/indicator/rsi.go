package indicator

// RSI computes the Relative Strength Index using simple rolling means of
// per-bar gains and losses (not Wilder smoothing; see WilderRSI for the
// alternative). Values are in [0,100] wherever defined; the first `period`
// indexes are NaN.
//
// When the average loss over the window is zero the result saturates at
// 100 instead of dividing by zero.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	gains[0], losses[0] = nan, nan
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if !Defined(avgGain[i]) || !Defined(avgLoss[i]) {
			out[i] = nan
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// WilderRSI is the Wilder-smoothed variant: the first value is seeded with
// simple averages, then avg = (prev*(period-1) + x) / period. Kept as a
// documented alternative; the pipeline contract uses RSI above.
func WilderRSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}
	if n <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
