package indicator

// MACD computes the Moving Average Convergence Divergence:
// line = EMA(12) − EMA(26), signal = EMA(9) of the line, hist = line − signal.
func MACD(closes []float64, short, long, signalPeriod int) (line, signal, hist []float64) {
	fast := EMA(closes, short)
	slow := EMA(closes, long)

	n := len(closes)
	line = make([]float64, n)
	for i := 0; i < n; i++ {
		line[i] = fast[i] - slow[i]
	}

	signal = EMA(line, signalPeriod)

	hist = make([]float64, n)
	for i := 0; i < n; i++ {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
