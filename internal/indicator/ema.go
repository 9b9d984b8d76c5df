package indicator

// EMA computes an exponential moving average series over closes with
// smoothing factor 2/(period+1). The recursion is seeded with the first
// close (no SMA warm-up), so every index is defined; early values simply
// carry less information.
func EMA(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[0] = closes[0]
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}
