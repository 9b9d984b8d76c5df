package indicator

import "math"

// nan marks an undefined value in a derived series. Downstream logic must
// treat NaN as "no signal", never as zero.
var nan = math.NaN()

// Defined reports whether a series value carries a signal.
func Defined(v float64) bool { return !math.IsNaN(v) }

// rollingMean computes a simple moving average with a strict minimum-periods
// policy: out[i] is NaN until a full window of defined inputs is available.
func rollingMean(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	for i := range out {
		out[i] = nan
	}
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(in); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !Defined(in[j]) {
				ok = false
				break
			}
			sum += in[j]
		}
		if ok {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingMax computes a rolling maximum with the same minimum-periods policy.
func rollingMax(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	for i := range out {
		out[i] = nan
	}
	for i := window - 1; i < len(in); i++ {
		max := math.Inf(-1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !Defined(in[j]) {
				ok = false
				break
			}
			if in[j] > max {
				max = in[j]
			}
		}
		if ok {
			out[i] = max
		}
	}
	return out
}

// rollingMin computes a rolling minimum with the same minimum-periods policy.
func rollingMin(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	for i := range out {
		out[i] = nan
	}
	for i := window - 1; i < len(in); i++ {
		min := math.Inf(1)
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !Defined(in[j]) {
				ok = false
				break
			}
			if in[j] < min {
				min = in[j]
			}
		}
		if ok {
			out[i] = min
		}
	}
	return out
}

// rollingStd computes a rolling sample standard deviation (n-1 denominator,
// matching the source data pipeline) with the minimum-periods policy.
func rollingStd(in []float64, window int) []float64 {
	out := make([]float64, len(in))
	for i := range out {
		out[i] = nan
	}
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(in); i++ {
		sum := 0.0
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if !Defined(in[j]) {
				ok = false
				break
			}
			sum += in[j]
		}
		if !ok {
			continue
		}
		mean := sum / float64(window)
		ss := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := in[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}
