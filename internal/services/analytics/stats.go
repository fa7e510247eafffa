package analytics

import "math"

// dropNaN returns the non-NaN values of xs.
func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

// stdDev computes the population standard deviation.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	variance := 0.0
	for _, v := range xs {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

// centralMoment computes the k-th central moment.
func centralMoment(xs []float64, k int) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, v := range xs {
		sum += math.Pow(v-m, float64(k))
	}
	return sum / float64(len(xs))
}

// skewness computes the moment coefficient of skewness m3 / m2^1.5.
// Zero for degenerate variance.
func skewness(xs []float64) float64 {
	m2 := centralMoment(xs, 2)
	if m2 <= 0 {
		return 0
	}
	return centralMoment(xs, 3) / math.Pow(m2, 1.5)
}

// kurtosis computes the Pearson kurtosis m4 / m2^2 (normal = 3).
// Returns 3 for degenerate variance.
func kurtosis(xs []float64) float64 {
	m2 := centralMoment(xs, 2)
	if m2 <= 0 {
		return 3
	}
	return centralMoment(xs, 4) / (m2 * m2)
}

// diff returns the first difference x[i] - x[i-1], skipping pairs with NaN.
func diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(xs[i-1]) {
			continue
		}
		out = append(out, xs[i]-xs[i-1])
	}
	return out
}

// pearson computes the Pearson correlation of two equal-length series,
// pairwise-skipping NaN cells. ok=false when the correlation is degenerate
// (fewer than two pairs or zero variance on either side).
func pearson(x, y []float64) (r float64, ok bool) {
	if len(x) != len(y) {
		return 0, false
	}
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return 0, false
	}
	mx, my := mean(xs), mean(ys)
	var num, dx2, dy2 float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		num += dx * dy
		dx2 += dx * dx
		dy2 += dy * dy
	}
	if dx2 == 0 || dy2 == 0 {
		return 0, false
	}
	return num / math.Sqrt(dx2*dy2), true
}
