package analytics

import (
	"math"
	"sort"
)

// findPeaks returns the indices of local maxima of xs, in ascending index
// order, keeping only peaks with topographic prominence >= minProminence and
// enforcing a minimum index distance between kept peaks (higher peaks win).
// NaN cells can never be peaks and act as low ground during prominence walks.
func findPeaks(xs []float64, minDistance int, minProminence float64) []int {
	if len(xs) < 3 {
		return nil
	}
	if minDistance < 1 {
		minDistance = 1
	}

	vals := make([]float64, len(xs))
	for i, v := range xs {
		if math.IsNaN(v) {
			vals[i] = math.Inf(-1)
		} else {
			vals[i] = v
		}
	}

	var candidates []int
	for i := 1; i < len(vals)-1; i++ {
		if vals[i] > vals[i-1] && vals[i] >= vals[i+1] {
			candidates = append(candidates, i)
		}
	}

	var peaks []int
	for _, i := range candidates {
		if prominence(vals, i) >= minProminence {
			peaks = append(peaks, i)
		}
	}

	// Min-distance suppression: higher peaks win, ties go to the lower index.
	sort.SliceStable(peaks, func(a, b int) bool {
		if vals[peaks[a]] != vals[peaks[b]] {
			return vals[peaks[a]] > vals[peaks[b]]
		}
		return peaks[a] < peaks[b]
	})
	kept := make([]int, 0, len(peaks))
	suppressed := make(map[int]bool, len(peaks))
	for _, p := range peaks {
		if suppressed[p] {
			continue
		}
		kept = append(kept, p)
		for _, q := range peaks {
			if q != p && abs(q-p) < minDistance {
				suppressed[q] = true
			}
		}
	}
	sort.Ints(kept)
	return kept
}

// findTroughs returns the indices of local minima via the negated series.
func findTroughs(xs []float64, minDistance int, minProminence float64) []int {
	neg := make([]float64, len(xs))
	for i, v := range xs {
		neg[i] = -v
	}
	return findPeaks(neg, minDistance, minProminence)
}

// prominence computes the height of vals[i] above the higher of the two key
// saddles: the lowest point between the peak and the nearest higher ground on
// each side (or the series edge).
func prominence(vals []float64, i int) float64 {
	peak := vals[i]
	leftMin := peak
	for j := i - 1; j >= 0; j-- {
		if vals[j] > peak {
			break
		}
		if vals[j] < leftMin {
			leftMin = vals[j]
		}
	}
	rightMin := peak
	for j := i + 1; j < len(vals); j++ {
		if vals[j] > peak {
			break
		}
		if vals[j] < rightMin {
			rightMin = vals[j]
		}
	}
	saddle := leftMin
	if rightMin > saddle {
		saddle = rightMin
	}
	return peak - saddle
}

// matchExtrema pairs each price extremum with the nearest indicator extremum
// of the same kind within tolerance. Ties break to the smaller index
// distance, then to the lower indicator index. Unmatched extrema are
// discarded. Both inputs are ascending; the result is ascending by price
// index with no indicator extremum used twice.
func matchExtrema(priceIdx, indIdx []int, tolerance int) [][2]int {
	var pairs [][2]int
	used := make(map[int]bool, len(indIdx))
	for _, p := range priceIdx {
		best := -1
		bestDist := tolerance + 1
		for _, q := range indIdx {
			if used[q] {
				continue
			}
			d := abs(q - p)
			if d < bestDist || (d == bestDist && best >= 0 && q < best) {
				best = q
				bestDist = d
			}
		}
		if best >= 0 && bestDist <= tolerance {
			used[best] = true
			pairs = append(pairs, [2]int{p, best})
		}
	}
	return pairs
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
