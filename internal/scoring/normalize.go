package scoring

// Normalize rescales a raw indicator value to [0,100] against the global
// reference set for that indicator and period (min-max normalization).
//
// When the reference set is degenerate (one observation, or all values
// equal) the score is 100 if the value equals the shared maximum and that
// maximum is positive, otherwise 0.
func Normalize(raw float64, reference []float64) float64 {
	if len(reference) == 0 {
		return 0
	}

	min, max := reference[0], reference[0]
	for _, v := range reference[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		if raw == max && max > 0 {
			return 100
		}
		return 0
	}

	score := (raw - min) / (max - min) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
