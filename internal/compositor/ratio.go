package compositor

import "math"

const (
	// MinRecommendedRatio is the smallest coverage ratio that keeps the icon recognisable.
	MinRecommendedRatio = 0.1
	// MaxRecommendedRatio is the largest coverage ratio level-H correction reliably absorbs.
	MaxRecommendedRatio = 0.4
)

// ValidateRatio checks r against the recommended range. A value outside it
// yields a warning; it is never fatal.
func ValidateRatio(r float64) (bool, *CoverageRatioWarning) {
	if math.IsNaN(r) || r < MinRecommendedRatio || r > MaxRecommendedRatio {
		return false, &CoverageRatioWarning{Ratio: r, Min: MinRecommendedRatio, Max: MaxRecommendedRatio}
	}
	return true, nil
}
