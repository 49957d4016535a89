package analysis

import "math"

// DepthWeights weigh the components of the depth score.
type DepthWeights struct {
	Words    float64 `yaml:"words"`
	Headings float64 `yaml:"headings"`
	Coverage float64 `yaml:"coverage"`
}

func DefaultDepthWeights() DepthWeights {
	return DepthWeights{Words: 0.4, Headings: 0.3, Coverage: 0.3}
}

// DepthInputs are the measurements the depth score is computed from.
type DepthInputs struct {
	Words         int
	Headings      int
	AvgWords      float64
	AvgHeadings   float64
	TopicCoverage float64
}

// DepthScore returns a 0-100 score. Each ratio saturates at 1, so a page far
// longer than its competitors cannot exceed the maximum.
func DepthScore(w DepthWeights, in DepthInputs) int {
	score := w.Words*cappedRatio(float64(in.Words), in.AvgWords) +
		w.Headings*cappedRatio(float64(in.Headings), in.AvgHeadings) +
		w.Coverage*clamp(in.TopicCoverage, 0, 1)

	return int(clamp(math.Round(100*score), 0, 100))
}

// cappedRatio is min(value/baseline, 1). Without a baseline any content counts as full.
func cappedRatio(value, baseline float64) float64 {
	if baseline <= 0 {
		if value > 0 {
			return 1
		}
		return 0
	}
	return clamp(value/baseline, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
