package scoring

// Params defines the policy constants of the scoring engine. The defaults
// are behavioral contracts carried over unchanged from the legacy scorer;
// they are configurable here so a future calibration effort can revisit
// them without touching the algorithm.
type Params struct {
	// HitRatioThreshold is the minimum keypoint coverage ratio for a hit.
	HitRatioThreshold float64

	// HitMinAnchors is the alternative hit criterion: a keypoint also hits
	// when at least this many distinct tokens were recalled, regardless of
	// ratio. Rewards strong lexical anchors in long keypoints.
	HitMinAnchors int

	// MinElapsedSec floors the elapsed reading time so near-zero timings
	// cannot inflate the effective WPM.
	MinElapsedSec float64

	// Label cut points on z_coverage, evaluated in order: at or above
	// WithinRangeZ is "within expected range", at or above MildlyReducedZ
	// is "mildly reduced", anything lower is "below expected range".
	WithinRangeZ   float64
	MildlyReducedZ float64
}

// NewDefaultParams creates a Params instance with the contract values.
func NewDefaultParams() *Params {
	return &Params{
		HitRatioThreshold: 0.35,
		HitMinAnchors:     2,
		MinElapsedSec:     5,
		WithinRangeZ:      -1.0,
		MildlyReducedZ:    -2.0,
	}
}
