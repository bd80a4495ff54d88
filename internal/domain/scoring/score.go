package scoring

import (
	"math"
	"strings"

	"github.com/calewis/retell-api/internal/domain"
)

// coveragePct aggregates per-keypoint hits into a percentage. A zero
// keypoint count is degenerate (test validation forbids it) and reports 0
// rather than dividing by zero.
func coveragePct(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(hits) / float64(total)
}

// effectiveWPM computes the reading speed over the passage's raw
// whitespace-delimited word count. The elapsed time is floored at
// params.MinElapsedSec so a near-zero timing cannot blow the speed up.
func effectiveWPM(passage string, elapsedSec float64, params *Params) int {
	wordCount := len(strings.Fields(passage))
	if wordCount == 0 {
		return 0
	}

	safeSec := elapsedSec
	if safeSec < params.MinElapsedSec {
		safeSec = params.MinElapsedSec
	}

	return int(math.Round(float64(wordCount) / safeSec * 60))
}

// zScore standardizes an observation against a population mean and SD.
// The SD is guaranteed positive by profile validation at load time.
func zScore(observed, mean, sd float64) float64 {
	return (observed - mean) / sd
}

// labelFor maps an unrounded z_coverage to its qualitative band,
// first match wins.
func labelFor(zCoverage float64, params *Params) domain.QualitativeLabel {
	switch {
	case zCoverage >= params.WithinRangeZ:
		return domain.LabelWithinExpectedRange
	case zCoverage >= params.MildlyReducedZ:
		return domain.LabelMildlyReduced
	default:
		return domain.LabelBelowExpectedRange
	}
}

// reliableChangeIndex computes the RCI between the current and previous
// coverage using the standard error of the difference between two
// correlated measurements:
//
//	s_diff = sd * sqrt(2 * (1 - reliability))
//
// Profile validation keeps reliability strictly inside (0,1), so s_diff is
// always a positive finite number. |RCI| > 1.96 is conventionally read as
// a reliable change at ~95% confidence; that interpretation belongs to the
// presentation layer, only the raw value is emitted here.
func reliableChangeIndex(current, previous float64, profile *domain.NormativeProfile) float64 {
	sDiff := profile.SDCoverage * math.Sqrt(2*(1-profile.ReliabilityCoverage))
	return (current - previous) / sDiff
}

// round2 rounds a reported value to two decimal places. Intermediate
// computation always runs at full precision; only final report fields go
// through this.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
