// Package scoring implements the reading-recall scoring and psychometric
// normalization engine: tokenization of free-text recall, per-keypoint match
// evaluation, coverage aggregation, reading-speed computation, z-score
// standardization against a normative profile, and the reliable-change index
// between consecutive sessions.
//
// Every function in this package is deterministic and side-effect free; the
// only impurities (fresh session IDs and timestamps) are injected into the
// Scorer, so a fixed clock and ID generator make a whole scoring run
// reproducible bit for bit.
package scoring
