package scoring

// MatchResult is the verdict of evaluating one keypoint against a recall.
type MatchResult struct {
	// Hit is true when the keypoint counts as recalled.
	Hit bool

	// Matched holds the distinct keypoint tokens that occur anywhere in
	// the recall, ordered by first detection while scanning the keypoint's
	// token sequence. Always a subset of the keypoint's tokens.
	Matched []string

	// Ratio is the keypoint coverage ratio used by the hit rule, reported
	// for auditability.
	Ratio float64
}

// evaluateKeypoint decides whether a keypoint was recalled.
//
// The coverage ratio's numerator counts keypoint-token occurrences WITH
// multiplicity: a token that appears twice in the keypoint and once in the
// recall contributes twice. This mirrors the legacy list-intersection
// behavior and is kept deliberately, not "fixed" to distinct counting.
//
// Hit rule: Ratio >= params.HitRatioThreshold OR len(Matched) >=
// params.HitMinAnchors. The dual threshold tolerates paraphrase (broad
// partial coverage of a short keypoint) while still crediting two strong
// lexical anchors in a long one.
//
// An empty keypoint token sequence is degenerate: the ratio is defined as
// 0 and the keypoint can never hit.
func evaluateKeypoint(recallTokens, keypointTokens []string, params *Params) MatchResult {
	recallSet := make(map[string]bool, len(recallTokens))
	for _, tok := range recallTokens {
		recallSet[tok] = true
	}

	var (
		matched    []string
		matchedSet = make(map[string]bool)
		found      int
	)

	for _, tok := range keypointTokens {
		if !recallSet[tok] {
			continue
		}
		found++
		if !matchedSet[tok] {
			matchedSet[tok] = true
			matched = append(matched, tok)
		}
	}

	if len(keypointTokens) == 0 {
		return MatchResult{Hit: false, Matched: nil, Ratio: 0}
	}

	ratio := float64(found) / float64(len(keypointTokens))
	hit := ratio >= params.HitRatioThreshold || len(matched) >= params.HitMinAnchors

	return MatchResult{Hit: hit, Matched: matched, Ratio: ratio}
}
