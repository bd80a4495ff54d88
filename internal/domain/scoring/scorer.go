package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/calewis/retell-api/internal/domain"
)

// ProfileResolution is the outcome of looking up a normative profile by ID.
// A missing profile is an expected, recoverable path (ad hoc or custom
// profiles), so it is modeled as an explicit state instead of a nil
// threaded through every downstream computation.
type ProfileResolution struct {
	profile *domain.NormativeProfile
}

// ResolvedProfile wraps a successfully resolved profile.
func ResolvedProfile(profile *domain.NormativeProfile) ProfileResolution {
	return ProfileResolution{profile: profile}
}

// MissingProfile is the resolution for an ID no registry knows.
func MissingProfile() ProfileResolution {
	return ProfileResolution{}
}

// Profile returns the resolved profile and whether one is present.
func (r ProfileResolution) Profile() (*domain.NormativeProfile, bool) {
	return r.profile, r.profile != nil
}

// Clock supplies the current time. Injected so tests can pin timestamps.
type Clock func() time.Time

// IDGenerator supplies fresh session identifiers.
type IDGenerator func() uuid.UUID

// Scorer turns a recall text, an elapsed time, a test definition, and an
// optional previous session into one immutable SessionResult. It holds no
// state across invocations and is safe for concurrent use.
type Scorer struct {
	params *Params
	clock  Clock
	newID  IDGenerator
}

// NewScorer creates a Scorer with the given policy parameters. A nil
// params uses the defaults; a nil clock or ID generator falls back to
// time.Now (UTC) and uuid.New.
func NewScorer(params *Params, clock Clock, newID IDGenerator) *Scorer {
	if params == nil {
		params = NewDefaultParams()
	}
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	if newID == nil {
		newID = uuid.New
	}
	return &Scorer{params: params, clock: clock, newID: newID}
}

// ScoreSession scores one recall session.
//
// The recall text is tokenized, each keypoint is evaluated against the
// recall tokens, coverage and reading speed are aggregated, and the result
// is standardized against the resolved profile when one is present:
//
//   - resolved: z_coverage and z_wpm are computed, the qualitative label is
//     cut on z_coverage, and when previous is non-nil the reliable-change
//     index against the previous session's coverage is included.
//   - missing: z_coverage is 0, z_wpm and rci are absent, and the label is
//     "normative data unavailable" even when a previous session exists.
//
// All reported numerics are rounded to two decimals; intermediates keep
// full precision. The call never fails for a valid test instance: empty or
// nonsensical recall text simply scores zero coverage.
func (s *Scorer) ScoreSession(
	test *domain.TestInstance,
	recallText string,
	elapsedSec float64,
	resolution ProfileResolution,
	previous *domain.SessionResult,
) *domain.SessionResult {
	recallTokens := Tokenize(recallText, test.Language)

	results := make([]domain.KeypointResult, 0, len(test.Keypoints))
	hits := 0
	for _, kp := range test.Keypoints {
		match := evaluateKeypoint(recallTokens, kp.Tokens, s.params)
		if match.Hit {
			hits++
		}
		results = append(results, domain.KeypointResult{
			KeypointID:    kp.ID,
			Text:          kp.Text,
			Hit:           match.Hit,
			MatchedTokens: match.Matched,
		})
	}

	coverage := coveragePct(hits, len(test.Keypoints))
	wpm := effectiveWPM(test.Passage, elapsedSec, s.params)

	session := &domain.SessionResult{
		SessionID:          s.newID(),
		TestID:             test.ID,
		UserID:             test.UserID,
		NormativeProfileID: test.NormativeProfileID,
		RecallText:         recallText,
		CoveragePct:        round2(coverage),
		WPMEffective:       wpm,
		KeypointResults:    results,
		CreatedAt:          s.clock(),
	}

	profile, ok := resolution.Profile()
	if !ok {
		session.ZCoverage = 0
		session.QualitativeLabel = domain.LabelNormativeUnavailable
		return session
	}

	zCov := zScore(coverage, profile.MeanCoverage, profile.SDCoverage)
	zWPM := round2(zScore(float64(wpm), profile.MeanWPM, profile.SDWPM))

	session.ZCoverage = round2(zCov)
	session.ZWPM = &zWPM
	session.QualitativeLabel = labelFor(zCov, s.params)

	if previous != nil {
		rci := round2(reliableChangeIndex(coverage, previous.CoveragePct, profile))
		session.RCICoverage = &rci
	}

	return session
}
