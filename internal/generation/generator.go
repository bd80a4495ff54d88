package generation

import (
	"context"

	"github.com/calewis/retell-api/internal/domain"
)

// GeneratedPassage is the raw output of the passage generator: the passage
// text plus the keypoint sentences it is expected to convey. Keypoint
// tokenization happens at test-build time, not here.
type GeneratedPassage struct {
	Passage   string
	Keypoints []string
}

// PassageRequest describes the passage to generate. KeypointCount is
// whatever the caller asks for; the engine does not assume a fixed count.
type PassageRequest struct {
	Topic         string
	Language      domain.Language
	Complexity    domain.Complexity
	TargetWords   int
	KeypointCount int
}

// PassageGenerator produces a reading passage and its keypoints. It is the
// boundary to the external text-generation service; implementations must
// return exactly the number of keypoints requested or ErrInvalidResponse.
type PassageGenerator interface {
	GeneratePassage(ctx context.Context, req PassageRequest) (*GeneratedPassage, error)
}

// RecallRefiner cleans up raw captured recall text (e.g. speech-to-text
// output) before scoring. Refinement is best-effort: callers fall back to
// the raw text when it fails.
type RecallRefiner interface {
	RefineRecall(ctx context.Context, rawText string, language domain.Language) (string, error)
}

// FeedbackAnalyzer produces a short qualitative narrative about a scored
// recall. Purely presentational; a failure never invalidates the score.
type FeedbackAnalyzer interface {
	AnalyzeRecall(ctx context.Context, passage, recall string, keypoints []domain.Keypoint) (string, error)
}
