package gemini

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/calewis/retell-api/internal/domain"
	"github.com/calewis/retell-api/internal/generation"
)

const feedbackPromptTemplate = `A person read the following passage and then recalled it from memory.

Passage:
{{.Passage}}

Key points of the passage:
{{range .Keypoints}}- {{.Text}}
{{end}}
Their recall:
{{.Recall}}

Write 2-3 sentences of supportive, non-clinical feedback in the same
language as the passage. Mention what they captured well and, gently,
one area they missed. Do not assign grades or diagnoses.

Respond with the feedback text only, no commentary.`

type feedbackPromptData struct {
	Passage   string
	Recall    string
	Keypoints []domain.Keypoint
}

// FeedbackAnalyzer implements generation.FeedbackAnalyzer on the Gemini API.
type FeedbackAnalyzer struct {
	client *Client
	tmpl   *template.Template
}

// NewFeedbackAnalyzer creates a Gemini-backed feedback analyzer.
func NewFeedbackAnalyzer(client *Client) (*FeedbackAnalyzer, error) {
	tmpl, err := template.New("feedback").Parse(feedbackPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse feedback prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return &FeedbackAnalyzer{client: client, tmpl: tmpl}, nil
}

// Ensure FeedbackAnalyzer implements generation.FeedbackAnalyzer
var _ generation.FeedbackAnalyzer = (*FeedbackAnalyzer)(nil)

// AnalyzeRecall implements generation.FeedbackAnalyzer.
func (a *FeedbackAnalyzer) AnalyzeRecall(
	ctx context.Context,
	passage string,
	recall string,
	keypoints []domain.Keypoint,
) (string, error) {
	var prompt bytes.Buffer
	err := a.tmpl.Execute(&prompt, feedbackPromptData{
		Passage:   passage,
		Recall:    recall,
		Keypoints: keypoints,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute feedback template: %v",
			generation.ErrGenerationFailed, err)
	}

	text, err := a.client.generateText(ctx, prompt.String(), false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
