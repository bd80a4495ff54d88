package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/calewis/retell-api/internal/generation"
)

// passagePromptTemplate asks for a strict JSON document so the response can
// be parsed without scraping. Keypoints must be self-contained sentences:
// they are tokenized independently of the passage at test-build time.
const passagePromptTemplate = `You are generating material for a timed reading-and-recall cognitive test.

Write a factual, self-contained passage in {{.LanguageName}} about "{{.Topic}}".
Target length: about {{.TargetWords}} words.
Style: {{if eq .Complexity "dense"}}information-dense, compact sentences, high fact rate{{else}}neutral, clear expository prose{{end}}.

Then list exactly {{.KeypointCount}} keypoints: the discrete ideas a reader
should be able to recall. Each keypoint is one natural-language sentence
restating one idea from the passage, using the passage's own salient terms.

Respond with a single JSON object and nothing else:
{"passage": "...", "keypoints": ["...", "..."]}`

// passageResponse is the JSON document expected from the model.
type passageResponse struct {
	Passage   string   `json:"passage"`
	Keypoints []string `json:"keypoints"`
}

type passagePromptData struct {
	Topic         string
	LanguageName  string
	Complexity    string
	TargetWords   int
	KeypointCount int
}

// PassageGenerator implements generation.PassageGenerator on the Gemini API.
type PassageGenerator struct {
	client *Client
	tmpl   *template.Template
}

// NewPassageGenerator creates a Gemini-backed passage generator.
func NewPassageGenerator(client *Client) (*PassageGenerator, error) {
	tmpl, err := template.New("passage").Parse(passagePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse passage prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return &PassageGenerator{client: client, tmpl: tmpl}, nil
}

// Ensure PassageGenerator implements generation.PassageGenerator
var _ generation.PassageGenerator = (*PassageGenerator)(nil)

// GeneratePassage implements generation.PassageGenerator.
func (g *PassageGenerator) GeneratePassage(
	ctx context.Context,
	req generation.PassageRequest,
) (*generation.GeneratedPassage, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("%w: topic cannot be empty", generation.ErrGenerationFailed)
	}
	if req.KeypointCount < 1 {
		return nil, fmt.Errorf("%w: keypoint count must be at least 1", generation.ErrGenerationFailed)
	}

	var prompt bytes.Buffer
	err := g.tmpl.Execute(&prompt, passagePromptData{
		Topic:         req.Topic,
		LanguageName:  languageName(req.Language),
		Complexity:    string(req.Complexity),
		TargetWords:   req.TargetWords,
		KeypointCount: req.KeypointCount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}

	text, err := g.client.generateText(ctx, prompt.String(), true)
	if err != nil {
		return nil, err
	}

	var parsed passageResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if parsed.Passage == "" {
		return nil, fmt.Errorf("%w: empty passage", generation.ErrInvalidResponse)
	}
	if len(parsed.Keypoints) != req.KeypointCount {
		return nil, fmt.Errorf("%w: expected %d keypoints, got %d",
			generation.ErrInvalidResponse, req.KeypointCount, len(parsed.Keypoints))
	}

	return &generation.GeneratedPassage{
		Passage:   parsed.Passage,
		Keypoints: parsed.Keypoints,
	}, nil
}
