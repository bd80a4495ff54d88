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

// The refiner fixes transcription artifacts only. It must never add,
// remove, or reorder ideas: the scorer has to see the user's recall, not
// the model's.
const refinePromptTemplate = `The following text is a raw speech-to-text transcription in {{.LanguageName}}
of a person recalling a passage they just read.

Clean it up: fix obvious transcription errors, punctuation, and casing.
Do NOT add, remove, summarize, or reorder any content.

Respond with the cleaned text only, no commentary.

Transcription:
{{.RawText}}`

type refinePromptData struct {
	LanguageName string
	RawText      string
}

// RecallRefiner implements generation.RecallRefiner on the Gemini API.
type RecallRefiner struct {
	client *Client
	tmpl   *template.Template
}

// NewRecallRefiner creates a Gemini-backed recall refiner.
func NewRecallRefiner(client *Client) (*RecallRefiner, error) {
	tmpl, err := template.New("refine").Parse(refinePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse refine prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return &RecallRefiner{client: client, tmpl: tmpl}, nil
}

// Ensure RecallRefiner implements generation.RecallRefiner
var _ generation.RecallRefiner = (*RecallRefiner)(nil)

// RefineRecall implements generation.RecallRefiner.
// Empty input is returned as-is without a model call.
func (r *RecallRefiner) RefineRecall(
	ctx context.Context,
	rawText string,
	language domain.Language,
) (string, error) {
	if strings.TrimSpace(rawText) == "" {
		return rawText, nil
	}

	var prompt bytes.Buffer
	err := r.tmpl.Execute(&prompt, refinePromptData{
		LanguageName: languageName(language),
		RawText:      rawText,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute refine template: %v",
			generation.ErrGenerationFailed, err)
	}

	text, err := r.client.generateText(ctx, prompt.String(), false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// languageName maps a language code to the name used in prompts.
func languageName(language domain.Language) string {
	switch language {
	case domain.LanguageEnglish:
		return "English"
	default:
		return "Portuguese"
	}
}
