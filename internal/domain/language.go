package domain

// Language identifies the language a test is administered in.
// It selects the stopword set used by the tokenizer and the prompt
// language used by the generation collaborator.
type Language string

// Supported test languages. Portuguese is the base language: any
// unsupported or unresolved language falls back to its stopword set.
const (
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
)

// IsValid reports whether the language is one of the supported values.
func (l Language) IsValid() bool {
	switch l {
	case LanguagePortuguese, LanguageEnglish:
		return true
	default:
		return false
	}
}

// Complexity describes the lexical density requested for a generated passage.
type Complexity string

// Possible passage complexity values.
const (
	ComplexityNeutral Complexity = "neutral"
	ComplexityDense   Complexity = "dense"
)

// IsValid reports whether the complexity is one of the supported values.
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityNeutral, ComplexityDense:
		return true
	default:
		return false
	}
}
