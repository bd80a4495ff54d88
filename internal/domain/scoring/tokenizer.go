package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/calewis/retell-api/internal/domain"
)

// stripMarks decomposes text canonically (NFD) and removes all nonspacing
// combining marks, so accented and unaccented letters normalize to the same
// base form ("é" and "e" both become "e").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize converts raw text into its canonical ordered token sequence:
//
//  1. lowercase (locale-insensitive)
//  2. strip diacritical marks (NFD + remove Mn)
//  3. drop every rune that is neither alphanumeric nor whitespace
//  4. split on whitespace runs
//  5. remove stopwords for the given language
//  6. remove tokens of 2 or fewer characters
//
// Duplicates are kept and order follows first-to-last occurrence in the
// source. The function is pure and total: empty or malformed input yields
// an empty sequence, never an error.
func Tokenize(text string, language domain.Language) []string {
	lowered := strings.ToLower(text)

	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// The chain cannot fail on valid UTF-8; on malformed input keep
		// the lowered text so tokenization stays total.
		folded = lowered
	}

	var cleaned strings.Builder
	cleaned.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			cleaned.WriteRune(r)
		}
	}

	stopwords := stopwordsFor(language)

	tokens := make([]string, 0)
	for _, tok := range strings.Fields(cleaned.String()) {
		if stopwords[tok] {
			continue
		}
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens
}

// TokenizeKeypoint derives the canonical token sequence for a keypoint's
// text. It is the same pipeline as Tokenize, exposed separately so keypoint
// tokens can be computed once at test-build time and stored.
func TokenizeKeypoint(text string, language domain.Language) []string {
	return Tokenize(text, language)
}
