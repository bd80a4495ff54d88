package scoring

import "github.com/calewis/retell-api/internal/domain"

// Stopword sets are keyed by the normalized form of each word, i.e. after
// lowercasing and diacritic stripping, because stopword removal runs after
// those steps in the tokenizer pipeline ("nao", not "não").
//
// Portuguese is the base language; stopwordsFor falls back to its set for
// any language it does not recognize.

var portugueseStopwords = map[string]bool{
	"a": true, "ao": true, "aos": true, "aquela": true, "aquele": true,
	"aquilo": true, "as": true, "ate": true, "com": true, "como": true,
	"contra": true, "da": true, "das": true, "de": true, "dela": true,
	"dele": true, "deles": true, "depois": true, "do": true, "dos": true,
	"e": true, "ela": true, "elas": true, "ele": true, "eles": true,
	"em": true, "entre": true, "era": true, "eram": true, "essa": true,
	"esse": true, "esta": true, "estas": true, "este": true, "estes": true,
	"eu": true, "foi": true, "foram": true, "isso": true, "isto": true,
	"ja": true, "lhe": true, "lhes": true, "mais": true, "mas": true,
	"me": true, "mesmo": true, "meu": true, "minha": true, "muito": true,
	"na": true, "nao": true, "nas": true, "nem": true, "no": true,
	"nos": true, "nossa": true, "nosso": true, "num": true, "numa": true,
	"o": true, "os": true, "ou": true, "para": true, "pela": true,
	"pelas": true, "pelo": true, "pelos": true, "por": true, "qual": true,
	"quando": true, "que": true, "quem": true, "sao": true, "se": true,
	"sem": true, "ser": true, "seu": true, "sua": true, "suas": true,
	"tambem": true, "te": true, "tem": true, "tinha": true, "um": true,
	"uma": true, "voce": true, "voces": true,
}

var englishStopwords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "before": true,
	"but": true, "by": true, "can": true, "could": true, "did": true,
	"do": true, "does": true, "for": true, "from": true, "had": true,
	"has": true, "have": true, "he": true, "her": true, "his": true,
	"how": true, "if": true, "in": true, "into": true, "is": true,
	"it": true, "its": true, "just": true, "more": true, "most": true,
	"not": true, "of": true, "on": true, "or": true, "other": true,
	"our": true, "out": true, "over": true, "she": true, "so": true,
	"some": true, "such": true, "than": true, "that": true, "the": true,
	"their": true, "them": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "through": true, "to": true,
	"under": true, "up": true, "was": true, "we": true, "were": true,
	"what": true, "when": true, "where": true, "which": true, "while": true,
	"who": true, "will": true, "with": true, "would": true, "you": true,
	"your": true,
}

// stopwordsFor returns the closed stopword set for the given language.
// Unsupported languages fall back to the Portuguese base set.
func stopwordsFor(language domain.Language) map[string]bool {
	switch language {
	case domain.LanguageEnglish:
		return englishStopwords
	default:
		return portugueseStopwords
	}
}
