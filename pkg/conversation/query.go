package conversation

import (
	"regexp"
	"strings"
)

var (
	whoPrefixRe     = regexp.MustCompile(`(?i)^(quem é|quem foi|quem|sobre|fale sobre|diga[ -]?me quem é)\s+(.+)$`)
	punctuationRe   = regexp.MustCompile(`[?¡!,.]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	definitionRe    = regexp.MustCompile(`(?i)^(o que é|o que sao|o que são|defina|definição|explique|como funciona|qual é a definição de)\b`)
	selfIntroWordRe = regexp.MustCompile(`(?i)\b(se apresente|apresente-se)\b`)
)

var selfIntroTriggers = []string{
	"se apresente",
	"apresente-se",
	"apresente se",
	"apresente",
	"quem é você",
	"quem é iris",
	"olá iris",
	"oi iris",
}

// stanceIndicators are opinion and position words that justify falling back
// to biography-similarity search when no politician matches lexically.
var stanceIndicators = []string{
	"defende",
	"apoia",
	"posição",
	"posiciona",
	"posicionamento",
	"opinião",
	"opina",
	"pensa",
	"acha",
	"votou",
	"a favor",
	"contra",
	"ideologia",
}

// stopWords are dropped when tokenizing a message into search terms.
var stopWords = map[string]struct{}{
	"com": {}, "como": {}, "das": {}, "dos": {}, "ele": {}, "ela": {},
	"entre": {}, "mais": {}, "nas": {}, "nos": {}, "para": {}, "pela": {},
	"pelo": {}, "por": {}, "qual": {}, "quais": {}, "que": {}, "quem": {},
	"são": {}, "sobre": {}, "uma": {}, "uns": {},
}

// normalizeQuery strips interrogative lead-ins and trailing punctuation so
// "Quem é Tabata Amaral?" searches for "Tabata Amaral".
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return ""
	}
	if m := whoPrefixRe.FindStringSubmatch(q); m != nil {
		q = m[2]
	}
	return strings.TrimSpace(punctuationRe.ReplaceAllString(q, ""))
}

// searchTerms builds lexical search patterns: the full normalized phrase,
// its last token, then each remaining token, stop words and short tokens
// dropped, deduplicated case-insensitively in first-seen order.
func searchTerms(q string) []string {
	txt := normalizeQuery(q)
	if txt == "" {
		return nil
	}

	tokens := whitespaceRe.Split(txt, -1)
	var terms []string
	if len(tokens) >= 2 {
		terms = append(terms, txt, tokens[len(tokens)-1])
	} else {
		terms = append(terms, txt)
	}
	for _, tok := range tokens {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(tok)]; stop {
			continue
		}
		terms = append(terms, tok)
	}

	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, term := range terms {
		low := strings.ToLower(term)
		if _, dup := seen[low]; dup {
			continue
		}
		seen[low] = struct{}{}
		out = append(out, term)
	}
	return out
}

// queryTokens returns the lowercase tokens of length > 3 used for the
// relevance-overlap check against retrieved documents.
func queryTokens(q string) []string {
	var out []string
	for _, tok := range whitespaceRe.Split(normalizeQuery(q), -1) {
		if len([]rune(tok)) > 3 {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}

func isDefinitionQuery(q string) bool {
	return definitionRe.MatchString(strings.TrimSpace(q))
}

func isSelfIntroQuery(q string) bool {
	low := strings.ToLower(strings.TrimSpace(q))
	if low == "" {
		return false
	}
	for _, trigger := range selfIntroTriggers {
		if strings.Contains(low, trigger) {
			return true
		}
	}
	return selfIntroWordRe.MatchString(q)
}

func hasStanceIndicator(q string) bool {
	low := strings.ToLower(q)
	for _, w := range stanceIndicators {
		if strings.Contains(low, w) {
			return true
		}
	}
	return false
}
