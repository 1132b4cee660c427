package conversation

import (
	"strings"

	"github.com/plataforma-iris/iris/pkg/llm"
)

// minResponseChars is the fewest non-whitespace characters an acceptable
// response may have.
const minResponseChars = 20

// acceptResponse is the generation validator: a response must carry a
// minimum of substance, and a grounded paraphrase must share vocabulary
// with its grounding text. A response rejected on the final attempt is
// still returned by the retry layer.
func acceptResponse(req llm.Request, text string) bool {
	compact := strings.Join(strings.Fields(text), "")
	if len([]rune(compact)) < minResponseChars {
		return false
	}

	_, grounding, found := strings.Cut(req.Prompt, groundingMarker)
	if !found {
		return true
	}
	return lexicalOverlap(grounding, text)
}

// lexicalOverlap reports whether the response shares at least one
// significant token with the grounding text.
func lexicalOverlap(grounding, response string) bool {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(grounding)) {
		tok = strings.Trim(tok, ".,;:!?()\"'")
		if len([]rune(tok)) > 3 {
			tokens[tok] = struct{}{}
		}
	}
	if len(tokens) == 0 {
		return true
	}
	for _, tok := range strings.Fields(strings.ToLower(response)) {
		tok = strings.Trim(tok, ".,;:!?()\"'")
		if _, ok := tokens[tok]; ok {
			return true
		}
	}
	return false
}
