package conversation

import (
	"regexp"
	"strings"
)

// echoedLabelRes match prompt scaffolding that small models echo back at the
// start of a response.
var echoedLabelRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*aqui está o texto parafraseado[:\-]*\s*`),
	regexp.MustCompile(`(?i)^\s*aqui está[:\-]*\s*`),
	regexp.MustCompile(`(?i)^\s*resposta[:\-]*\s*`),
	regexp.MustCompile(`(?i)^\s*responda[:\-]*\s*`),
	regexp.MustCompile(`(?i)^\s*here is[:\-]*\s*`),
}

var (
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
	sentenceSplitRe = regexp.MustCompile(`[^.!?]+[.!?]+\s*|[^.!?]+$`)
)

// CleanResponse normalizes raw model output: echoed prompt labels are
// stripped, runs of blank lines collapsed, and consecutive duplicate
// sentences dropped.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	for _, re := range echoedLabelRes {
		text = re.ReplaceAllString(text, "")
	}
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(dropRepeatedSentences(text))
}

// dropRepeatedSentences removes a sentence when it repeats the immediately
// preceding one, a common failure mode of small models under low
// temperature.
func dropRepeatedSentences(text string) string {
	matches := sentenceSplitRe.FindAllString(text, -1)
	if len(matches) < 2 {
		return text
	}

	var b strings.Builder
	prev := ""
	for _, sentence := range matches {
		key := strings.ToLower(strings.TrimSpace(strings.TrimRight(sentence, ".!? ")))
		if key != "" && key == prev {
			continue
		}
		prev = key
		b.WriteString(sentence)
	}
	return b.String()
}
