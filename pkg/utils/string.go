package utils

// Truncate shortens s to at most maxLen characters, appending "..." when
// anything was cut. The chat command uses it for one-line transcript
// previews, so it counts runes rather than bytes to keep accented
// Portuguese text intact.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
