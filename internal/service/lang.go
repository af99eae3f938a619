package service

// isLangCode reports whether s is a two-lowercase-letter ISO 639-1 code.
// Content blocks are keyed by these codes, and the Mongo store splices them
// into field paths, so nothing else may pass.
func isLangCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
