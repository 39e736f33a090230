package pricing

import "unicode/utf8"

// hasFinalConsonant reports whether the last Hangul syllable of word ends in a consonant.
func hasFinalConsonant(word string) bool {
	r, _ := utf8.DecodeLastRuneInString(word)
	if r < 0xAC00 || r > 0xD7A3 {
		return false
	}
	return (r-0xAC00)%28 != 0
}

// WithObject appends the object particle, e.g. 합판을, 도어를.
func WithObject(word string) string {
	if hasFinalConsonant(word) {
		return word + "을"
	}
	return word + "를"
}

// WithTopic appends the topic particle, e.g. 합판은, 도어는.
func WithTopic(word string) string {
	if hasFinalConsonant(word) {
		return word + "은"
	}
	return word + "는"
}

// WithOr appends the disjunctive particle, e.g. 합판이나, 도어나.
func WithOr(word string) string {
	if hasFinalConsonant(word) {
		return word + "이나"
	}
	return word + "나"
}
