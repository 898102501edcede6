package modeladapter

import "unicode/utf8"

// charsPerToken is the rough number of characters in one token of English text.
const charsPerToken = 4

// CountTokens approximates the token count of text as its character count
// divided by four, truncating. It is meant for cost estimation only and must
// not drive truncation decisions.
func CountTokens(text string) int {
	return utf8.RuneCountInString(text) / charsPerToken
}
