package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\pL\pN\s]`)

// matchStopWords are ignored when matching free text against product titles
var matchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words, single characters and pure numbers.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if matchStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
