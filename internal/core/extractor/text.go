package extractor

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// headerLabel is the name column's header; rows repeating it are dropped.
const headerLabel = "NOME DO PROFISSIONAL"

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeText folds accents and case so labels compare loosely.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func isHeaderEcho(name string) bool {
	return normalizeText(name) == headerLabel
}

// cleanChunk prepares a text run read from the page.
func cleanChunk(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
