package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kevinkley/API-Extrator/internal/domain"
)

// decimalRegex admits plain decimal numbers, so hex floats and "inf" are rejected.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseAmount converts a BRL-formatted cell ("R$ 1.234,56") to a float.
// It never fails: empty text yields AmountMissing and unparsable text
// yields AmountInvalid, both with Value 0.
func ParseAmount(raw string) domain.Amount {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return domain.Amount{Status: domain.AmountMissing, Raw: raw}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	if !decimalRegex.MatchString(s) {
		return domain.Amount{Status: domain.AmountInvalid, Raw: raw}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Amount{Status: domain.AmountInvalid, Raw: raw}
	}
	return domain.Amount{Value: f, Status: domain.AmountParsed, Raw: raw}
}
