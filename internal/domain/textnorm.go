package domain

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD, drops combining marks, and recomposes, turning
// "İlksel" into "Ilksel" and "GÖKOVA KÖRFEZİ" into "GOKOVA KORFEZI".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldText lower-cases a classification token and strips diacritics so that
// "İlksel" and "ilksel" normalize to the same tag. Turkish dotless ı carries
// no combining mark, so it is folded explicitly.
func FoldText(s string) string {
	folded, _, err := transform.String(foldMarks, strings.TrimSpace(s))
	if err != nil {
		folded = strings.TrimSpace(s)
	}
	folded = strings.ToLower(folded)
	return strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, folded)
}

// parseDecimal parses a listing decimal, folding the Turkish comma separator
// to a period first.
func parseDecimal(token string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(token), ",", "."), 64)
}

// isSentinel reports whether a token is a "not reported" placeholder: a
// non-empty run of dashes and periods such as "-.-" or "--".
func isSentinel(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	for _, r := range token {
		if r != '-' && r != '.' {
			return false
		}
	}
	return true
}
