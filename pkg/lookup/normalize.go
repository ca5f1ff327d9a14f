// Package lookup implements the normalization and matching core: canonical
// text keys, the reference and alias indexes, and the multi-path matcher.
package lookup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Go's \s is ASCII-only; queries pasted from spreadsheets and web pages
	// carry NBSP and friends, so the separator class (Zs/Zl/Zp) and NEL are
	// folded too.
	whitespaceRuns = regexp.MustCompile(`[\s\p{Z}\x{85}]+`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// Inconsistent spacing around slashes is removed; the slash itself stays.
	slashSpacing = strings.NewReplacer(" / ", "/", " /", "/", "/ ", "/")

	// En dash, em dash and the Unicode minus all fold to the ASCII hyphen.
	dashVariants = strings.NewReplacer("–", "-", "—", "-", "−", "-")
)

const edgeQuotes = "\"'‘’“”"

// Normalize maps raw text to the canonical key used for every comparison.
// The pipeline order matters: whitespace collapse, edge trimming, separator
// and dash folding, accent stripping, lowercasing. It is total (never fails)
// and idempotent.
func Normalize(text string) string {
	s := whitespaceRuns.ReplaceAllString(text, " ")
	s = trimEdges(s)
	s = slashSpacing.Replace(s)
	s = dashVariants.Replace(s)
	s, _, _ = transform.String(stripAccents, s)
	return strings.ToLower(s)
}

// trimEdges strips leading/trailing whitespace and quote characters,
// straight or curly, to a fixed point. Interior quotes are kept. Running to
// a fixed point keeps the whole pipeline idempotent on nested-quote input.
func trimEdges(s string) string {
	for {
		trimmed := trimEdgeQuotes(strings.TrimSpace(s))
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

// trimEdgeQuotes removes one leading and one trailing quote character.
func trimEdgeQuotes(s string) string {
	if r, size := utf8.DecodeRuneInString(s); size > 0 && strings.ContainsRune(edgeQuotes, r) {
		s = s[size:]
	}
	if r, size := utf8.DecodeLastRuneInString(s); size > 0 && strings.ContainsRune(edgeQuotes, r) {
		s = s[:len(s)-size]
	}
	return s
}
