package match

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeToken reduces a raw word to its comparable form: NFKC
// compatibility folding (full-width digits and composed symbols from CAD
// exporters become their plain equivalents), lowercase, and every rune
// outside [a-z0-9.+-] removed. Returns "" when nothing survives.
func NormalizeToken(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '+' || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits s on whitespace and normalizes each piece, dropping
// pieces that normalize to nothing.
func Tokenize(s string) []string {
	var out []string
	for _, part := range strings.Fields(s) {
		if tok := NormalizeToken(part); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
