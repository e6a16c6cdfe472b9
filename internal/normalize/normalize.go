// SPDX-License-Identifier: MIT

// Package normalize folds team, competition and channel names into a
// comparable form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are dropped from token lists; they appear in too many club names
// to carry any signal.
var stopwords = map[string]struct{}{
	"fc": {}, "cf": {}, "sc": {}, "club": {},
	"the": {}, "de": {}, "of": {}, "and": {},
}

// MinTokenLen is the shortest token (in runes) kept by Tokens.
const MinTokenLen = 3

// Text lower-cases s, strips diacritics, replaces everything that is not a
// letter or number with a space and collapses whitespace. Text(Text(s)) is
// always Text(s).
func Text(s string) string {
	if s == "" {
		return ""
	}
	folded := fold(s)

	var b strings.Builder
	b.Grow(len(folded))
	space := true // suppresses leading separators
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// maxFoldPasses bounds fold; real input settles after one or two passes.
const maxFoldPasses = 4

// fold applies lower-casing, NFKD and mark removal until the string stops
// changing. Compatibility characters such as U+1D2C decompose to upper-case
// letters, and some lower-case letters decompose again.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	cur := s
	for i := 0; i < maxFoldPasses; i++ {
		lower := strings.ToLower(cur)
		next, _, err := transform.String(t, lower)
		if err != nil {
			next = lower
		}
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

// Tokens returns the significant words of s: normalized, at least
// MinTokenLen runes long and not a stopword. The result is never nil.
func Tokens(s string) []string {
	fields := strings.Fields(Text(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < MinTokenLen {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Key folds a display name into a lookup key: lower-case ASCII letters and
// digits separated by single spaces. Non-ASCII runes act as separators.
func Key(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
