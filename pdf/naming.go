package pdf

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelToUnderscore translates a camel-cased name into snake case
// (firstName -> first_name).
func CamelToUnderscore(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if i == 0 {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnderscoreToCamel translates a snake-cased name into camel case
// (first_name -> firstName). With pascal set the first letter is upper-cased
// (first_name -> FirstName).
func UnderscoreToCamel(s string, pascal bool) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if pascal {
		first = unicode.ToUpper(first)
	} else {
		first = unicode.ToLower(first)
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(first)

	rest := s[size:]
	for len(rest) > 0 {
		r, n := utf8.DecodeRuneInString(rest)
		rest = rest[n:]
		if r != '_' || len(rest) == 0 {
			b.WriteRune(r)
			continue
		}
		next, m := utf8.DecodeRuneInString(rest)
		if !unicode.IsLetter(next) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(unicode.ToUpper(next))
		rest = rest[m:]
	}
	return b.String()
}
