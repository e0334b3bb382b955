// Package textutil provides pure string and date helpers shared by the
// persistence layer and the seeder.
package textutil

import (
	"strings"
	"time"
	"unicode"
)

// ExcerptLength is the number of content characters used when deriving a
// post excerpt.
const ExcerptLength = 200

// Slugify derives a URL-safe identifier: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, edge hyphens
// trimmed. Applying it twice yields the same result.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}

// Truncate returns s unchanged when it fits within n characters;
// otherwise it returns exactly n characters ending in "...". Counting
// happens in runes so multi-byte content never gets cut mid-character.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Excerpt derives a post excerpt: the first ExcerptLength characters of
// the content followed by an ellipsis.
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}

// FormatDate renders a timestamp as YYYY-MM-DD. It accepts a time.Time
// or an RFC 3339 string; anything else yields an empty string.
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("2006-01-02")
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return ""
		}
		return parsed.UTC().Format("2006-01-02")
	default:
		return ""
	}
}
