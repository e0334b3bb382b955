package textutil

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"edge hyphens trimmed", "---hello---", "hello"},
		{"punctuation", "What's New?", "what-s-new"},
		{"collapses runs", "a   b!!c", "a-b-c"},
		{"already a slug", "hello-world", "hello-world"},
		{"digits survive", "Top 10 Posts of 2024", "top-10-posts-of-2024"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Hello World", "What's New?", "---hello---", "Go 1.25 Released!"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify should be idempotent for %q", in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello...", Truncate("hello world", 8))
	assert.Len(t, Truncate("hello world", 8), 8)

	// Fits exactly: unchanged.
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hi", Truncate("hi", 10))
	assert.Equal(t, "", Truncate("", 4))
}

func TestTruncateMultiByte(t *testing.T) {
	// Counting is per rune, and a cut never lands mid-character.
	s := strings.Repeat("é", 10)
	got := Truncate(s, 8)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 8, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("é", 5)+"...", got)

	assert.Equal(t, "日本語", Truncate("日本語", 3))
}

func TestExcerpt(t *testing.T) {
	short := "a short post"
	assert.Equal(t, short+"...", Excerpt(short))

	long := strings.Repeat("x", 300)
	got := Excerpt(long)
	assert.Len(t, got, ExcerptLength+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExcerptMultiByte(t *testing.T) {
	long := strings.Repeat("ü", 300)
	got := Excerpt(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, ExcerptLength+3, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15", FormatDate(ts))
	assert.Equal(t, "2024-01-15", FormatDate("2024-01-15T12:00:00Z"))
	assert.Equal(t, "", FormatDate("not a date"))
	assert.Equal(t, "", FormatDate(42))
}
