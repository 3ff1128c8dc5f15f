package slug

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple words", input: "Blog Post", want: "blog-post"},
		{name: "already a slug", input: "blog-post", want: "blog-post"},
		{name: "diacritics folded", input: "Crème Brûlée", want: "creme-brulee"},
		{name: "punctuation collapsed", input: "Hello, World!!  Again?", want: "hello-world-again"},
		{name: "leading and trailing separators", input: "  --Title--  ", want: "title"},
		{name: "underscores and dots", input: "my_field.name", want: "my-field-name"},
		{name: "digits kept", input: "Top 10 Lists", want: "top-10-lists"},
		{name: "dotted capital I", input: "İstanbul", want: "istanbul"},
		{name: "no alphanumerics", input: "!!!", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "non latin dropped", input: "日本 Guide", want: "guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugify_Properties(t *testing.T) {
	inputs := []string{
		"Blog Post", "ÀÉÎÕÜ éèê", "Tabs\tand\nnewlines", "a  b   c", "---", "MiXeD CaSe 123",
		"Ünïcödé Straße", "emoji 🚀 launch", "x", "Über-Cool_Thing (v2)",
	}

	for _, in := range inputs {
		out := Slugify(in)
		assert.Equal(t, strings.ToLower(out), out, "slug of %q must be lowercase", in)
		assert.False(t, strings.ContainsFunc(out, unicode.IsSpace), "slug of %q must not contain whitespace", in)
		assert.Equal(t, out, Slugify(out), "slugify must be idempotent for %q", in)
		assert.NotContains(t, out, "--")
	}
}

func TestBase(t *testing.T) {
	assert.Equal(t, "news", Base("News", "untitled"))
	assert.Equal(t, "untitled", Base("???", "untitled"))
	assert.Equal(t, "untitled", Base("", "Untitled"))
}
