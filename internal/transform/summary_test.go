package transform

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSEODescription(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		locale string
		want   string
	}{
		{"first paragraph", `<p>First  para.</p><p>Second</p>`, "en-US", "First para."},
		{"seo summary class", `<p>Intro</p><p><span class="seoSummary">The summary</span> rest</p>`, "en-US", "The summary"},
		{"summary section", `<p>Top</p><h2>Summary</h2><p>In summary</p><h2>Other</h2><p>o</p>`, "en-US", "In summary"},
		{"skips redirect notice", `<p>Redirect 1</p><p>Real</p>`, "en-US", "Real"},
		{"skips nested paragraphs", `<div class="note"><p>Note</p></div><p>Body</p>`, "en-US", "Body"},
		{"strips markup characters", `<p>a &lt;b&gt; c</p>`, "en-US", "a b c"},
		{"japanese punctuation", `<p>こんにちは 、 <b>世界</b> 。</p>`, "ja", "こんにちは、 世界。"},
		{"nothing found", `<ul><li>x</li></ul>`, "en-US", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := AssignSectionIDs(parseFragment(t, tt.input))
			if got := SEODescription(tokens, tt.locale); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSEODescriptionTruncates(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := SEODescription(parseFragment(t, "<p>"+long+"</p>"), "en-US")
	if !strings.HasSuffix(got, " …") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := len(strings.TrimSuffix(got, " …")); n > MaxDescriptionLen {
		t.Fatalf("description too long: %d", n)
	}
}

func TestCapDescriptionRuneSafe(t *testing.T) {
	got := capDescription(strings.Repeat("語", 100))
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
}
