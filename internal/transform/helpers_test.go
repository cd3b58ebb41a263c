package transform

import (
	"testing"

	"github.com/canonical/docwiki/internal/markup"
)

func parseFragment(t *testing.T, src string) []markup.Token {
	t.Helper()
	tokens, err := markup.Parse(src, false)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return tokens
}

func applyFilter(t *testing.T, src string, f markup.Filter) string {
	t.Helper()
	return markup.Serialize(f(parseFragment(t, src)))
}
