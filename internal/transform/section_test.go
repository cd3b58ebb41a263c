package transform

import (
	"testing"

	"github.com/canonical/docwiki/internal/markup"
)

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		id            string
		ignoreHeading bool
		want          string
	}{
		{
			name:  "implicit section ends at sibling heading",
			input: `<h1 id="s1">Head 1</h1><p>a</p><h1 id="s2">Head 2</h1><p>b</p>`,
			id:    "s1",
			want:  `<h1 id="s1">Head 1</h1><p>a</p>`,
		},
		{
			name:  "lower ranked headings stay in the section",
			input: `<h1 id="a">A</h1><h2 id="b">B</h2><p>x</p><h3 id="c">C</h3><p>y</p><h1 id="d">D</h1><p>z</p>`,
			id:    "b",
			want:  `<h2 id="b">B</h2><p>x</p><h3 id="c">C</h3><p>y</p>`,
		},
		{
			name:  "last section runs to the end",
			input: `<h2 id="a">A</h2><p>1</p><h2 id="b">B</h2><p>2</p>`,
			id:    "b",
			want:  `<h2 id="b">B</h2><p>2</p>`,
		},
		{
			name:  "implicit section ends with its parent",
			input: `<div><h2 id="a">A</h2><p>x</p></div><p>out</p>`,
			id:    "a",
			want:  `<h2 id="a">A</h2><p>x</p>`,
		},
		{
			name:          "ignore heading",
			input:         `<h2 id="a">A <em>b</em></h2><p>x</p><h2 id="c">C</h2>`,
			id:            "a",
			ignoreHeading: true,
			want:          `<p>x</p>`,
		},
		{
			name:  "explicit section is the container content",
			input: `<div id="ex"><h2>In</h2><p>a</p></div><p>after</p>`,
			id:    "ex",
			want:  `<h2>In</h2><p>a</p>`,
		},
		{
			name:          "explicit section without heading",
			input:         `<div id="ex"><h2>In</h2><p>a</p></div>`,
			id:            "ex",
			ignoreHeading: true,
			want:          `<p>a</p>`,
		},
		{
			name:  "first match wins",
			input: `<section id="dup"><p>explicit</p></section><h2 id="dup">Implicit</h2><p>b</p>`,
			id:    "dup",
			want:  `<p>explicit</p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := markup.Serialize(ExtractSection(parseFragment(t, tt.input), tt.id, tt.ignoreHeading))
			if got != tt.want {
				t.Fatalf("unexpected section:\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestExtractSectionNotFound(t *testing.T) {
	if got := ExtractSection(parseFragment(t, `<h2 id="a">A</h2>`), "missing", false); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

const threeSections = `<h2 id="s1">One</h2><p>1</p><h2 id="s2">Two</h2><p>2</p><p>2b</p><h2 id="s3">Three</h2><p>3</p>`

func TestReplaceSection(t *testing.T) {
	tokens := parseFragment(t, threeSections)
	got := markup.Serialize(ReplaceSection(tokens, "s2", parseFragment(t, `<p>new</p>`), true))
	want := `<h2 id="s1">One</h2><p>1</p><h2 id="s2">Two</h2><p>new</p><h2 id="s3">Three</h2><p>3</p>`
	if got != want {
		t.Fatalf("unexpected replacement:\n got: %s\nwant: %s", got, want)
	}
}

func TestReplaceSectionWithHeading(t *testing.T) {
	tokens := parseFragment(t, threeSections)
	got := markup.Serialize(ReplaceSection(tokens, "s2", parseFragment(t, `<h2 id="s2">Deux</h2>`), false))
	want := `<h2 id="s1">One</h2><p>1</p><h2 id="s2">Deux</h2><h2 id="s3">Three</h2><p>3</p>`
	if got != want {
		t.Fatalf("unexpected replacement:\n got: %s\nwant: %s", got, want)
	}
}

func TestReplaceEmptyExplicitSection(t *testing.T) {
	tokens := parseFragment(t, `<div id="e"></div><p>x</p>`)
	got := markup.Serialize(ReplaceSection(tokens, "e", parseFragment(t, `<p>n</p>`), false))
	if got != `<div id="e"><p>n</p></div><p>x</p>` {
		t.Fatalf("unexpected replacement: %s", got)
	}
}

func TestReplaceSectionNotFound(t *testing.T) {
	tokens := parseFragment(t, threeSections)
	got := markup.Serialize(ReplaceSection(tokens, "nope", parseFragment(t, `<p>new</p>`), false))
	if got != threeSections {
		t.Fatalf("expected input unchanged, got: %s", got)
	}
}

func TestReplaceWithExtractIsNoop(t *testing.T) {
	inputs := []string{
		threeSections,
		`<div id="ex"><h2>In</h2><p>a</p></div><p>after</p>`,
		`<h1 id="a">A</h1><h2 id="b">B</h2><h3>C</h3><h1>D</h1>`,
	}
	ids := []string{"s2", "ex", "b"}
	for i, input := range inputs {
		tokens := parseFragment(t, input)
		for _, ignore := range []bool{false, true} {
			section := ExtractSection(tokens, ids[i], ignore)
			got := markup.Serialize(ReplaceSection(tokens, ids[i], section, ignore))
			if got != input {
				t.Fatalf("replace(extract) changed %q (ignoreHeading=%v):\n got: %s", ids[i], ignore, got)
			}
		}
	}
}

func TestRemoveSection(t *testing.T) {
	got := applyFilter(t, threeSections, RemoveSectionFilter("s1"))
	want := `<h2 id="s2">Two</h2><p>2</p><p>2b</p><h2 id="s3">Three</h2><p>3</p>`
	if got != want {
		t.Fatalf("unexpected result:\n got: %s\nwant: %s", got, want)
	}
}

func TestLocateSectionSpan(t *testing.T) {
	tokens := parseFragment(t, `<h2 id="a">A</h2><p>x</p>`)
	span, ok := LocateSection(tokens, "a", true)
	if !ok {
		t.Fatalf("expected section to be found")
	}
	if span.Start != 0 || span.End != len(tokens) || span.Explicit {
		t.Fatalf("unexpected span: %+v", span)
	}
	if span.HeadingStart != 0 || span.HeadingEnd != 3 {
		t.Fatalf("unexpected heading range: %+v", span)
	}
}
