package transform

import (
	"reflect"
	"strings"
	"testing"

	"github.com/canonical/docwiki/internal/markup"
)

func TestTOCNesting(t *testing.T) {
	tokens := parseFragment(t, `<h2 id="A">A</h2><h3 id="B">B</h3><h2 id="C">C</h2>`)
	got := NewTOCBuilder(TOCAllLevels).HTML(tokens)
	want := `<ol><li><a href="#A" rel="internal">A</a><ol><li><a href="#B" rel="internal">B</a></li></ol></li>` +
		`<li><a href="#C" rel="internal">C</a></li></ol>`
	if got != want {
		t.Fatalf("unexpected TOC:\n got: %s\nwant: %s", got, want)
	}
}

func TestTOCSkippedLevels(t *testing.T) {
	tokens := parseFragment(t, `<h2 id="A">A</h2><h4 id="B">B</h4>`)
	got := NewTOCBuilder(TOCAllLevels).HTML(tokens)
	want := `<ol><li><a href="#A" rel="internal">A</a><ol><li><ol><li><a href="#B" rel="internal">B</a></li></ol></li></ol></li></ol>`
	if got != want {
		t.Fatalf("unexpected TOC:\n got: %s\nwant: %s", got, want)
	}
}

func TestTOCProfiles(t *testing.T) {
	tokens := parseFragment(t, `<h2 id="a">A</h2><h3 id="b">B</h3><h4 id="c">C</h4>`)

	h2 := NewTOCBuilder(TOCH2).HTML(tokens)
	if h2 != `<ol><li><a href="#a" rel="internal">A</a></li></ol>` {
		t.Fatalf("unexpected h2 TOC: %s", h2)
	}

	h3 := NewTOCBuilder(TOCH3).HTML(tokens)
	if !strings.Contains(h3, `href="#b"`) || strings.Contains(h3, `href="#c"`) {
		t.Fatalf("unexpected h3 TOC: %s", h3)
	}
}

func TestTOCInlineMarkup(t *testing.T) {
	tokens := parseFragment(t, `<h2 id="x">The <code>foo</code> <em>bar</em></h2>`)
	got := NewTOCBuilder(TOCAllLevels).HTML(tokens)
	want := `<ol><li><a href="#x" rel="internal">The <code>foo</code> bar</a></li></ol>`
	if got != want {
		t.Fatalf("unexpected TOC:\n got: %s\nwant: %s", got, want)
	}
}

func TestTOCSkipsHeadingsWithoutID(t *testing.T) {
	tokens := parseFragment(t, `<h2>No id</h2><h1 id="top">Top</h1>`)
	if got := NewTOCBuilder(TOCAllLevels).HTML(tokens); got != "" {
		t.Fatalf("expected empty TOC, got: %s", got)
	}
}

func TestTOCDepthBound(t *testing.T) {
	sequences := [][]int{
		{2, 3, 4, 5, 6},
		{2, 6, 3, 5, 2, 4},
		{6, 2, 6, 3},
		{3, 3, 2, 5, 5, 4, 2},
	}
	for _, levels := range sequences {
		var b strings.Builder
		for i, level := range levels {
			tag := "h" + string(rune('0'+level))
			b.WriteString("<" + tag + ` id="h` + string(rune('a'+i)) + `">x</` + tag + ">")
		}
		for _, maxLevel := range []int{TOCH2, TOCH3, TOCAllLevels} {
			builder := NewTOCBuilder(maxLevel)
			bound := maxLevel - builder.MinLevel + 1
			depth, deepest := 1, 1
			for _, tok := range builder.Build(parseFragment(t, b.String())) {
				if tok.Data != "ol" {
					continue
				}
				switch tok.Type {
				case markup.StartTag:
					depth++
					deepest = max(deepest, depth)
				case markup.EndTag:
					depth--
				}
			}
			if depth != 1 {
				t.Fatalf("unbalanced TOC for %v (max %d)", levels, maxLevel)
			}
			if deepest > bound {
				t.Fatalf("TOC for %v (max %d) nests %d lists, bound %d", levels, maxLevel, deepest, bound)
			}
		}
	}
}

func TestContentSections(t *testing.T) {
	tokens := parseFragment(t, "<h2 id=\"a\">A  \n b</h2><h3>No id</h3><h4 id=\"c\"><code>c</code></h4>")
	got := ContentSections(tokens)
	want := []ContentSection{{ID: "a", Title: "A b"}, {ID: "c", Title: "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sections: %+v", got)
	}
}
