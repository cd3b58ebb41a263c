package transform

import (
	"slices"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// Maximum heading levels of the table of contents profiles.
const (
	TOCAllLevels = 6
	TOCH2        = 2
	TOCH3        = 3
)

// TOCBuilder generates a nested ordered list linking to the document's
// headings.
type TOCBuilder struct {
	// MinLevel is the heading rank of the outermost list items (default 2).
	MinLevel int
	// MaxLevel is the deepest heading rank listed (default 6).
	MaxLevel int
	// InlineTags are the tags kept inside the item links. All other
	// markup of the heading is reduced to its text.
	InlineTags []atom.Atom
}

// NewTOCBuilder returns a builder listing h2 down to maxLevel headings.
func NewTOCBuilder(maxLevel int) TOCBuilder {
	return TOCBuilder{MinLevel: 2, MaxLevel: maxLevel, InlineTags: []atom.Atom{atom.Code}}
}

func (b TOCBuilder) levels() (int, int) {
	minLevel, maxLevel := b.MinLevel, b.MaxLevel
	if minLevel <= 0 {
		minLevel = 2
	}
	if maxLevel <= 0 || maxLevel > 6 {
		maxLevel = 6
	}
	return minLevel, maxLevel
}

// Build returns the list items of the table of contents. The items are
// meant to be placed in an <ol>; deeper headings are nested in <ol>
// elements inside the preceding item. Headings without an id, or ranked
// outside MinLevel..MaxLevel, are skipped.
func (b TOCBuilder) Build(tokens []markup.Token) []markup.Token {
	minLevel, maxLevel := b.levels()
	var (
		out      []markup.Token
		cursor   = minLevel
		depth    int
		itemOpen bool
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != markup.StartTag || !markup.IsHeading(tok.DataAtom) {
			continue
		}
		level := markup.HeadingRank(tok.DataAtom)
		if level < minLevel || level > maxLevel {
			continue
		}
		id, _ := tok.AttrVal("id")
		if id == "" {
			continue
		}
		end := markup.MatchingEnd(tokens, i)

		switch {
		case level > cursor:
			for n := cursor; n < level; n++ {
				if !itemOpen {
					out = append(out, markup.NewStartTag("li"))
				}
				out = append(out, markup.NewStartTag("ol"))
				depth++
				itemOpen = false
			}
		case level < cursor:
			if itemOpen {
				out = append(out, markup.NewEndTag("li"))
			}
			for n := level; n < cursor && depth > 0; n++ {
				out = append(out, markup.NewEndTag("ol"), markup.NewEndTag("li"))
				depth--
			}
		default:
			if itemOpen {
				out = append(out, markup.NewEndTag("li"))
			}
		}
		cursor = level

		out = append(out,
			markup.NewStartTag("li"),
			markup.NewStartTag("a", markup.Attr("href", "#"+id), markup.Attr("rel", "internal")),
		)
		out = append(out, b.inline(tokens[i+1:end])...)
		out = append(out, markup.NewEndTag("a"))
		itemOpen = true
		i = end
	}
	if itemOpen {
		out = append(out, markup.NewEndTag("li"))
	}
	for ; depth > 0; depth-- {
		out = append(out, markup.NewEndTag("ol"), markup.NewEndTag("li"))
	}
	return out
}

// inline keeps the text of a heading and the allow-listed inline tags.
func (b TOCBuilder) inline(tokens []markup.Token) []markup.Token {
	var out []markup.Token
	for _, tok := range tokens {
		switch {
		case tok.IsText():
			out = append(out, tok)
		case (tok.Type == markup.StartTag || tok.Type == markup.EndTag) && slices.Contains(b.InlineTags, tok.DataAtom):
			out = append(out, markup.Token{Type: tok.Type, DataAtom: tok.DataAtom, Data: tok.Data})
		}
	}
	return out
}

// HTML renders the table of contents wrapped in an <ol>, or "" when the
// document has no eligible headings.
func (b TOCBuilder) HTML(tokens []markup.Token) string {
	items := b.Build(tokens)
	if len(items) == 0 {
		return ""
	}
	list := make([]markup.Token, 0, len(items)+2)
	list = append(list, markup.NewStartTag("ol"))
	list = append(list, items...)
	list = append(list, markup.NewEndTag("ol"))
	return markup.Serialize(list)
}

// ContentSection is a heading that can be linked to.
type ContentSection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ContentSections lists every h1-h6 heading carrying an id, in document
// order.
func ContentSections(tokens []markup.Token) []ContentSection {
	var sections []ContentSection
	for i, tok := range tokens {
		if tok.Type != markup.StartTag || !markup.IsHeading(tok.DataAtom) {
			continue
		}
		id, _ := tok.AttrVal("id")
		if id == "" {
			continue
		}
		end := markup.MatchingEnd(tokens, i)
		sections = append(sections, ContentSection{
			ID:    id,
			Title: collapseWhitespace(markup.Text(tokens[i+1 : end])),
		})
	}
	return sections
}

// collapseWhitespace replaces runs of whitespace (including newlines)
// with a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
