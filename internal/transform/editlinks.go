package transform

import (
	"net/url"

	"github.com/canonical/docwiki/internal/markup"
)

// SectionEditLinks inserts an "Edit" link at the start of every heading
// that has an id. documentURL is the path of the document, e.g.
// /en-US/docs/Web/HTML.
func SectionEditLinks(documentURL string) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		out := make([]markup.Token, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, tok)
			if tok.Type != markup.StartTag || !markup.IsHeading(tok.DataAtom) {
				continue
			}
			if id, ok := tok.AttrVal("id"); ok && id != "" {
				out = append(out, editLink(documentURL, id)...)
			}
		}
		return out
	}
}

func editLink(documentURL, id string) []markup.Token {
	src := url.Values{"section": {id}, "raw": {"true"}}
	edit := url.Values{"section": {id}, "edit_links": {"true"}}
	return []markup.Token{
		markup.NewStartTag("a",
			markup.Attr("class", "edit-section"),
			markup.Attr("data-section-id", id),
			markup.Attr("data-section-src-url", documentURL+"?"+src.Encode()),
			markup.Attr("href", documentURL+"$edit?"+edit.Encode()),
			markup.Attr("title", "Edit section"),
		),
		markup.NewText("Edit"),
		markup.NewEndTag("a"),
	}
}
