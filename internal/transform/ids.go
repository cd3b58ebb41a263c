package transform

import (
	"fmt"
	"strings"

	"github.com/canonical/docwiki/internal/markup"
)

// slugReplacer removes characters that are not safe in a fragment identifier.
var slugReplacer = strings.NewReplacer(
	`"`, "", "#", "", "$", "", "%", "", "&", "", "+", "", ",", "", "/", "",
	":", "", ";", "", "=", "", "?", "", "@", "", "[", "", `\`, "", "]", "",
	"^", "", "`", "", "{", "", "|", "", "}", "", "~", "", "'", "", ")", "",
	"(", "",
)

// slugify turns heading text into an id: unsafe characters are dropped and
// whitespace runs become a single underscore. Other Unicode is kept as is.
func slugify(text string) string {
	return strings.Join(strings.Fields(slugReplacer.Replace(text)), "_")
}

// idSet tracks the ids in use while a document is processed.
type idSet struct {
	used map[string]bool
	n    int
}

// knownIDs collects the ids of non-heading elements and every name
// attribute. Heading ids are recomputed and therefore not trusted; a
// heading name also reserves its slug, which the heading claims later.
func knownIDs(tokens []markup.Token) *idSet {
	s := &idSet{used: map[string]bool{}}
	for _, tok := range tokens {
		if tok.Type != markup.StartTag && tok.Type != markup.EmptyTag {
			continue
		}
		heading := markup.IsHeading(tok.DataAtom)
		if id, ok := tok.AttrVal("id"); ok && id != "" && !heading {
			s.used[id] = true
		}
		if name, ok := tok.AttrVal("name"); ok && name != "" {
			s.used[name] = true
			if heading {
				if slug := slugify(name); slug != "" {
					s.used[slug] = true
				}
			}
		}
	}
	return s
}

// next returns the first free sectN id.
func (s *idSet) next() string {
	for {
		s.n++
		id := fmt.Sprintf("sect%d", s.n)
		if !s.used[id] {
			s.used[id] = true
			return id
		}
	}
}

// unique returns slug, or slug_2, slug_3 ... when it is taken.
func (s *idSet) unique(slug string) string {
	id := slug
	for n := 2; s.used[id]; n++ {
		id = fmt.Sprintf("%s_%d", slug, n)
	}
	s.used[id] = true
	return id
}

// AssignSectionIDs gives every heading and structural container an id,
// keeping all ids in the document unique.
//
// Containers keep an existing id and otherwise get sect1, sect2 ... .
// Headings always get a fresh id. A heading with a name attribute takes
// the slugified name as is; only a repeated name is suffixed. Other
// headings take the slugified heading text, suffixed _2, _3 ... when it
// is taken, or a sectN id when the text is empty.
func AssignSectionIDs(tokens []markup.Token) []markup.Token {
	ids := knownIDs(tokens)
	named := map[string]bool{}
	out := make([]markup.Token, 0, len(tokens))
	for i, tok := range tokens {
		if tok.Type != markup.StartTag {
			out = append(out, tok)
			continue
		}
		switch {
		case markup.IsHeading(tok.DataAtom):
			name, _ := tok.AttrVal("name")
			if slug := slugify(name); slug != "" {
				id := slug
				if named[slug] {
					id = ids.unique(slug)
				}
				named[slug] = true
				tok = tok.WithAttr("id", id)
				break
			}
			end := markup.MatchingEnd(tokens, i)
			if slug := slugify(markup.Text(tokens[i+1 : end])); slug != "" {
				tok = tok.WithAttr("id", ids.unique(slug))
			} else {
				tok = tok.WithAttr("id", ids.next())
			}
		case markup.IsSectionTag(tok.DataAtom):
			if id, ok := tok.AttrVal("id"); !ok || id == "" {
				tok = tok.WithAttr("id", ids.next())
			}
		}
		out = append(out, tok)
	}
	return out
}
