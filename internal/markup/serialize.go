package markup

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	// Attribute values quoted with '"'.
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
	// Attribute values quoted with '\'' because they hold '"' but no '\''.
	singleQuotedAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "'", "&#39;")
)

// Serialize renders tokens as HTML. Optional tags are never omitted,
// attributes are emitted in alphabetical order and always quoted, and '<'
// is escaped inside attribute values. The output is stable for a given
// token stream, which the revision diffing and caching layers rely on.
func Serialize(tokens []Token) string {
	var b strings.Builder
	var rawText atom.Atom
	for _, t := range tokens {
		switch t.Type {
		case StartTag, EmptyTag:
			b.WriteByte('<')
			b.WriteString(t.Data)
			writeAttrs(&b, t)
			b.WriteByte('>')
			if t.Type == StartTag && isRawText(t.DataAtom) {
				rawText = t.DataAtom
			}
		case EndTag:
			if t.DataAtom == rawText {
				rawText = 0
			}
			b.WriteString("</")
			b.WriteString(t.Data)
			b.WriteByte('>')
		case Characters, SpaceCharacters:
			if rawText != 0 {
				b.WriteString(t.Data)
			} else {
				textEscaper.WriteString(&b, t.Data)
			}
		case Comment:
			b.WriteString("<!--")
			b.WriteString(t.Data)
			b.WriteString("-->")
		case Doctype:
			writeDoctype(&b, t)
		}
	}
	return b.String()
}

func writeAttrs(b *strings.Builder, t Token) {
	if len(t.Attr) == 0 {
		return
	}
	attrs := slices.Clone(t.Attr)
	slices.SortStableFunc(attrs, func(x, y html.Attribute) int {
		if c := cmp.Compare(x.Namespace, y.Namespace); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	for _, a := range attrs {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		if a.Namespace == "" && (a.Val == "" || a.Val == a.Key) && isBooleanAttr(t.DataAtom, a.Key) {
			continue
		}
		b.WriteByte('=')
		if strings.Contains(a.Val, `"`) && !strings.Contains(a.Val, "'") {
			b.WriteByte('\'')
			singleQuotedAttrEscaper.WriteString(b, a.Val)
			b.WriteByte('\'')
			continue
		}
		b.WriteByte('"')
		attrEscaper.WriteString(b, a.Val)
		b.WriteByte('"')
	}
}

func writeDoctype(b *strings.Builder, t Token) {
	b.WriteString("<!DOCTYPE ")
	b.WriteString(t.Data)
	public, hasPublic := t.AttrVal("public")
	system, hasSystem := t.AttrVal("system")
	if hasPublic && public != "" {
		b.WriteString(` PUBLIC "`)
		b.WriteString(public)
		b.WriteByte('"')
		if hasSystem && system != "" {
			b.WriteString(` "`)
			b.WriteString(system)
			b.WriteByte('"')
		}
	} else if hasSystem && system != "" {
		b.WriteString(` SYSTEM "`)
		b.WriteString(system)
		b.WriteByte('"')
	}
	b.WriteByte('>')
}
