// Package markup holds the token model shared by every content filter:
// a flat, replayable slice of HTML tokens produced by Parse and turned
// back into markup by Serialize.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TokenType identifies the variant of a Token.
type TokenType uint8

const (
	// StartTag opens an element that has a matching EndTag.
	StartTag TokenType = iota + 1
	// EndTag closes the element opened by the matching StartTag.
	EndTag
	// EmptyTag is a void element (br, img, ...). It has no EndTag and
	// does not change nesting depth.
	EmptyTag
	// Characters is text with at least one non-whitespace character.
	Characters
	// SpaceCharacters is whitespace-only text.
	SpaceCharacters
	Comment
	Doctype
)

func (t TokenType) String() string {
	switch t {
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case EmptyTag:
		return "EmptyTag"
	case Characters:
		return "Characters"
	case SpaceCharacters:
		return "SpaceCharacters"
	case Comment:
		return "Comment"
	case Doctype:
		return "Doctype"
	}
	return "Invalid"
}

// Token is one structural event of parsed markup. For tags Data is the
// tag name; for text and comments it is the unescaped content; for a
// doctype it is the doctype name, with public and system identifiers
// carried as "public" and "system" attributes.
type Token struct {
	Type     TokenType
	DataAtom atom.Atom
	Data     string
	Attr     []html.Attribute
}

// NewStartTag returns a StartTag token with the given attributes in order.
func NewStartTag(name string, attrs ...html.Attribute) Token {
	return Token{Type: StartTag, DataAtom: atom.Lookup([]byte(name)), Data: name, Attr: attrs}
}

// NewEndTag returns an EndTag token.
func NewEndTag(name string) Token {
	return Token{Type: EndTag, DataAtom: atom.Lookup([]byte(name)), Data: name}
}

// NewText returns a Characters token, or SpaceCharacters when s holds
// only whitespace.
func NewText(s string) Token {
	if isSpace(s) {
		return Token{Type: SpaceCharacters, Data: s}
	}
	return Token{Type: Characters, Data: s}
}

// Attr builds an attribute without namespace.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// IsTag reports whether the token is a start, end or empty tag.
func (t Token) IsTag() bool {
	return t.Type == StartTag || t.Type == EndTag || t.Type == EmptyTag
}

// IsText reports whether the token carries document text.
func (t Token) IsText() bool {
	return t.Type == Characters || t.Type == SpaceCharacters
}

// AttrVal returns the value of the first non-namespaced attribute named key.
func (t Token) AttrVal(key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttrValue reports whether any attribute of the token has value val.
func (t Token) HasAttrValue(val string) bool {
	for _, a := range t.Attr {
		if a.Val == val {
			return true
		}
	}
	return false
}

// HasClass reports whether the class attribute contains name as one of
// its whitespace separated entries.
func (t Token) HasClass(name string) bool {
	class, ok := t.AttrVal("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}

// WithAttr returns a copy of t with attribute key set to val. An
// existing attribute keeps its position; a new one is appended. The
// receiver's attribute slice is never modified.
func (t Token) WithAttr(key, val string) Token {
	attrs := make([]html.Attribute, 0, len(t.Attr)+1)
	replaced := false
	for _, a := range t.Attr {
		if a.Namespace == "" && a.Key == key {
			if !replaced {
				attrs = append(attrs, html.Attribute{Key: key, Val: val})
				replaced = true
			}
			continue
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, html.Attribute{Key: key, Val: val})
	}
	t.Attr = attrs
	return t
}

// WithoutAttrs returns a copy of t without the attributes for which drop
// returns true. When nothing is dropped t is returned as is.
func (t Token) WithoutAttrs(drop func(html.Attribute) bool) Token {
	var attrs []html.Attribute
	for i, a := range t.Attr {
		if !drop(a) {
			if attrs != nil {
				attrs = append(attrs, a)
			}
			continue
		}
		if attrs == nil {
			attrs = make([]html.Attribute, i, len(t.Attr))
			copy(attrs, t.Attr[:i])
		}
	}
	if attrs == nil {
		return t
	}
	t.Attr = attrs
	return t
}

// Text concatenates the data of all text tokens.
func Text(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.IsText() {
			b.WriteString(t.Data)
		}
	}
	return b.String()
}

// MatchingEnd returns the index of the EndTag closing the StartTag at
// tokens[start], counting nested elements of the same name. It returns
// len(tokens) when the element is never closed.
func MatchingEnd(tokens []Token, start int) int {
	name := tokens[start].Data
	depth := 0
	for i := start + 1; i < len(tokens); i++ {
		t := tokens[i]
		if t.Data != name {
			continue
		}
		switch t.Type {
		case StartTag:
			depth++
		case EndTag:
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return len(tokens)
}

func isSpace(s string) bool {
	return strings.TrimLeft(s, whitespace) == ""
}

// whitespace is the HTML definition of space characters.
const whitespace = " \t\n\f\r"
