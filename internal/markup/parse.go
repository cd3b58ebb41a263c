package markup

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse tokenizes src with the HTML5 parsing algorithm. With fullDocument
// the result carries the html, head and body wrapper tokens; otherwise src
// is parsed as the content of a body element and no wrappers are emitted.
//
// The DOM is built first and then flattened, so tags in the result are
// always balanced.
func Parse(src string, fullDocument bool) ([]Token, error) {
	if fullDocument {
		doc, err := html.Parse(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return Flatten(doc), nil
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment: %w", err)
	}
	var tokens []Token
	for _, n := range nodes {
		tokens = appendNode(tokens, n)
	}
	return tokens, nil
}

// Flatten walks the tree rooted at n in document order and returns its
// token stream. A document node contributes only its children.
func Flatten(n *html.Node) []Token {
	return appendNode(nil, n)
}

func appendNode(tokens []Token, n *html.Node) []Token {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			tokens = appendNode(tokens, c)
		}
	case html.ElementNode:
		attrs := append([]html.Attribute(nil), n.Attr...)
		if n.Namespace == "" && IsVoid(n.DataAtom) {
			return append(tokens, Token{Type: EmptyTag, DataAtom: n.DataAtom, Data: n.Data, Attr: attrs})
		}
		tokens = append(tokens, Token{Type: StartTag, DataAtom: n.DataAtom, Data: n.Data, Attr: attrs})
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			tokens = appendNode(tokens, c)
		}
		tokens = append(tokens, Token{Type: EndTag, DataAtom: n.DataAtom, Data: n.Data})
	case html.TextNode:
		tokens = appendText(tokens, n.Data)
	case html.CommentNode:
		tokens = append(tokens, Token{Type: Comment, Data: n.Data})
	case html.DoctypeNode:
		tokens = append(tokens, Token{Type: Doctype, Data: n.Data, Attr: append([]html.Attribute(nil), n.Attr...)})
	}
	return tokens
}

// appendText splits leading and trailing whitespace of a text node into
// their own SpaceCharacters tokens.
func appendText(tokens []Token, s string) []Token {
	if s == "" {
		return tokens
	}
	middle := strings.TrimLeft(s, whitespace)
	if left := s[:len(s)-len(middle)]; left != "" {
		tokens = append(tokens, Token{Type: SpaceCharacters, Data: left})
	}
	if middle == "" {
		return tokens
	}
	trimmed := strings.TrimRight(middle, whitespace)
	tokens = append(tokens, Token{Type: Characters, Data: trimmed})
	if right := middle[len(trimmed):]; right != "" {
		tokens = append(tokens, Token{Type: SpaceCharacters, Data: right})
	}
	return tokens
}
