package transform

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// StripEventAttributes removes on* event handler attributes from every
// element, so content can be handed to the editor.
func StripEventAttributes(tokens []markup.Token) []markup.Token {
	out := make([]markup.Token, len(tokens))
	for i, tok := range tokens {
		if tok.Type == markup.StartTag || tok.Type == markup.EmptyTag {
			tok = tok.WithoutAttrs(isEventAttr)
		}
		out[i] = tok
	}
	return out
}

func isEventAttr(a html.Attribute) bool {
	return strings.HasPrefix(strings.ToLower(a.Key), "on")
}

// IframePattern allows iframe sources by scheme, host and path. An empty
// Scheme matches any scheme. PathPattern, when set, replaces the
// PathPrefix check.
type IframePattern struct {
	Scheme      string
	Host        string
	PathPrefix  string
	PathPattern *regexp.Regexp
}

// Match reports whether u is allowed by the pattern.
func (p IframePattern) Match(u *url.URL) bool {
	if p.Scheme != "" && !strings.EqualFold(p.Scheme, u.Scheme) {
		return false
	}
	if !strings.EqualFold(p.Host, u.Host) {
		return false
	}
	if p.PathPattern != nil {
		return p.PathPattern.MatchString(u.Path)
	}
	return strings.HasPrefix(u.Path, p.PathPrefix)
}

// FilterIframeHosts blanks the src of every iframe that no pattern allows.
// Protocol-relative sources are checked as https.
func FilterIframeHosts(patterns []IframePattern) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		out := make([]markup.Token, len(tokens))
		for i, tok := range tokens {
			out[i] = tok
			if tok.Type != markup.StartTag || tok.DataAtom != atom.Iframe {
				continue
			}
			src, ok := tok.AttrVal("src")
			if !ok || src == "" || iframeAllowed(src, patterns) {
				continue
			}
			out[i] = tok.WithAttr("src", "")
		}
		return out
	}
}

func iframeAllowed(src string, patterns []IframePattern) bool {
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil || u.Host == "" {
		return false
	}
	for _, p := range patterns {
		if p.Match(u) {
			return true
		}
	}
	return false
}

// RemoveNoInclude drops every element carrying the noinclude class,
// together with its content.
func RemoveNoInclude(tokens []markup.Token) []markup.Token {
	out := make([]markup.Token, 0, len(tokens))
	skip := 0
	for _, tok := range tokens {
		if skip > 0 {
			switch tok.Type {
			case markup.StartTag:
				skip++
			case markup.EndTag:
				skip--
			}
			continue
		}
		if tok.HasClass("noinclude") {
			switch tok.Type {
			case markup.StartTag:
				skip = 1
				continue
			case markup.EmptyTag:
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}
