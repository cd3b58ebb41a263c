// Package sanitize cleans submitted markup against an allow-list of tags,
// attributes and CSS properties before it is parsed into tokens.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// Policy lists what survives sanitizing. Attributes are allowed on every
// allowed tag; Styles are the CSS properties kept in style attributes.
type Policy struct {
	Tags       []string `json:"tags" yaml:"tags"`
	Attributes []string `json:"attributes" yaml:"attributes"`
	Styles     []string `json:"styles" yaml:"styles"`
}

// DefaultPolicy returns the allow-list used for wiki revisions.
func DefaultPolicy() Policy {
	return Policy{
		Tags: []string{
			"a", "abbr", "article", "aside", "b", "blockquote", "br", "caption",
			"cite", "code", "col", "colgroup", "dd", "del", "details", "dfn",
			"div", "dl", "dt", "em", "figcaption", "figure", "h1", "h2", "h3",
			"h4", "h5", "h6", "hgroup", "hr", "i", "iframe", "img", "ins", "kbd",
			"li", "nav", "ol", "p", "pre", "q", "s", "samp", "section", "small",
			"span", "strong", "sub", "summary", "sup", "table", "tbody", "td",
			"tfoot", "th", "thead", "tr", "u", "ul", "var",
		},
		Attributes: []string{
			"alt", "class", "colspan", "dir", "height", "href", "id", "lang",
			"name", "rel", "rowspan", "src", "title", "width",
		},
		Styles: []string{
			"background-color", "color", "font-style", "font-weight",
			"text-align", "text-decoration",
		},
	}
}

// Sanitize returns src with everything outside p removed. Disallowed
// elements are unwrapped, keeping their text. Nothing is added.
func Sanitize(src string, p Policy) string {
	return build(p).Sanitize(src)
}

func build(p Policy) *bluemonday.Policy {
	bp := bluemonday.NewPolicy()
	// AllowStandardURLs would also force rel="nofollow" on every link.
	bp.RequireParseableURLs(true)
	bp.AllowRelativeURLs(true)
	bp.AllowURLSchemes("mailto", "http", "https")
	bp.AllowElements(p.Tags...)
	if len(p.Attributes) > 0 {
		bp.AllowAttrs(p.Attributes...).Globally()
	}
	if len(p.Styles) > 0 {
		bp.AllowAttrs("style").Globally()
		bp.AllowStyles(p.Styles...).Globally()
	}
	return bp
}
