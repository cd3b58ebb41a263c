package markup

import "golang.org/x/net/html/atom"

// HeadingRank returns the rank of a heading element (h1=1 ... h6=6) and
// 0 for anything else. hgroup ranks as an h1.
func HeadingRank(a atom.Atom) int {
	switch a {
	case atom.H1, atom.Hgroup:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// IsHeading reports whether a is one of h1 to h6.
func IsHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// IsSectionTag reports whether a is a structural container that can
// delimit an explicit section.
func IsSectionTag(a atom.Atom) bool {
	switch a {
	case atom.Article, atom.Aside, atom.Nav, atom.Section, atom.Blockquote,
		atom.Body, atom.Details, atom.Fieldset, atom.Figure, atom.Table, atom.Div:
		return true
	}
	return false
}

// IsVoid reports whether a is a void element, emitted as an EmptyTag.
func IsVoid(a atom.Atom) bool {
	switch a {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Keygen, atom.Link, atom.Meta, atom.Param, atom.Source,
		atom.Track, atom.Wbr:
		return true
	}
	return false
}

// isRawText reports whether the text content of a is serialized without
// escaping.
func isRawText(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Xmp, atom.Iframe, atom.Noembed,
		atom.Noframes, atom.Noscript, atom.Plaintext:
		return true
	}
	return false
}

// booleanAttrs lists the attributes serialized without a value when empty
// or equal to their own name. The zero atom holds the global ones.
var booleanAttrs = map[atom.Atom][]string{
	0:             {"irrelevant", "itemscope"},
	atom.Style:    {"scoped"},
	atom.Img:      {"ismap"},
	atom.Audio:    {"autoplay", "controls"},
	atom.Video:    {"autoplay", "controls"},
	atom.Script:   {"defer", "async"},
	atom.Details:  {"open"},
	atom.Hr:       {"noshade"},
	atom.Menu:     {"autosubmit"},
	atom.Fieldset: {"disabled", "readonly"},
	atom.Option:   {"disabled", "readonly", "selected"},
	atom.Optgroup: {"disabled", "readonly"},
	atom.Button:   {"disabled", "autofocus"},
	atom.Input:    {"disabled", "readonly", "required", "autofocus", "checked", "ismap"},
	atom.Select:   {"disabled", "readonly", "autofocus", "multiple"},
	atom.Output:   {"disabled", "readonly"},
	atom.Iframe:   {"seamless"},
}

func isBooleanAttr(a atom.Atom, key string) bool {
	for _, k := range booleanAttrs[0] {
		if k == key {
			return true
		}
	}
	for _, k := range booleanAttrs[a] {
		if k == key {
			return true
		}
	}
	return false
}
