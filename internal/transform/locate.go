package transform

import "github.com/canonical/docwiki/internal/markup"

// Span is the token range of a located section.
type Span struct {
	// Start and End delimit the section as tokens[Start:End].
	Start, End int
	// Explicit is set when the section is the content of a container
	// element; the container's own tags are outside the span.
	Explicit bool
	// HeadingStart and HeadingEnd delimit the leading heading to leave out
	// of extraction. The range is empty unless it was requested.
	HeadingStart, HeadingEnd int
}

func (s Span) inHeading(i int) bool {
	return i >= s.HeadingStart && i < s.HeadingEnd
}

// LocateSection finds the section identified by id in a single pass.
//
// A structural container with an attribute equal to id is an explicit
// section made of its children. A heading with an attribute equal to id
// starts an implicit section that runs until the next sibling heading of
// equal or higher rank, or until its parent closes. Only the first match
// in document order is used. With ignoreHeading the first heading inside
// the section is reported in HeadingStart:HeadingEnd.
func LocateSection(tokens []markup.Token, id string, ignoreHeading bool) (Span, bool) {
	var (
		span        Span
		found       bool
		depth       int
		parent      int
		headingRank int

		ignoring    string
		ignoredDone bool
	)
	for i, tok := range tokens {
		switch tok.Type {
		case markup.StartTag:
			depth++
			rank := markup.HeadingRank(tok.DataAtom)
			switch {
			case !found && markup.IsSectionTag(tok.DataAtom) && tok.HasAttrValue(id):
				found = true
				span.Explicit = true
				span.Start = i + 1
				parent = depth
				continue
			case !found && rank > 0 && tok.HasAttrValue(id):
				found = true
				span.Start = i
				headingRank = rank
				parent = depth - 1
			case found && !span.Explicit && depth-1 == parent && rank > 0 && rank <= headingRank:
				span.End = i
				return span, true
			}
			if found && ignoreHeading && ignoring == "" && !ignoredDone && rank > 0 {
				ignoring = tok.Data
				span.HeadingStart = i
			}
		case markup.EndTag:
			depth--
			if found && depth < parent {
				span.End = i
				return span, true
			}
			if ignoring != "" && tok.Data == ignoring {
				span.HeadingEnd = i + 1
				ignoring = ""
				ignoredDone = true
			}
		}
	}
	if !found {
		return Span{}, false
	}
	span.End = len(tokens)
	if ignoring != "" {
		span.HeadingEnd = len(tokens)
	}
	return span, true
}
