package transform

import "github.com/canonical/docwiki/internal/markup"

// ExtractSection returns the tokens of the section identified by id,
// without its leading heading when ignoreHeading is set. It returns nil
// when there is no such section.
func ExtractSection(tokens []markup.Token, id string, ignoreHeading bool) []markup.Token {
	span, ok := LocateSection(tokens, id, ignoreHeading)
	if !ok {
		return nil
	}
	out := make([]markup.Token, 0, span.End-span.Start)
	for i := span.Start; i < span.End; i++ {
		if span.inHeading(i) {
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// ReplaceSection swaps the section identified by id for replacement. With
// ignoreHeading the section's leading heading is kept in place. The
// replacement is inserted once, where the first replaced token was. The
// input is returned unchanged when there is no such section.
func ReplaceSection(tokens []markup.Token, id string, replacement []markup.Token, ignoreHeading bool) []markup.Token {
	span, ok := LocateSection(tokens, id, ignoreHeading)
	if !ok {
		return tokens
	}
	out := make([]markup.Token, 0, len(tokens)-(span.End-span.Start)+len(replacement))
	out = append(out, tokens[:span.Start]...)
	spliced := false
	for i := span.Start; i < span.End; i++ {
		if span.inHeading(i) {
			out = append(out, tokens[i])
			continue
		}
		if !spliced {
			out = append(out, replacement...)
			spliced = true
		}
	}
	if !spliced {
		out = append(out, replacement...)
	}
	return append(out, tokens[span.End:]...)
}

// RemoveSection drops the section identified by id, heading included.
func RemoveSection(tokens []markup.Token, id string) []markup.Token {
	return ReplaceSection(tokens, id, nil, false)
}

// ExtractSectionFilter is ExtractSection as a filter.
func ExtractSectionFilter(id string, ignoreHeading bool) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		return ExtractSection(tokens, id, ignoreHeading)
	}
}

// ReplaceSectionFilter is ReplaceSection as a filter.
func ReplaceSectionFilter(id string, replacement []markup.Token, ignoreHeading bool) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		return ReplaceSection(tokens, id, replacement, ignoreHeading)
	}
}

// RemoveSectionFilter is RemoveSection as a filter.
func RemoveSectionFilter(id string) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		return RemoveSection(tokens, id)
	}
}
