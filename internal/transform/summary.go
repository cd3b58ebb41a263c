package transform

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// MaxDescriptionLen is the maximum length of a description before truncation.
const MaxDescriptionLen = 200

var (
	markupChars = strings.NewReplacer("<", "", ">", "")
	// Spacing left around Japanese punctuation when text nodes are joined.
	jaSpaceBefore = regexp.MustCompile(` ([,)」、。])`)
	jaSpaceAfter  = regexp.MustCompile(`([(「]) `)
)

// SEODescription returns the plain-text summary of a document for search
// engines. The search is limited to the "Summary" section when there is
// one. Text marked with the seoSummary class wins; otherwise the first
// top-level paragraph that is not a redirect notice is used.
func SEODescription(tokens []markup.Token, locale string) string {
	if summary := ExtractSection(tokens, "Summary", false); len(summary) > 0 {
		tokens = summary
	}
	text := classText(tokens, "seoSummary")
	if text == "" {
		text = firstParagraph(tokens)
	}
	text = markupChars.Replace(text)
	if locale == "ja" {
		text = jaSpaceBefore.ReplaceAllString(text, "$1")
		text = jaSpaceAfter.ReplaceAllString(text, "$1")
	}
	return capDescription(text)
}

// classText joins the text of all elements carrying class.
func classText(tokens []markup.Token, class string) string {
	var parts []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type != markup.StartTag || !tok.HasClass(class) {
			continue
		}
		end := markup.MatchingEnd(tokens, i)
		if text := collapseWhitespace(markup.Text(tokens[i+1 : end])); text != "" {
			parts = append(parts, text)
		}
		i = end
	}
	return strings.Join(parts, " ")
}

// firstParagraph returns the text of the first paragraph that sits at the
// top level of the content. Paragraphs nested in notes or boxes are not
// considered.
func firstParagraph(tokens []markup.Token) string {
	var stack []atom.Atom
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case markup.EndTag:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		case markup.StartTag:
		default:
			continue
		}
		topLevel := len(stack) == 0 || stack[len(stack)-1] == atom.Body
		if tok.DataAtom != atom.P || !topLevel {
			stack = append(stack, tok.DataAtom)
			continue
		}
		end := markup.MatchingEnd(tokens, i)
		text := collapseWhitespace(markup.Text(tokens[i+1 : end]))
		if text != "" && !strings.Contains(text, "Redirect") && !strings.Contains(text, "«") {
			return text
		}
		i = end
	}
	return ""
}

func capDescription(desc string) string {
	if len(desc) <= MaxDescriptionLen {
		return desc
	}
	cut := strings.LastIndex(desc[:MaxDescriptionLen], " ")
	if cut <= 0 {
		cut = MaxDescriptionLen
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
	}
	return strings.TrimRight(desc[:cut], ".,;: ") + " …"
}
