package transform

import (
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// CodeSample holds the sources of a live sample.
type CodeSample struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// ExtractCodeSample collects the html, css and js code blocks of the
// section identified by id. Several blocks of one language are joined with
// a newline.
func ExtractCodeSample(tokens []markup.Token, id string) CodeSample {
	section := ExtractSection(tokens, id, false)
	var htmlParts, cssParts, jsParts []string
	for i := 0; i < len(section); i++ {
		tok := section[i]
		if tok.Type != markup.StartTag || tok.DataAtom != atom.Pre {
			continue
		}
		end := markup.MatchingEnd(section, i)
		class, _ := tok.AttrVal("class")
		text := markup.Text(section[i+1 : end])
		switch brushLanguage(class) {
		case "html":
			htmlParts = append(htmlParts, text)
		case "css":
			cssParts = append(cssParts, text)
		case "js", "javascript":
			jsParts = append(jsParts, text)
		}
		i = end
	}
	return CodeSample{
		HTML: strings.Join(htmlParts, "\n"),
		CSS:  strings.Join(cssParts, "\n"),
		JS:   strings.Join(jsParts, "\n"),
	}
}
