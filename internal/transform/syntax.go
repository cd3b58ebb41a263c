package transform

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/lexers"
	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// brushPattern matches the SyntaxHighlighter style class of code blocks,
// e.g. class="brush: js; highlight: [2]".
var brushPattern = regexp.MustCompile(`(?i)\bbrush:\s*([\w.+#-]+)`)

// brushLanguage returns the lower-cased brush named in a class attribute.
func brushLanguage(class string) string {
	m := brushPattern.FindStringSubmatch(class)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// syntaxName resolves a brush to the canonical name of its language.
func syntaxName(brush string) (string, bool) {
	if brush == "" {
		return "", false
	}
	lexer := lexers.Get(brush)
	if lexer == nil {
		return "", false
	}
	return strings.ToLower(lexer.Config().Name), true
}

// CodeSyntaxFilter tags <pre class="brush: ..."> blocks with a
// data-syntax attribute naming their language. Blocks with an unknown
// brush are left alone.
func CodeSyntaxFilter(tokens []markup.Token) []markup.Token {
	out := make([]markup.Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if tok.Type != markup.StartTag || tok.DataAtom != atom.Pre {
			continue
		}
		class, _ := tok.AttrVal("class")
		if name, ok := syntaxName(brushLanguage(class)); ok {
			out[i] = tok.WithAttr("data-syntax", name)
		}
	}
	return out
}
