package transform

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/canonical/docwiki/internal/markup"
)

// DefaultLocale is used for /docs/ links without a locale prefix.
const DefaultLocale = "en-US"

var (
	// externalPrefixes mark links that leave the wiki.
	externalPrefixes = []string{"http:", "https:", "ftp:"}
	// specialDocPaths are /docs/ paths that are listings or actions, not
	// documents.
	specialDocPaths = []string{"new", "tag", "feeds", "templates", "needs-review"}
)

// ExistenceOracle reports which documents exist. ExistsByLocale receives
// lower-cased slugs and returns the subset that exist.
type ExistenceOracle interface {
	ExistsByLocale(ctx context.Context, locale string, slugs []string) (map[string]bool, error)
}

// LocaleSlugFunc splits a /docs/ link into the locale and slug of the
// document it targets. pathLocale is the path segment in front of /docs/
// (possibly empty); path is everything after it.
type LocaleSlugFunc func(pathLocale, path string) (locale, slug string)

// NewLocaleSlugParser returns a LocaleSlugFunc recognizing the given
// locales case-insensitively. Links without a recognized locale prefix
// resolve to fallback, unless their path starts with a locale segment
// (/docs/fr/Foo).
func NewLocaleSlugParser(locales []string, fallback string) LocaleSlugFunc {
	canonical := make(map[string]string, len(locales))
	for _, l := range locales {
		canonical[strings.ToLower(l)] = l
	}
	if fallback == "" {
		fallback = DefaultLocale
	}
	return func(pathLocale, path string) (string, string) {
		if l, ok := canonical[strings.ToLower(pathLocale)]; ok {
			return l, path
		}
		if first, rest, ok := strings.Cut(path, "/"); ok {
			if l, ok := canonical[strings.ToLower(first)]; ok {
				return l, rest
			}
		}
		if pathLocale != "" && len(canonical) == 0 {
			return pathLocale, path
		}
		return fallback, path
	}
}

// LinkAnnotator classifies the links of a document. External links get
// class "external" and rel "noopener"; links to wiki documents that do
// not exist get class "new" and rel "nofollow".
type LinkAnnotator struct {
	// BaseURL is the site URL. Absolute links to its host are treated as
	// site-relative paths.
	BaseURL string
	// Oracle answers the existence checks; nil disables them.
	Oracle ExistenceOracle
	// LocaleSlug resolves internal links; nil uses the path locale, or
	// DefaultLocale when there is none.
	LocaleSlug LocaleSlugFunc
	Logger     *slog.Logger
}

type linkAnnotation struct {
	class []string
	rel   []string
}

// Filter returns the annotator as a filter bound to ctx.
func (a *LinkAnnotator) Filter(ctx context.Context) markup.Filter {
	return func(tokens []markup.Token) []markup.Token {
		return a.Annotate(ctx, tokens)
	}
}

// Annotate runs the two annotation passes. The first pass gathers every
// link and checks the existence of the internal ones with a single oracle
// call per locale; the second adds the resulting class and rel values to
// the links, merged with the values already present.
//
// Oracle failures are logged and leave the affected links unmarked.
func (a *LinkAnnotator) Annotate(ctx context.Context, tokens []markup.Token) []markup.Token {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseHost := ""
	if u, err := url.Parse(a.BaseURL); err == nil {
		baseHost = u.Host
	}

	// Pass 1: collect links.
	links := map[string]*linkAnnotation{}
	var hrefs []string
	for _, tok := range tokens {
		href, ok := anchorHref(tok)
		if !ok {
			continue
		}
		href = squashHref(href, baseHost)
		if _, seen := links[href]; !seen {
			links[href] = &linkAnnotation{}
			hrefs = append(hrefs, href)
		}
	}
	if len(links) == 0 {
		return tokens
	}

	pending := map[string]map[string][]string{} // locale -> slug -> hrefs
	for _, href := range hrefs {
		if isExternal(href) {
			links[href].class = []string{"external"}
			links[href].rel = []string{"noopener"}
			continue
		}
		locale, slug, ok := a.docTarget(href)
		if !ok {
			continue
		}
		if pending[locale] == nil {
			pending[locale] = map[string][]string{}
		}
		pending[locale][slug] = append(pending[locale][slug], href)
	}

	if a.Oracle != nil {
		locales := make([]string, 0, len(pending))
		for locale := range pending {
			locales = append(locales, locale)
		}
		slices.Sort(locales)
		for _, locale := range locales {
			bySlug := pending[locale]
			slugs := make([]string, 0, len(bySlug))
			for slug := range bySlug {
				slugs = append(slugs, slug)
			}
			slices.Sort(slugs)

			existing, err := a.Oracle.ExistsByLocale(ctx, locale, slugs)
			if err != nil {
				logger.Error("link existence check failed", "locale", locale, "links", len(slugs), "error", err)
				continue
			}
			missing := 0
			for _, slug := range slugs {
				if existing[slug] {
					continue
				}
				missing++
				for _, href := range bySlug[slug] {
					links[href].class = append(links[href].class, "new")
					links[href].rel = []string{"nofollow"}
				}
			}
			logger.Debug("checked link targets", "locale", locale, "links", len(slugs), "missing", missing)
		}
	}

	// Pass 2: annotate.
	out := make([]markup.Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		href, ok := anchorHref(tok)
		if !ok {
			continue
		}
		ann := links[squashHref(href, baseHost)]
		if ann == nil {
			continue
		}
		if len(ann.class) > 0 {
			tok = tok.WithAttr("class", mergeTokens(tok, "class", ann.class))
		}
		if len(ann.rel) > 0 {
			tok = tok.WithAttr("rel", mergeTokens(tok, "rel", ann.rel))
		}
		out[i] = tok
	}
	return out
}

// docTarget resolves a /docs/ link into its locale and lower-cased slug.
func (a *LinkAnnotator) docTarget(href string) (string, string, bool) {
	if _, err := url.Parse(href); err != nil {
		return "", "", false
	}
	pathLocale, path, ok := strings.Cut(href, "/docs/")
	if !ok {
		return "", "", false
	}
	path, _, _ = strings.Cut(path, "#")
	path, _, _ = strings.Cut(path, "?")
	for _, special := range specialDocPaths {
		if path == special || strings.HasPrefix(path, special+"/") {
			return "", "", false
		}
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	pathLocale = strings.TrimPrefix(pathLocale, "/")

	var locale, slug string
	if a.LocaleSlug != nil {
		locale, slug = a.LocaleSlug(pathLocale, path)
	} else {
		locale, slug = pathLocale, path
		if locale == "" {
			locale = DefaultLocale
		}
	}
	slug = strings.TrimSuffix(strings.ToLower(slug), "/")
	if slug == "" {
		return "", "", false
	}
	return locale, slug, true
}

func anchorHref(tok markup.Token) (string, bool) {
	if tok.Type != markup.StartTag || tok.DataAtom != atom.A {
		return "", false
	}
	return tok.AttrVal("href")
}

// squashHref turns absolute links to the site itself into paths.
func squashHref(href, baseHost string) string {
	if baseHost == "" {
		return href
	}
	u, err := url.Parse(href)
	if err != nil || !strings.EqualFold(u.Host, baseHost) {
		return href
	}
	return u.Path
}

func isExternal(href string) bool {
	href = strings.ToLower(href)
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// mergeTokens returns the sorted union of the space separated values of
// attribute key and add.
func mergeTokens(tok markup.Token, key string, add []string) string {
	current, _ := tok.AttrVal(key)
	values := append(strings.Fields(current), add...)
	slices.Sort(values)
	return strings.Join(slices.Compact(values), " ")
}
