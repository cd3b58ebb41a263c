// Package transform implements the token filters applied to wiki content:
// section ids, section extraction and replacement, tables of contents,
// link annotation and the editor safety filters.
//
// The render pipeline runs as a sequence of named stages:
//  1. Sanitize the submitted markup (optional)
//  2. Parse into a token stream
//  3. Assign section and heading ids
//  4. Blank disallowed iframe sources
//  5. Tag code blocks with their language
//  6. Annotate external and missing links
//  7. Build TOC, summary and section list
//  8. Insert section edit links (optional)
package transform

import (
	"context"
	"log/slog"

	"github.com/canonical/docwiki/internal/markup"
	"github.com/canonical/docwiki/internal/sanitize"
)

// Doc holds the token stream of a document as it passes through the
// filters, plus the values derived from it by Pipeline.
type Doc struct {
	Tokens   []markup.Token
	TOC      string           // table of contents HTML (set by stage 7)
	Summary  string           // SEO description (set by stage 7)
	Sections []ContentSection // linkable headings (set by stage 7)
}

// Options configures Pipeline. The zero value runs the mandatory stages
// with the default table of contents depth and no existence checks.
type Options struct {
	BaseURL        string
	Locale         string
	DocumentURL    string // enables edit links when set
	TOCMaxLevel    int
	IframePatterns []IframePattern
	Oracle         ExistenceOracle
	LocaleSlug     LocaleSlugFunc
	Sanitize       *sanitize.Policy
	Logger         *slog.Logger
}

// Parse tokenizes src into a Doc.
func Parse(src string, fullDocument bool) (*Doc, error) {
	tokens, err := markup.Parse(src, fullDocument)
	if err != nil {
		return nil, err
	}
	return &Doc{Tokens: tokens}, nil
}

// Pipeline runs all render stages on rawHTML and returns the result.
func Pipeline(ctx context.Context, rawHTML string, opts Options) (*Doc, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Stage 1: Sanitize.
	if opts.Sanitize != nil {
		rawHTML = sanitize.Sanitize(rawHTML, *opts.Sanitize)
	}

	// Stage 2: Parse.
	doc, err := Parse(rawHTML, false)
	if err != nil {
		return nil, err
	}

	// Stages 3-6: Token filters.
	links := &LinkAnnotator{
		BaseURL:    opts.BaseURL,
		Oracle:     opts.Oracle,
		LocaleSlug: opts.LocaleSlug,
		Logger:     logger,
	}
	doc.InjectSectionIDs().
		FilterIframeHosts(opts.IframePatterns).
		Filter(CodeSyntaxFilter).
		AnnotateLinks(ctx, links)

	// Stage 7: Derived values. Computed before edit links are added so
	// the link text does not leak into headings.
	maxLevel := opts.TOCMaxLevel
	if maxLevel <= 0 {
		maxLevel = TOCAllLevels
	}
	doc.TOC = NewTOCBuilder(maxLevel).HTML(doc.Tokens)
	doc.Summary = SEODescription(doc.Tokens, opts.Locale)
	doc.Sections = ContentSections(doc.Tokens)

	// Stage 8: Edit links.
	if opts.DocumentURL != "" {
		doc.InjectEditLinks(opts.DocumentURL)
	}

	logger.Debug("rendered document", "tokens", len(doc.Tokens), "sections", len(doc.Sections))
	return doc, nil
}

// Filter runs the tokens through filters.
func (d *Doc) Filter(filters ...markup.Filter) *Doc {
	d.Tokens = markup.Chain(filters...)(d.Tokens)
	return d
}

// InjectSectionIDs applies AssignSectionIDs.
func (d *Doc) InjectSectionIDs() *Doc {
	return d.Filter(AssignSectionIDs)
}

// InjectEditLinks applies SectionEditLinks.
func (d *Doc) InjectEditLinks(documentURL string) *Doc {
	return d.Filter(SectionEditLinks(documentURL))
}

// FilterIframeHosts applies FilterIframeHosts.
func (d *Doc) FilterIframeHosts(patterns []IframePattern) *Doc {
	return d.Filter(FilterIframeHosts(patterns))
}

// FilterEditorSafety strips event handler attributes.
func (d *Doc) FilterEditorSafety() *Doc {
	return d.Filter(StripEventAttributes)
}

// FilterNoInclude removes noinclude elements.
func (d *Doc) FilterNoInclude() *Doc {
	return d.Filter(RemoveNoInclude)
}

// AnnotateLinks applies the link annotator.
func (d *Doc) AnnotateLinks(ctx context.Context, a *LinkAnnotator) *Doc {
	return d.Filter(a.Filter(ctx))
}

// ExtractSection keeps only the section identified by id.
func (d *Doc) ExtractSection(id string, ignoreHeading bool) *Doc {
	return d.Filter(ExtractSectionFilter(id, ignoreHeading))
}

// ReplaceSection parses src as a fragment and puts it in place of the
// section identified by id.
func (d *Doc) ReplaceSection(id, src string, ignoreHeading bool) (*Doc, error) {
	replacement, err := markup.Parse(src, false)
	if err != nil {
		return d, err
	}
	return d.Filter(ReplaceSectionFilter(id, replacement, ignoreHeading)), nil
}

// RemoveSection drops the section identified by id.
func (d *Doc) RemoveSection(id string) *Doc {
	return d.Filter(RemoveSectionFilter(id))
}

// Serialize renders the current tokens.
func (d *Doc) Serialize() string {
	return markup.Serialize(d.Tokens)
}
