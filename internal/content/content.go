// Package content renders the static storefront pages from embedded markdown.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/svatebni-denik/storefront/internal/i18n"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Page is a rendered static page.
type Page struct {
	Slug    string
	Locale  i18n.Locale
	Title   string
	Summary string
	Body    template.HTML
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

// Store holds every rendered page keyed by slug and locale.
type Store struct {
	pages map[string]map[i18n.Locale]Page
}

var pageSlugs = []string{"about", "contact"}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// NewStore renders all embedded pages. It fails when a page is missing for any
// locale or its front matter is invalid.
func NewStore() (*Store, error) {
	md := newMarkdown()
	policy := newPolicy()

	pages := make(map[string]map[i18n.Locale]Page, len(pageSlugs))
	for _, slug := range pageSlugs {
		byLocale := make(map[i18n.Locale]Page, len(i18n.Locales))
		for _, locale := range i18n.Locales {
			name := fmt.Sprintf("pages/%s.%s.md", slug, locale)
			raw, err := pagesFS.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("content: missing page %s: %w", name, err)
			}
			page, err := renderPage(md, policy, slug, locale, raw)
			if err != nil {
				return nil, fmt.Errorf("content: render %s: %w", name, err)
			}
			byLocale[locale] = page
		}
		pages[slug] = byLocale
	}
	return &Store{pages: pages}, nil
}

// Page returns the rendered page for a slug and locale.
func (s *Store) Page(slug string, locale i18n.Locale) (Page, bool) {
	byLocale, ok := s.pages[slug]
	if !ok {
		return Page{}, false
	}
	page, ok := byLocale[locale]
	if !ok {
		page, ok = byLocale[i18n.DefaultLocale]
	}
	return page, ok
}

func renderPage(md goldmark.Markdown, policy *bluemonday.Policy, slug string, locale i18n.Locale, raw []byte) (Page, error) {
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return Page{}, err
	}
	if strings.TrimSpace(meta.Title) == "" {
		return Page{}, fmt.Errorf("front matter missing title")
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("markdown conversion: %w", err)
	}

	return Page{
		Slug:    slug,
		Locale:  locale,
		Title:   meta.Title,
		Summary: meta.Summary,
		Body:    template.HTML(policy.SanitizeBytes(buf.Bytes())),
	}, nil
}

func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var meta frontMatter

	text := string(raw)
	if !strings.HasPrefix(text, "---\n") {
		return meta, raw, nil
	}

	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, nil, fmt.Errorf("unterminated front matter")
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return meta, nil, fmt.Errorf("front matter: %w", err)
	}

	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return meta, []byte(body), nil
}
