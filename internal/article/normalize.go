// Package article prepares caller-supplied content for analysis.
package article

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Block elements get a trailing space so adjacent paragraphs do not run together.
const blockElements = "p, div, br, li, h1, h2, h3, h4, h5, h6, tr, td, th, article, section, blockquote"

var markupRe = regexp.MustCompile(`(?s)<(?:[a-zA-Z][a-zA-Z0-9]*\b[^>]*|/[a-zA-Z][a-zA-Z0-9]*\s*|!--.*?--)>`)

// Prepared is normalized article text plus what was done to it.
type Prepared struct {
	Text           string
	HTMLStripped   bool
	Enhanced       bool
	OriginalLength int
	EnhancedLength int
}

// LooksLikeHTML reports whether s contains markup tags.
func LooksLikeHTML(s string) bool {
	return markupRe.MatchString(s)
}

// StripHTML returns the visible text of an HTML fragment. Script, style and
// noscript elements are dropped.
func StripHTML(s string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	doc.Find(blockElements).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return collapseSpace(text), nil
}

// Normalize strips markup when present and collapses whitespace.
func Normalize(content string) (string, bool) {
	if LooksLikeHTML(content) {
		if text, err := StripHTML(content); err == nil {
			return text, true
		}
	}
	return collapseSpace(content), false
}

// Enhance prefixes short content with its title and source so the classifier
// has more context. Nothing changes when content is long enough or when there
// is no title or source to add.
func Enhance(content, title, source string, minChars int) (string, bool) {
	if utf8.RuneCountInString(content) >= minChars {
		return content, false
	}
	title = strings.TrimSpace(title)
	source = strings.TrimSpace(source)
	if title == "" && source == "" {
		return content, false
	}

	var parts []string
	if title != "" {
		parts = append(parts, strings.TrimRight(title, ".")+".")
	}
	if source != "" {
		parts = append(parts, fmt.Sprintf("This article appears to be from %s.", source))
	}
	if content != "" {
		parts = append(parts, content)
	}
	return strings.Join(parts, " "), true
}

// Prepare runs Normalize and, when enhanceBelow is positive, Enhance.
func Prepare(content, title, source string, enhanceBelow int) Prepared {
	text, stripped := Normalize(content)
	p := Prepared{Text: text, HTMLStripped: stripped}
	if enhanceBelow <= 0 {
		return p
	}
	enhanced, ok := Enhance(text, title, source, enhanceBelow)
	if ok {
		p.Enhanced = true
		p.OriginalLength = utf8.RuneCountInString(text)
		p.EnhancedLength = utf8.RuneCountInString(enhanced)
		p.Text = enhanced
	}
	return p
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
