package extract

import (
	"bytes"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

// noiseSelectors are removed before the DOM fallback walks the document.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "header", "footer", "aside",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// blockSelectors are the elements whose text makes up the fallback body.
const blockSelectors = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, td"

// ContentExtractor turns a fetched page into a title and plain text.
// It tries readability-style article extraction first and falls back to a
// DOM heuristic when the page is too small or unusual for it.
type ContentExtractor struct{}

var _ ports.Extractor = (*ContentExtractor)(nil)

// New builds a ContentExtractor.
func New() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract returns the main text and title of the page. It fails with
// ExtractionError when the content type is not textual or no text remains
// after boilerplate stripping.
func (e *ContentExtractor) Extract(page *domain.Page) (domain.Extracted, error) {
	if page == nil || len(bytes.TrimSpace(page.Body)) == 0 {
		return domain.Extracted{}, &domain.ExtractionError{URL: pageURL(page), Reason: "empty body"}
	}

	kind, err := classifyContentType(page.ContentType)
	if err != nil {
		return domain.Extracted{}, &domain.ExtractionError{URL: page.URL, Reason: err.Error()}
	}

	if kind == contentPlain {
		text := normalizeText(string(page.Body))
		if text == "" {
			return domain.Extracted{}, &domain.ExtractionError{URL: page.URL, Reason: "no extractable text"}
		}
		return domain.Extracted{Text: text}, nil
	}

	if extracted, ok := e.extractArticle(page); ok {
		return extracted, nil
	}

	extracted, ok := e.extractDOM(page)
	if !ok {
		return domain.Extracted{}, &domain.ExtractionError{URL: page.URL, Reason: "no extractable text"}
	}
	return extracted, nil
}

// extractArticle runs readability-style main-content extraction.
func (e *ContentExtractor) extractArticle(page *domain.Page) (domain.Extracted, bool) {
	parsedURL, err := url.Parse(page.URL)
	if err != nil {
		return domain.Extracted{}, false
	}

	article, err := readability.FromReader(bytes.NewReader(page.Body), parsedURL)
	if err != nil {
		return domain.Extracted{}, false
	}

	text := normalizeText(article.TextContent)
	if text == "" {
		return domain.Extracted{}, false
	}

	return domain.Extracted{
		Title: strings.TrimSpace(article.Title),
		Text:  text,
	}, true
}

// extractDOM is the goquery fallback: drop noise elements, pick the most
// specific content container, and join block-level text in DOM order.
func (e *ContentExtractor) extractDOM(page *domain.Page) (domain.Extracted, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return domain.Extracted{}, false
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, exists := doc.Find(`meta[property="og:title"]`).First().Attr("content"); exists {
			title = strings.TrimSpace(og)
		}
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var container *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			container = sel.First()
			break
		}
	}
	if container == nil {
		return domain.Extracted{}, false
	}

	var parts []string
	container.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		// Skip elements that merely wrap other blocks already visited.
		if s.Find(blockSelectors).Length() > 0 {
			return
		}
		if text := collapseSpaces(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, "\n")
	if text == "" {
		text = normalizeText(container.Text())
	}
	if text == "" {
		return domain.Extracted{}, false
	}

	return domain.Extracted{Title: title, Text: text}, true
}

type contentKind int

const (
	contentHTML contentKind = iota
	contentPlain
)

func classifyContentType(header string) (contentKind, error) {
	if strings.TrimSpace(header) == "" {
		return contentHTML, nil
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return contentHTML, fmt.Errorf("unparsable content type %q", header)
	}

	switch {
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return contentHTML, nil
	case mediaType == "text/plain":
		return contentPlain, nil
	default:
		return contentHTML, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

// normalizeText collapses whitespace runs within lines and drops empty
// lines, preserving paragraph boundaries.
func normalizeText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if collapsed := collapseSpaces(line); collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pageURL(page *domain.Page) string {
	if page == nil {
		return ""
	}
	return page.URL
}
