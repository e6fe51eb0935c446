package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

const (
	userAgent = "MCM-Analyzer/1.0 (Model Context Marketing Analyzer)"

	// mainContentLimit bounds the text forwarded to providers.
	mainContentLimit = 4000

	// rawHTMLLimit bounds the raw snippet kept for future analysis.
	rawHTMLLimit = 10000
)

// semanticTagNames is the fixed whitelist of structural tags counted
// per page.
var semanticTagNames = []string{"article", "section", "header", "footer", "nav", "aside", "main"}

var headingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// FetchError reports that the target URL could not be retrieved. It is
// fatal to the whole analysis request.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: HTTP %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that the response body could not be read as text.
// Malformed HTML itself never produces one; parsing is best-effort.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// languageDetector is built once per process; the builder preloads
// language models and is expensive to construct.
var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

func detectLanguage(text string) string {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.Spanish, lingua.French, lingua.German,
				lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Japanese,
				lingua.Chinese, lingua.Korean, lingua.Russian, lingua.Arabic,
			).
			Build()
	})

	if strings.TrimSpace(text) == "" {
		return ""
	}
	if lang, ok := languageDetector.DetectLanguageOf(text); ok {
		return lang.String()
	}
	return ""
}

// Extractor fetches a single page and produces its structured view.
type Extractor struct {
	client *http.Client
}

// New creates an Extractor with a tuned HTTP client. The timeout bounds
// the single page fetch; provider calls carry their own deadlines.
func New() *Extractor {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Extractor{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}

// Extract fetches the URL and builds an ExtractedContent. It returns a
// FetchError on network failure or non-2xx status and a ParseError if
// the body cannot be read.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: pageURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	return Parse(pageURL, body)
}

// Parse builds an ExtractedContent from already-fetched HTML. It is
// deterministic for a fixed input and never fails on malformed markup.
func Parse(pageURL string, html []byte) (*ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}

	content := &ExtractedContent{
		URL:          pageURL,
		SemanticTags: make(map[string]int, len(semanticTagNames)),
		Headings:     make(map[string][]string, len(headingLevels)),
	}

	// Title and meta, preferring explicit tags over Open Graph.
	content.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if content.Title == "" {
		content.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}
	content.MetaDescription, _ = doc.Find(`meta[name="description"]`).Attr("content")
	if content.MetaDescription == "" {
		content.MetaDescription, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	}

	content.OpenGraph.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	content.OpenGraph.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	content.OpenGraph.Image, _ = doc.Find(`meta[property="og:image"]`).Attr("content")

	// JSON-LD blocks. Blocks that fail strict parsing are skipped; a
	// bad block never contaminates the rest.
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var schema map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &schema); err == nil {
			content.Schemas = append(content.Schemas, schema)
		}
	})

	for _, tag := range semanticTagNames {
		content.SemanticTags[tag] = doc.Find(tag).Length()
	}

	for _, level := range headingLevels {
		var texts []string
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(s.Text()))
		})
		content.Headings[level] = texts
	}

	// Main content comes from a working copy with chrome removed so the
	// counts above still see the full document.
	working, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}
	working.Find("script, style, nav, footer, header").Remove()

	mainContent := collapseWhitespace(working.Find("main").Text())
	if mainContent == "" {
		mainContent = collapseWhitespace(working.Find("article").Text())
	}
	if mainContent == "" {
		mainContent = collapseWhitespace(working.Find("body").Text())
	}

	// Word count is taken before truncation so a long body is never
	// undercounted.
	content.WordCount = len(strings.Fields(mainContent))
	content.MainContent = truncateRunes(mainContent, mainContentLimit)
	content.RawHTML = truncateRunes(string(html), rawHTMLLimit)

	// Readability gives an independent set of metadata signals.
	var article readability.Article
	if parsedURL, uerr := url.Parse(pageURL); uerr == nil {
		parser := readability.NewParser()
		if a, perr := parser.Parse(bytes.NewReader(html), parsedURL); perr == nil {
			article = a
		}
	}

	lowerHTML := strings.ToLower(string(html))
	content.HasAuthor = doc.Find(`[rel="author"]`).Length() > 0 ||
		doc.Find(`[itemprop="author"]`).Length() > 0 ||
		doc.Find(".author").Length() > 0 ||
		content.HasSchemaField("author") ||
		article.Byline != "" ||
		strings.Contains(lowerHTML, "author")

	content.HasDates = doc.Find("time").Length() > 0 ||
		doc.Find("[datetime]").Length() > 0 ||
		content.HasSchemaField("datePublished") ||
		content.HasSchemaField("dateModified") ||
		article.PublishedTime != nil

	content.Language = detectLanguage(content.MainContent)
	content.BusinessInfo = extractBusinessInfo(doc, content, article)

	return content, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
