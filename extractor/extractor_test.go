package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Brightwave | Customer Education Platform</title>
	<meta name="description" content="Brightwave helps teams launch customer education programs.">
	<meta property="og:title" content="Brightwave">
	<meta property="og:description" content="Customer education, done right.">
	<meta property="og:image" content="https://brightwave.example/og.png">
	<script type="application/ld+json">
	{"@type": "Organization", "name": "Brightwave", "description": "Customer education platform"}
	</script>
	<script type="application/ld+json">
	{not valid json at all}
	</script>
</head>
<body>
	<header><nav><a href="/">Home</a></nav></header>
	<main>
		<h1>Customer education that scales</h1>
		<section>
			<h2>Course Builder For Modern Teams</h2>
			<p>Build interactive courses in minutes. Our platform powers onboarding
			and training for growing companies across every industry.</p>
		</section>
		<article>
			<h2>Why Teams Pick Brightwave</h2>
			<time datetime="2024-03-01">March 2024</time>
			<p>The only platform with built-in certification workflows.</p>
		</article>
	</main>
	<footer><p>Made with care.</p></footer>
</body>
</html>`

func TestParseMetadata(t *testing.T) {
	content, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if content.Title != "Brightwave | Customer Education Platform" {
		t.Errorf("Unexpected title: %q", content.Title)
	}
	if content.MetaDescription != "Brightwave helps teams launch customer education programs." {
		t.Errorf("Unexpected meta description: %q", content.MetaDescription)
	}
	if content.OpenGraph.Title != "Brightwave" {
		t.Errorf("Unexpected og:title: %q", content.OpenGraph.Title)
	}
	if content.OpenGraph.Image != "https://brightwave.example/og.png" {
		t.Errorf("Unexpected og:image: %q", content.OpenGraph.Image)
	}
}

func TestParseSkipsMalformedSchemas(t *testing.T) {
	content, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(content.Schemas) != 1 {
		t.Fatalf("Expected 1 valid schema, got %d", len(content.Schemas))
	}
	org := content.SchemaOfType("Organization")
	if org == nil {
		t.Fatal("Expected an Organization schema")
	}
	if org["name"] != "Brightwave" {
		t.Errorf("Unexpected organization name: %v", org["name"])
	}
}

func TestParseStructureCounts(t *testing.T) {
	content, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if content.SemanticTags["article"] != 1 {
		t.Errorf("Expected 1 article tag, got %d", content.SemanticTags["article"])
	}
	if content.SemanticTags["section"] != 1 {
		t.Errorf("Expected 1 section tag, got %d", content.SemanticTags["section"])
	}
	if content.SemanticTags["main"] != 1 {
		t.Errorf("Expected 1 main tag, got %d", content.SemanticTags["main"])
	}

	if len(content.Headings["h1"]) != 1 {
		t.Errorf("Expected 1 h1, got %d", len(content.Headings["h1"]))
	}
	if len(content.Headings["h2"]) != 2 {
		t.Errorf("Expected 2 h2, got %d", len(content.Headings["h2"]))
	}
	if content.Headings["h1"][0] != "Customer education that scales" {
		t.Errorf("Unexpected h1 text: %q", content.Headings["h1"][0])
	}
}

func TestParseSignals(t *testing.T) {
	content, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !content.HasDates {
		t.Error("Expected dates to be detected via the time element")
	}
	if content.WordCount == 0 {
		t.Error("Expected a non-zero word count")
	}
	if strings.Contains(content.MainContent, "Home") {
		t.Error("Navigation text should be stripped from main content")
	}
	if content.Language != "English" {
		t.Errorf("Expected English, got %q", content.Language)
	}
}

func TestParseDeterministic(t *testing.T) {
	first, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := Parse("https://brightwave.example", []byte(samplePage))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Parsing the same bytes twice produced different results")
	}
}

func TestWordCountBeforeTruncation(t *testing.T) {
	html := "<html><body><main>" + strings.Repeat("a ", 5000) + "</main></body></html>"
	content, err := Parse("https://example.com", []byte(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if content.WordCount != 5000 {
		t.Errorf("Expected word count 5000, got %d", content.WordCount)
	}
	if n := len([]rune(content.MainContent)); n > mainContentLimit {
		t.Errorf("Main content exceeds limit: %d runes", n)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	content, err := Parse("https://example.com", []byte("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if content.WordCount != 0 {
		t.Errorf("Expected word count 0, got %d", content.WordCount)
	}
	if content.Title != "" {
		t.Errorf("Expected empty title, got %q", content.Title)
	}
	if content.HasDates {
		t.Error("Empty document should not report dates")
	}
}

func TestParseTitleFallsBackToOpenGraph(t *testing.T) {
	html := `<html><head><meta property="og:title" content="Fallback Name"></head><body></body></html>`
	content, err := Parse("https://example.com", []byte(html))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if content.Title != "Fallback Name" {
		t.Errorf("Expected og:title fallback, got %q", content.Title)
	}
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("Unexpected User-Agent: %q", got)
		}
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	content, err := New().Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if content.URL != server.URL {
		t.Errorf("Expected URL %q, got %q", server.URL, content.URL)
	}
	if content.Title == "" {
		t.Error("Expected a title from the fetched page")
	}
}

func TestExtractNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New().Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected an error for a 503 response")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected a FetchError, got %T", err)
	}
	if fetchErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", fetchErr.Status)
	}
}

func TestExtractUnreachableHost(t *testing.T) {
	_, err := New().Extract(context.Background(), "http://127.0.0.1:1/none")
	if err == nil {
		t.Fatal("Expected an error for an unreachable host")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected a FetchError, got %T", err)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 5); got != "héllo" {
		t.Errorf("truncateRunes cut mid-rune: %q", got)
	}
	if got := truncateRunes("short", 100); got != "short" {
		t.Errorf("truncateRunes changed a short string: %q", got)
	}
}
