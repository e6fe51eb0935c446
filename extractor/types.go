package extractor

// OpenGraph holds the page's Open Graph metadata, if any.
type OpenGraph struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// BusinessInfo is the inferred business profile of the analyzed site.
type BusinessInfo struct {
	SiteName        string   `json:"siteName"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Features        []string `json:"features"`
	Markets         []string `json:"markets"`
	Products        []string `json:"products"`
	Differentiation []string `json:"differentiation"`
	CompanyType     string   `json:"companyType"`
}

// ExtractedContent is the structured view of one fetched page. It is
// built once per analysis request and read concurrently by every
// provider; nothing mutates it after Extract returns.
type ExtractedContent struct {
	URL             string              `json:"url"`
	Title           string              `json:"title"`
	MetaDescription string              `json:"metaDescription"`
	OpenGraph       OpenGraph           `json:"openGraph"`
	Schemas         []map[string]any    `json:"schemas"`
	SemanticTags    map[string]int      `json:"semanticTags"`
	Headings        map[string][]string `json:"headings"`
	WordCount       int                 `json:"wordCount"`
	HasAuthor       bool                `json:"hasAuthor"`
	HasDates        bool                `json:"hasDates"`
	MainContent     string              `json:"mainContent"`
	RawHTML         string              `json:"-"`
	Language        string              `json:"language"`
	BusinessInfo    BusinessInfo        `json:"businessInfo"`
}

// TotalHeadings counts headings across all six levels.
func (c *ExtractedContent) TotalHeadings() int {
	total := 0
	for _, texts := range c.Headings {
		total += len(texts)
	}
	return total
}

// TotalSemanticTags sums the semantic tag occurrence counts.
func (c *ExtractedContent) TotalSemanticTags() int {
	total := 0
	for _, count := range c.SemanticTags {
		total += count
	}
	return total
}

// SchemaOfType returns the first structured-data block whose @type
// matches, or nil.
func (c *ExtractedContent) SchemaOfType(schemaType string) map[string]any {
	for _, s := range c.Schemas {
		if t, ok := s["@type"].(string); ok && t == schemaType {
			return s
		}
	}
	return nil
}

// HasSchemaField reports whether any structured-data block carries the
// given top-level field.
func (c *ExtractedContent) HasSchemaField(field string) bool {
	for _, s := range c.Schemas {
		if _, ok := s[field]; ok {
			return true
		}
	}
	return false
}
