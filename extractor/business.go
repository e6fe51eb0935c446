package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	maxFeatures        = 8
	maxMarkets         = 5
	maxProducts        = 6
	maxDifferentiation = 5
)

// categoryRule maps an industry label to its keyword pattern. Rules are
// evaluated in order and the first match wins, so specific categories
// must precede broad ones (Learning Management System before SaaS,
// SaaS before Technology).
type categoryRule struct {
	label   string
	pattern *regexp.Regexp
}

var categoryRules = []categoryRule{
	{"Learning Management System", regexp.MustCompile(`(?i)\b(learning management system|lms|customer education|course platform|online learning platform|training platform)\b`)},
	{"E-commerce", regexp.MustCompile(`(?i)\b(shop|store|buy|cart|checkout|online store)\b`)},
	{"Healthcare", regexp.MustCompile(`(?i)\b(healthcare|medical|hospital|clinic|patient)\b`)},
	{"Finance", regexp.MustCompile(`(?i)\b(financial|banking|investment|insurance)\b`)},
	{"Education", regexp.MustCompile(`(?i)\b(education|learning|training|course|university)\b`)},
	{"Manufacturing", regexp.MustCompile(`(?i)\b(manufacturing|factory|production|industrial|machinery)\b`)},
	{"Consulting", regexp.MustCompile(`(?i)\b(consulting|advisory|professional services|strategy)\b`)},
	{"Marketing", regexp.MustCompile(`(?i)\b(marketing|advertising|agency|branding)\b`)},
	{"Real Estate", regexp.MustCompile(`(?i)\b(real estate|property|housing)\b`)},
	{"SaaS", regexp.MustCompile(`(?i)\b(saas|software as a service|cloud platform|web application)\b`)},
	{"Technology", regexp.MustCompile(`(?i)\b(technology|software|hardware|IT|tech)\b`)},
}

const (
	defaultCategory    = "Technology"
	defaultCompanyType = "Technology Company"
)

var companyTypeRules = []categoryRule{
	{"Software Company", regexp.MustCompile(`(?i)\b(platform|saas|software)\b`)},
	{"Manufacturer", regexp.MustCompile(`(?i)\b(manufacturer|factory|production)\b`)},
	{"Service Provider", regexp.MustCompile(`(?i)\b(agency|consulting|services)\b`)},
	{"Retailer", regexp.MustCompile(`(?i)\b(retailer|store|shop)\b`)},
	{"Marketplace", regexp.MustCompile(`(?i)\b(marketplace|platform)\b`)},
}

var marketRules = []categoryRule{
	{"Enterprise", regexp.MustCompile(`(?i)\b(enterprise|large business|corporation)\b`)},
	{"SMB", regexp.MustCompile(`(?i)\b(small business|smb|startup)\b`)},
	{"B2B", regexp.MustCompile(`(?i)\b(b2b|business to business)\b`)},
	{"B2C", regexp.MustCompile(`(?i)\b(b2c|consumer|retail customer)\b`)},
	{"Healthcare", regexp.MustCompile(`(?i)\b(healthcare|medical|hospital)\b`)},
	{"Education", regexp.MustCompile(`(?i)\b(education|school|university|student)\b`)},
	{"Finance", regexp.MustCompile(`(?i)\b(financial services|banking|fintech)\b`)},
	{"Manufacturing", regexp.MustCompile(`(?i)\b(manufacturing|industrial)\b`)},
	{"Government", regexp.MustCompile(`(?i)\b(government|public sector)\b`)},
	{"Non-profit", regexp.MustCompile(`(?i)\b(non-profit|nonprofit|ngo)\b`)},
}

var (
	featureHeadingRe = regexp.MustCompile(`(?i)feature|capability|benefit|what we (do|offer)|why choose`)
	productHeadingRe = regexp.MustCompile(`(?i)product|service|solution|offering`)
	uspHeadingRe     = regexp.MustCompile(`(?i)why (choose )?us|what makes .* different|our (difference|advantage)|why we're different`)
	startsUpperRe    = regexp.MustCompile(`^[A-Z]`)

	differentiationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(only|first|leading|fastest|best)\b[^.\n]*`),
		regexp.MustCompile(`(?i)\bunlike\b[^.\n]*`),
		regexp.MustCompile(`(?i)\bpatented\b[^.\n]*`),
		regexp.MustCompile(`(?i)\b\d+% (faster|better|more|less)\b[^.\n]*`),
	}
)

// boilerplatePhrases filters out navigation and footer chrome that
// list-item scans would otherwise pick up as features.
var boilerplatePhrases = []string{
	"cookie", "privacy", "terms of", "all rights reserved", "©",
	"sign in", "log in", "sign up", "subscribe", "skip to",
	"contact us", "menu",
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// hasHTMLArtifacts reports leftover markup fragments in scraped text.
func hasHTMLArtifacts(text string) bool {
	return strings.ContainsAny(text, "<>{}")
}

func extractBusinessInfo(doc *goquery.Document, content *ExtractedContent, article readability.Article) BusinessInfo {
	classifierText := content.MainContent
	for _, texts := range content.Headings {
		for _, t := range texts {
			classifierText += " " + t
		}
	}

	info := BusinessInfo{
		SiteName:        extractSiteName(doc, content, article),
		Description:     extractDescription(content, article),
		Category:        inferCategory(content, classifierText),
		CompanyType:     inferCompanyType(content, classifierText),
		Features:        extractFeatures(doc, content),
		Markets:         extractMarkets(content.MainContent),
		Products:        extractProducts(doc, content),
		Differentiation: extractDifferentiation(doc, content),
	}
	return info
}

func extractSiteName(doc *goquery.Document, content *ExtractedContent, article readability.Article) string {
	if org := content.SchemaOfType("Organization"); org != nil {
		if name, ok := org["name"].(string); ok && name != "" {
			return name
		}
	}
	if site := content.SchemaOfType("WebSite"); site != nil {
		if name, ok := site["name"].(string); ok && name != "" {
			return name
		}
	}
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok && name != "" {
		return name
	}
	if article.SiteName != "" {
		return article.SiteName
	}
	// Heuristic: "Acme Corp | Home" and "Acme Corp - Home" both reduce
	// to the first segment.
	name := strings.SplitN(content.Title, "|", 2)[0]
	name = strings.SplitN(name, "-", 2)[0]
	return strings.TrimSpace(name)
}

func extractDescription(content *ExtractedContent, article readability.Article) string {
	if content.MetaDescription != "" {
		return content.MetaDescription
	}
	if org := content.SchemaOfType("Organization"); org != nil {
		if desc, ok := org["description"].(string); ok && desc != "" {
			return desc
		}
	}
	return article.Excerpt
}

func inferCategory(content *ExtractedContent, classifierText string) string {
	if org := content.SchemaOfType("Organization"); org != nil {
		if industry, ok := org["industry"].(string); ok && industry != "" {
			return industry
		}
	}
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(classifierText) {
			return rule.label
		}
	}
	return defaultCategory
}

func inferCompanyType(content *ExtractedContent, classifierText string) string {
	if org := content.SchemaOfType("Organization"); org != nil {
		if t, ok := org["@type"].(string); ok && t != "" && t != "Organization" {
			return t
		}
	}
	for _, rule := range companyTypeRules {
		if rule.pattern.MatchString(classifierText) {
			return rule.label
		}
	}
	return defaultCompanyType
}

func extractFeatures(doc *goquery.Document, content *ExtractedContent) []string {
	var features []string

	doc.Find("ul li, ol li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) >= 15 && len(text) <= 120 && !isBoilerplate(text) {
			features = append(features, text)
		}
	})

	for _, level := range []string{"h2", "h3", "h4"} {
		for _, h := range content.Headings[level] {
			if len(h) >= 15 && len(h) <= 120 && startsUpperRe.MatchString(h) && !isBoilerplate(h) {
				features = append(features, h)
			}
		}
	}

	return capList(dedupe(features), maxFeatures)
}

func extractMarkets(mainContent string) []string {
	var markets []string
	for _, rule := range marketRules {
		if rule.pattern.MatchString(mainContent) {
			markets = append(markets, rule.label)
		}
	}
	return capList(markets, maxMarkets)
}

func extractProducts(doc *goquery.Document, content *ExtractedContent) []string {
	var products []string

	for _, s := range content.Schemas {
		if t, ok := s["@type"].(string); ok && t == "Product" {
			if name, ok := s["name"].(string); ok && name != "" {
				products = append(products, name)
			}
		}
	}

	for _, level := range []string{"h2", "h3"} {
		for _, h := range content.Headings[level] {
			if len(h) < 80 && productHeadingRe.MatchString(h) {
				products = append(products, h)
			}
		}
	}

	// Pricing tables usually name the actual offerings.
	doc.Find(`[class*="plan"], [class*="price"], [class*="package"]`).Each(func(_ int, s *goquery.Selection) {
		heading := strings.TrimSpace(s.Find("h2, h3, h4").First().Text())
		if heading != "" && len(heading) < 50 {
			products = append(products, heading)
		}
	})

	var nonEmpty []string
	for _, p := range dedupe(products) {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return capList(nonEmpty, maxProducts)
}

func extractDifferentiation(doc *goquery.Document, content *ExtractedContent) []string {
	var usps []string

	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		if !uspHeadingRe.MatchString(strings.TrimSpace(s.Text())) {
			return
		}
		s.Parent().Find("li, p").Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())
			if len(text) >= 15 && len(text) <= 100 && !hasHTMLArtifacts(text) {
				usps = append(usps, text)
			}
		})
	})

	for _, pattern := range differentiationPatterns {
		for _, match := range pattern.FindAllString(content.MainContent, -1) {
			match = strings.TrimSpace(match)
			if len(match) > 100 {
				match = match[:100]
			}
			if match != "" {
				usps = append(usps, match)
			}
		}
	}

	var clean []string
	for _, u := range dedupe(usps) {
		if u != "" && !hasHTMLArtifacts(u) {
			clean = append(clean, u)
		}
	}
	return capList(clean, maxDifferentiation)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func capList(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
