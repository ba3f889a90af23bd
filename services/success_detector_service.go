package services

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"autoapply/browser"
)

// Success phrase lists, most specific first. The body list is broader than
// the title list because page bodies carry boilerplate that titles do not.
var (
	contentSuccessPhrases = []string{
		"thank you for your application",
		"thank you for applying",
		"application submitted",
		"application received",
		"application complete",
		"we have received",
		"successfully submitted",
		"thank you",
	}
	titleSuccessPhrases = []string{
		"thank you", "submitted", "confirmation", "success", "complete", "received",
	}
	urlSuccessTokens = []string{
		"confirmation", "thank", "success", "submitted", "complete",
	}
	iconSuccessTokens = []string{"check", "success", "confirm"}
)

const iconSelector = "i, svg, img, [class*='icon']"

// SuccessDetectorService looks for completion signals after a step's click
// settles. Signals are checked in a fixed order and the first match wins:
// body text, title, URL, iconography.
type SuccessDetectorService struct{}

func NewSuccessDetectorService() *SuccessDetectorService {
	return &SuccessDetectorService{}
}

// Detect inspects the page for a success signal. On the first match it
// transitions the result to submitted, stamps the timestamp, and notes which
// signal fired. The "could not confirm" note is the step controller's to
// write, once, at run end.
func (s *SuccessDetectorService) Detect(page browser.Page, result *SubmissionResult) bool {
	doc := s.parseContent(page)

	if doc != nil {
		text := fold(doc.Text())
		for _, phrase := range contentSuccessPhrases {
			if containsKeyword(text, phrase) {
				s.confirm(result, "success confirmed by page content (%q)", phrase)
				return true
			}
		}
	}

	if title, err := page.Title(); err == nil {
		low := fold(title)
		for _, phrase := range titleSuccessPhrases {
			if containsKeyword(low, phrase) {
				s.confirm(result, "success confirmed by page title (%q)", phrase)
				return true
			}
		}
	}

	low := fold(page.URL())
	for _, token := range urlSuccessTokens {
		if containsKeyword(low, token) {
			s.confirm(result, "success confirmed by url (%q)", token)
			return true
		}
	}

	if doc != nil && s.hasSuccessIcon(doc) {
		s.confirm(result, "success confirmed by confirmation icon")
		return true
	}

	return false
}

func (s *SuccessDetectorService) confirm(result *SubmissionResult, format string, args ...interface{}) {
	result.markSubmitted()
	result.appendNote(NoteSuccessDetected, format, args...)
}

func (s *SuccessDetectorService) parseContent(page browser.Page) *goquery.Document {
	content, err := page.Content()
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}
	return doc
}

// hasSuccessIcon scans icon-like elements for success classes or alt text.
func (s *SuccessDetectorService) hasSuccessIcon(doc *goquery.Document) bool {
	found := false
	doc.Find(iconSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		class, _ := sel.Attr("class")
		alt, _ := sel.Attr("alt")
		low := fold(class + " " + alt)
		for _, token := range iconSuccessTokens {
			if containsKeyword(low, token) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
