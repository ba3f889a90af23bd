package services

import (
	"log"
	"strings"

	"autoapply/browser"
)

const checkboxSelector = "input[type='checkbox']"

// consentKeywords match label text of checkboxes that must be ticked for a
// submission to go through: agreements, privacy notices, voluntary
// disclosures.
var consentKeywords = []string{
	"agree", "agreement", "consent", "accept",
	"privacy", "terms", "policy", "gdpr",
	"acknowledge", "authorize", "certify",
	"equal opportunity", "self-identification", "self identification",
}

// ConsentHandlerService ticks consent checkboxes. It never unchecks a box,
// and a checkbox whose label cannot be resolved is left untouched: ambiguity
// favors inaction over wrongly opting into something unknown.
type ConsentHandlerService struct{}

func NewConsentHandlerService() *ConsentHandlerService {
	return &ConsentHandlerService{}
}

// Accept scans visible checkboxes and checks every unchecked one whose label
// matches the consent vocabulary.
func (s *ConsentHandlerService) Accept(page browser.Page, result *SubmissionResult) {
	boxes, err := page.Query(checkboxSelector)
	if err != nil {
		log.Printf("Failed to list checkboxes: %v", err)
		return
	}

	for _, box := range boxes {
		if !IsVisible(box) {
			continue
		}
		label := s.resolveLabel(page, box)
		if label == "" || !s.isConsentLabel(label) {
			continue
		}
		if checked, err := box.IsChecked(); err != nil || checked {
			continue
		}
		switch s.check(box) {
		case ActionOK:
			result.appendNote(NoteConsentChecked, "checked consent box: '%s'", truncate(label, 60))
		case ActionFailed:
			result.appendNote(NoteConsentError, "error checking consent box: '%s'", truncate(label, 60))
		}
	}
}

// resolveLabel prefers the explicit label[for] association and falls back to
// the nearest ancestor's text.
func (s *ConsentHandlerService) resolveLabel(page browser.Page, box browser.Element) string {
	id, err := box.GetAttribute("id")
	if err == nil && id != "" {
		if text := labelForText(page, id); text != "" {
			return text
		}
	}
	text, err := box.Evaluate(ancestorLabelJS)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (s *ConsentHandlerService) isConsentLabel(label string) bool {
	low := fold(label)
	for _, kw := range consentKeywords {
		if containsKeyword(low, kw) {
			return true
		}
	}
	return false
}

func (s *ConsentHandlerService) check(box browser.Element) ActionOutcome {
	if err := box.Check(); err != nil {
		log.Printf("Failed to check consent box: %v", err)
		return ActionFailed
	}
	return ActionOK
}
