package services

import (
	"log"
	"strings"

	"autoapply/browser"
)

const (
	buttonSelector = "button, input[type='submit'], input[type='button'], [role='button']"
	anchorSelector = "a"
)

// Keyword tiers, in strict priority order. A page offering both "Submit" and
// "Save draft" must commit, not draft; a page offering only "Next" must
// advance rather than stall.
var (
	submitKeywords   = []string{"submit", "apply now", "apply", "send application", "complete application"}
	continueKeywords = []string{"continue", "next", "proceed", "next step"}
)

// ButtonResolverService finds and activates the best submit or continue
// control on the current page.
type ButtonResolverService struct{}

func NewButtonResolverService() *ButtonResolverService {
	return &ButtonResolverService{}
}

// ResolveAndClick scans button-like controls in document order, submit tier
// first, continue tier second, then falls back to anchors. Returning false
// means nothing on the page advances the flow and signals the step controller
// to stop.
func (s *ButtonResolverService) ResolveAndClick(page browser.Page, result *SubmissionResult) bool {
	buttons, err := page.Query(buttonSelector)
	if err != nil {
		log.Printf("Failed to list buttons: %v", err)
		buttons = nil
	}

	if s.clickFirstMatch(buttons, submitKeywords, "button", result) {
		return true
	}
	if s.clickFirstMatch(buttons, continueKeywords, "button", result) {
		return true
	}

	anchors, err := page.Query(anchorSelector)
	if err != nil {
		log.Printf("Failed to list anchors: %v", err)
		anchors = nil
	}
	if s.clickFirstMatch(anchors, submitKeywords, "link", result) {
		return true
	}
	if s.clickFirstMatch(anchors, continueKeywords, "link", result) {
		return true
	}

	result.appendNote(NoteNoButton, "no submit button found")
	return false
}

func (s *ButtonResolverService) clickFirstMatch(candidates []browser.Element, keywords []string, kind string, result *SubmissionResult) bool {
	for _, candidate := range candidates {
		if !IsVisible(candidate) {
			continue
		}
		text := s.combinedText(candidate)
		if text == "" || !matchesAny(text, keywords) {
			continue
		}
		if err := candidate.Click(); err != nil {
			result.appendNote(NoteButtonError, "error clicking %s '%s'", kind, truncate(strings.TrimSpace(text), 50))
			continue
		}
		result.appendNote(NoteButtonClicked, "clicked %s: '%s'", kind, truncate(strings.TrimSpace(text), 50))
		return true
	}
	return false
}

// combinedText folds the control's visible text, value, and aria-label into
// one matchable string.
func (s *ButtonResolverService) combinedText(el browser.Element) string {
	text, err := el.InnerText()
	if err != nil {
		text = ""
	}
	value, err := el.GetAttribute("value")
	if err != nil {
		value = ""
	}
	ariaLabel, err := el.GetAttribute("aria-label")
	if err != nil {
		ariaLabel = ""
	}
	return strings.TrimSpace(strings.Join([]string{text, value, ariaLabel}, " "))
}

func matchesAny(text string, keywords []string) bool {
	low := fold(text)
	for _, kw := range keywords {
		if containsKeyword(low, kw) {
			return true
		}
	}
	return false
}
