package services

import (
	"log"
	"path/filepath"

	"autoapply/browser"
)

const (
	fileInputSelector     = "input[type='file']"
	uploadTriggerSelector = "button, a, label, [role='button']"
)

// uploadTriggerKeywords name clickable controls that reveal a hidden file
// input behind custom upload UI.
var uploadTriggerKeywords = []string{
	"upload", "attach", "browse", "choose file", "add resume", "add file",
}

// ResumeUploaderService attaches the resume to the first file input that
// accepts it, revealing hidden inputs when an ATS hides the native control.
type ResumeUploaderService struct{}

func NewResumeUploaderService() *ResumeUploaderService {
	return &ResumeUploaderService{}
}

// Upload is a no-op once the resume flag is set. Exhausting every candidate
// leaves the flag false; that is not an error.
func (s *ResumeUploaderService) Upload(page browser.Page, resumePath string, result *SubmissionResult) {
	if result.FieldsFilled[RoleResume] {
		return
	}

	if s.tryFileInputs(page, resumePath, result) {
		return
	}

	// Some ATS render only a styled trigger; click it to reveal the real
	// input, then retry once.
	if !s.clickUploadTrigger(page, result) {
		return
	}
	page.WaitForTimeout(revealSettle)
	s.tryFileInputs(page, resumePath, result)
}

func (s *ResumeUploaderService) tryFileInputs(page browser.Page, resumePath string, result *SubmissionResult) bool {
	inputs, err := page.Query(fileInputSelector)
	if err != nil {
		log.Printf("Failed to list file inputs: %v", err)
		return false
	}

	for _, input := range inputs {
		switch s.attach(input, resumePath) {
		case ActionOK:
			result.markFilled(RoleResume)
			result.appendNote(NoteResumeUploaded, "uploaded resume: %s", filepath.Base(resumePath))
			return true
		case ActionFailed:
			result.appendNote(NoteUploadError, "error uploading to file input")
		}
	}
	return false
}

// attach force-reveals the input first; many ATS keep the native control at
// display:none behind custom UI.
func (s *ResumeUploaderService) attach(input browser.Element, resumePath string) ActionOutcome {
	if _, err := input.Evaluate(forceVisibleJS); err != nil {
		log.Printf("Could not force file input visible: %v", err)
	}
	if err := input.SetInputFiles(resumePath); err != nil {
		log.Printf("Failed to attach resume: %v", err)
		return ActionFailed
	}
	return ActionOK
}

func (s *ResumeUploaderService) clickUploadTrigger(page browser.Page, result *SubmissionResult) bool {
	triggers, err := page.Query(uploadTriggerSelector)
	if err != nil {
		return false
	}

	for _, trigger := range triggers {
		if !IsVisible(trigger) {
			continue
		}
		text, err := trigger.InnerText()
		if err != nil {
			continue
		}
		low := fold(text)
		for _, kw := range uploadTriggerKeywords {
			if low == "" || !containsKeyword(low, kw) {
				continue
			}
			if err := trigger.Click(); err != nil {
				log.Printf("Failed to click upload trigger %q: %v", text, err)
				break
			}
			result.appendNote(NoteUploadRevealed, "clicked upload trigger: '%s'", truncate(text, 50))
			return true
		}
	}
	return false
}
