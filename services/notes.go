package services

import (
	"encoding/json"
	"unicode/utf8"
)

// NoteEvent tags one entry of the audit trail so tests and callers can assert
// on exact events instead of substring-matching free text.
type NoteEvent string

const (
	NoteNavigating       NoteEvent = "navigating"
	NoteNavigationFailed NoteEvent = "navigation_failed"
	NoteResumeMissing    NoteEvent = "resume_missing"
	NoteFieldFilled      NoteEvent = "field_filled"
	NoteFieldError       NoteEvent = "field_error"
	NoteResumeUploaded   NoteEvent = "resume_uploaded"
	NoteUploadError      NoteEvent = "upload_error"
	NoteUploadRevealed   NoteEvent = "upload_revealed"
	NoteConsentChecked   NoteEvent = "consent_checked"
	NoteConsentError     NoteEvent = "consent_error"
	NoteButtonClicked    NoteEvent = "button_clicked"
	NoteButtonError      NoteEvent = "button_error"
	NoteNoButton         NoteEvent = "no_button"
	NoteSuccessDetected  NoteEvent = "success_detected"
	NoteNotConfirmed     NoteEvent = "not_confirmed"
	NoteStepStalled      NoteEvent = "step_stalled"
	NoteStepsExhausted   NoteEvent = "steps_exhausted"
	NoteScreenshotSaved  NoteEvent = "screenshot_saved"
	NoteScreenshotError  NoteEvent = "screenshot_error"
	NoteRunError         NoteEvent = "run_error"
)

// Note is one append-only audit entry: a machine-checkable event plus the
// human-readable detail that is the wire/report representation.
type Note struct {
	Event  NoteEvent
	Detail string
}

func (n Note) String() string { return n.Detail }

// MarshalJSON keeps the notes array a flat list of human-readable strings.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Detail)
}

func (n *Note) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &n.Detail)
}

// truncate caps failure details so a single noisy engine error cannot bloat
// the audit trail. The cut lands on a rune boundary so serialized notes stay
// valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
