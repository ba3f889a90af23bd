package services

import (
	"log"
	"strings"

	"autoapply/browser"
)

// fillableSelector covers every input-like control the filler inspects.
// Hidden-type and file-type inputs are filtered out per element.
const fillableSelector = "input, textarea, select"

// FormFillerService writes applicant values into the first unfilled control
// matching each role.
type FormFillerService struct {
	classifier *FieldClassifier
}

func NewFormFillerService(classifier *FieldClassifier) *FormFillerService {
	return &FormFillerService{classifier: classifier}
}

// Fill walks every visible, empty, input-like control once and fills the
// first role it classifies as. Roles are tried in fixed precedence; a role is
// skipped once filled, except name, which may span split first/last controls.
// A single control is never written twice in one invocation.
func (s *FormFillerService) Fill(page browser.Page, fields map[Role]string, result *SubmissionResult) {
	controls, err := page.Query(fillableSelector)
	if err != nil {
		result.appendNote(NoteFieldError, "error listing form fields: %s", truncate(err.Error(), 50))
		return
	}

	for _, ctl := range controls {
		bag := CollectAttributes(page, ctl)
		switch fold(bag["type"]) {
		case "hidden", "file":
			continue
		}
		if !IsVisible(ctl) {
			continue
		}
		// Idempotence against previous steps and partial fills.
		if value, err := ctl.InputValue(); err == nil && strings.TrimSpace(value) != "" {
			continue
		}

		for _, role := range fillOrder {
			if role != RoleName && result.FieldsFilled[role] {
				continue
			}
			value := fields[role]
			if value == "" {
				continue
			}
			if !s.classifier.Classify(bag, role) {
				continue
			}

			switch s.write(ctl, bag, value) {
			case ActionOK:
				result.markFilled(role)
				attr, keyword, _ := s.classifier.Explain(bag, role)
				result.appendNote(NoteFieldFilled, "filled %s: '%s' (matched %s ~ %q)", role, bag.Identifier(), attr, keyword)
			case ActionFailed:
				result.appendNote(NoteFieldError, "error filling %s '%s'", role, bag.Identifier())
			}
			// One write (or attempt) per control, then move on.
			break
		}
	}
}

// write performs the role-appropriate mutation and reports a tri-state
// outcome. Selection lists select by value or visible text; text controls are
// filled directly.
func (s *FormFillerService) write(ctl browser.Element, bag AttributeBag, value string) ActionOutcome {
	var err error
	if bag[bagKeyTag] == "select" {
		err = ctl.SelectOption(value)
	} else {
		err = ctl.Fill(value)
	}
	if err != nil {
		log.Printf("Failed to fill control '%s': %v", bag.Identifier(), err)
		return ActionFailed
	}
	return ActionOK
}
