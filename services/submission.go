package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"autoapply/browser"
)

// Status is the terminal outcome of one submission run.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
	StatusError     Status = "error"
)

// ActionOutcome is the tri-state result of one element-level action. The
// orchestrating component decides whether to keep iterating; nothing below it
// escalates.
type ActionOutcome int

const (
	ActionOK ActionOutcome = iota
	ActionSkipped
	ActionFailed
)

const (
	defaultNavTimeout = 30 * time.Second
	defaultMaxSteps   = 5
	// settleDelay is the fixed wait after a click for asynchronous page
	// updates to render before inspection.
	settleDelay  = 2 * time.Second
	revealSettle = 500 * time.Millisecond
)

// RunOptions bound one submission run.
type RunOptions struct {
	Headless   bool
	NavTimeout time.Duration
	MaxSteps   int
}

func (o RunOptions) withDefaults() RunOptions {
	if o.NavTimeout <= 0 {
		o.NavTimeout = defaultNavTimeout
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = defaultMaxSteps
	}
	return o
}

// SubmissionRequest is the immutable input of one run. An absent or empty
// field value means "do not attempt to fill".
type SubmissionRequest struct {
	JobURL     string
	ResumePath string
	Fields     map[Role]string
	Options    RunOptions
	// RunID labels artifacts produced by this run (screenshot keys, record
	// rows). Optional; assigned by the calling layer.
	RunID string
}

// SubmissionResult is the sole output of a run, built incrementally in place.
// Ownership is exclusive to the invoking call stack.
type SubmissionResult struct {
	JobURL        string        `json:"job_url"`
	Status        Status        `json:"status"`
	SubmittedAt   *time.Time    `json:"submitted_at"`
	Notes         []Note        `json:"notes"`
	FieldsFilled  map[Role]bool `json:"fields_filled"`
	ScreenshotKey string        `json:"confirmation_screenshot_key,omitempty"`
}

// NewSubmissionResult starts a result in the failed state with every role,
// resume included, unfilled.
func NewSubmissionResult(jobURL string) *SubmissionResult {
	filled := make(map[Role]bool, len(allRoles))
	for _, role := range allRoles {
		filled[role] = false
	}
	return &SubmissionResult{
		JobURL:       jobURL,
		Status:       StatusFailed,
		Notes:        []Note{},
		FieldsFilled: filled,
	}
}

// appendNote records one audit entry. The notes list only ever grows.
func (r *SubmissionResult) appendNote(event NoteEvent, format string, args ...interface{}) {
	r.Notes = append(r.Notes, Note{Event: event, Detail: fmt.Sprintf(format, args...)})
}

// markFilled flips a role flag from false to true; flags never flip back.
func (r *SubmissionResult) markFilled(role Role) {
	r.FieldsFilled[role] = true
}

// markSubmitted transitions the run to its only success state.
func (r *SubmissionResult) markSubmitted() {
	now := time.Now().UTC()
	r.Status = StatusSubmitted
	r.SubmittedAt = &now
}

// Submitter drives one job-application submission per Submit call. Each run
// gets its own exclusive browser session; no state survives between runs.
type Submitter struct {
	launch   browser.LaunchFunc
	filler   *FormFillerService
	uploader *ResumeUploaderService
	consent  *ConsentHandlerService
	buttons  *ButtonResolverService
	detector *SuccessDetectorService

	// Screenshots, when set, captures a confirmation screenshot on
	// successful runs.
	Screenshots *ScreenshotService
}

// NewSubmitter wires the default component chain over the given launcher.
func NewSubmitter(launch browser.LaunchFunc) *Submitter {
	classifier := NewFieldClassifier()
	return &Submitter{
		launch:   launch,
		filler:   NewFormFillerService(classifier),
		uploader: NewResumeUploaderService(),
		consent:  NewConsentHandlerService(),
		buttons:  NewButtonResolverService(),
		detector: NewSuccessDetectorService(),
	}
}

// Submit runs the full state machine: Navigating, then up to MaxSteps of
// fill / upload / consent / advance, terminating on submitted, stalled,
// exhausted, or errored. It never returns nil.
func (s *Submitter) Submit(req *SubmissionRequest) (result *SubmissionResult) {
	result = NewSubmissionResult(req.JobURL)

	info, err := os.Stat(req.ResumePath)
	if err != nil || info.IsDir() {
		result.appendNote(NoteResumeMissing, "resume file not found at %s", req.ResumePath)
		return result
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Status = StatusError
			result.appendNote(NoteRunError, "unexpected error: %s", truncate(fmt.Sprint(rec), 100))
		}
	}()

	opts := req.Options.withDefaults()

	session, err := s.launch(browser.LaunchOptions{Headless: opts.Headless})
	if err != nil {
		result.Status = StatusError
		result.appendNote(NoteRunError, "unexpected error: %s", truncate(err.Error(), 100))
		return result
	}
	defer session.Close()

	page, err := session.NewPage()
	if err != nil {
		result.Status = StatusError
		result.appendNote(NoteRunError, "unexpected error: %s", truncate(err.Error(), 100))
		return result
	}

	result.appendNote(NoteNavigating, "navigating to %s", req.JobURL)
	if err := page.Goto(req.JobURL, opts.NavTimeout); err != nil {
		// The page may have partially rendered enough to proceed.
		log.Printf("Navigation to %s failed: %v", req.JobURL, err)
		result.appendNote(NoteNavigationFailed, "failed to navigate: %s", truncate(err.Error(), 100))
	}

	s.runSteps(page, req, opts, result)

	if result.Status != StatusSubmitted {
		result.appendNote(NoteNotConfirmed, "could not confirm success")
	} else if s.Screenshots != nil {
		s.Screenshots.CaptureConfirmation(page, req.RunID, result)
	}
	return result
}

// runSteps is the Stepping(n) loop. Component order within a step is fixed.
func (s *Submitter) runSteps(page browser.Page, req *SubmissionRequest, opts RunOptions, result *SubmissionResult) {
	seen := make(map[string]bool)

	for step := 0; step < opts.MaxSteps; step++ {
		recordControls(page, seen)

		s.filler.Fill(page, req.Fields, result)
		s.uploader.Upload(page, req.ResumePath, result)
		s.consent.Accept(page, result)

		if !s.buttons.ResolveAndClick(page, result) {
			// Nothing changed on this page, so looping would not help.
			result.appendNote(NoteStepStalled, "no submit or continue control found on step %d; stopping", step+1)
			return
		}

		page.WaitForTimeout(settleDelay)

		if s.detector.Detect(page, result) {
			return
		}

		if !hasUnseenControls(page, seen) {
			result.appendNote(NoteStepsExhausted, "no new fields rendered after step %d; assuming the form is complete", step+1)
			return
		}
	}

	result.appendNote(NoteStepsExhausted, "reached the %d step limit without confirming submission", opts.MaxSteps)
}

// recordControls remembers every visible, actionable input on the page.
func recordControls(page browser.Page, seen map[string]bool) {
	for _, sig := range actionableSignatures(page) {
		seen[sig] = true
	}
}

// hasUnseenControls reports whether the page shows any actionable input that
// no earlier step inspected.
func hasUnseenControls(page browser.Page, seen map[string]bool) bool {
	for _, sig := range actionableSignatures(page) {
		if !seen[sig] {
			return true
		}
	}
	return false
}

func actionableSignatures(page browser.Page) []string {
	controls, err := page.Query(fillableSelector)
	if err != nil {
		return nil
	}
	sigs := make([]string, 0, len(controls))
	for _, ctl := range controls {
		inputType, err := ctl.GetAttribute("type")
		if err != nil {
			inputType = ""
		}
		switch fold(inputType) {
		case "hidden", "file":
			continue
		}
		if !IsVisible(ctl) {
			continue
		}
		tag, err := ctl.TagName()
		if err != nil {
			tag = ""
		}
		name, _ := ctl.GetAttribute("name")
		id, _ := ctl.GetAttribute("id")
		placeholder, _ := ctl.GetAttribute("placeholder")
		bag := AttributeBag{
			bagKeyTag:     fold(tag),
			"name":        name,
			"id":          id,
			"placeholder": placeholder,
		}
		sigs = append(sigs, bag.signature())
	}
	return sigs
}
