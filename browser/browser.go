package browser

import "time"

// Element is a handle to a single DOM element. Implementations must tolerate
// detached elements: reads return an error instead of panicking, and callers
// treat any error as "attribute absent" or "not interactable".
type Element interface {
	GetAttribute(name string) (string, error)
	TagName() (string, error)
	InnerText() (string, error)
	InputValue() (string, error)
	IsVisible() (bool, error)
	IsChecked() (bool, error)
	Fill(value string) error
	Click() error
	Check() error
	SelectOption(value string) error
	SetInputFiles(path string) error
	// Evaluate runs a single-argument JS function against the element and
	// returns its result coerced to a string (empty string for undefined).
	Evaluate(expression string) (string, error)
}

// Page is one browser tab. All operations are blocking.
type Page interface {
	Goto(url string, timeout time.Duration) error
	Query(selector string) ([]Element, error)
	Content() (string, error)
	Title() (string, error)
	URL() string
	WaitForTimeout(d time.Duration)
	Screenshot(path string) error
	Close() error
}

// Session owns one browser process/context. It is never shared between runs
// and must be closed on every exit path.
type Session interface {
	NewPage() (Page, error)
	Close() error
}

// LaunchOptions control how a session is started.
type LaunchOptions struct {
	Headless bool
}

// LaunchFunc starts a new exclusive browser session. The production
// implementation is playwright-backed; tests substitute fakes.
type LaunchFunc func(opts LaunchOptions) (Session, error)
