package services

import (
	"errors"
	"os"
	"time"

	"autoapply/browser"
)

// fakeElement implements browser.Element in memory.
type fakeElement struct {
	tag        string
	attrs      map[string]string
	text       string
	value      string
	visible    bool
	checked    bool
	parentText string

	readErr   error
	fillErr   error
	clickErr  error
	checkErr  error
	selectErr error
	filesErr  error

	filledWith   string
	selectedWith string
	files        string
	clicks       int
	checkCalls   int
	onClick      func()
}

func (f *fakeElement) GetAttribute(name string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.attrs[name], nil
}

func (f *fakeElement) TagName() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	if f.tag == "" {
		return "input", nil
	}
	return f.tag, nil
}

func (f *fakeElement) InnerText() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.text, nil
}

func (f *fakeElement) InputValue() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.value, nil
}

func (f *fakeElement) IsVisible() (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.visible, nil
}

func (f *fakeElement) IsChecked() (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.checked, nil
}

func (f *fakeElement) Fill(value string) error {
	if f.fillErr != nil {
		return f.fillErr
	}
	f.filledWith = value
	f.value = value
	return nil
}

func (f *fakeElement) Click() error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	if f.onClick != nil {
		f.onClick()
	}
	return nil
}

func (f *fakeElement) Check() error {
	f.checkCalls++
	if f.checkErr != nil {
		return f.checkErr
	}
	f.checked = true
	return nil
}

func (f *fakeElement) SelectOption(value string) error {
	if f.selectErr != nil {
		return f.selectErr
	}
	f.selectedWith = value
	f.value = value
	return nil
}

func (f *fakeElement) SetInputFiles(path string) error {
	if f.filesErr != nil {
		return f.filesErr
	}
	f.files = path
	return nil
}

func (f *fakeElement) Evaluate(expression string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	switch expression {
	case parentTextJS, ancestorLabelJS:
		return f.parentText, nil
	case forceVisibleJS:
		f.visible = true
		return "", nil
	}
	return "", nil
}

// fakePage implements browser.Page over a selector table.
type fakePage struct {
	selectors map[string][]browser.Element
	queryFn   func(selector string) []browser.Element

	content string
	title   string
	url     string

	gotoErr  error
	gotoURLs []string
	waits    []time.Duration
	closed   bool

	screenshotErr error
}

func newFakePage() *fakePage {
	return &fakePage{
		selectors: make(map[string][]browser.Element),
		content:   "<html><body></body></html>",
	}
}

func (p *fakePage) Goto(url string, timeout time.Duration) error {
	p.gotoURLs = append(p.gotoURLs, url)
	return p.gotoErr
}

func (p *fakePage) Query(selector string) ([]browser.Element, error) {
	if p.queryFn != nil {
		return p.queryFn(selector), nil
	}
	return p.selectors[selector], nil
}

func (p *fakePage) Content() (string, error) { return p.content, nil }
func (p *fakePage) Title() (string, error)   { return p.title, nil }
func (p *fakePage) URL() string              { return p.url }

func (p *fakePage) WaitForTimeout(d time.Duration) {
	p.waits = append(p.waits, d)
}

func (p *fakePage) Screenshot(path string) error {
	if p.screenshotErr != nil {
		return p.screenshotErr
	}
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// fakeSession implements browser.Session.
type fakeSession struct {
	page       *fakePage
	closed     bool
	newPageErr error
}

func (s *fakeSession) NewPage() (browser.Page, error) {
	if s.newPageErr != nil {
		return nil, s.newPageErr
	}
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func launchFake(session *fakeSession, calls *int) browser.LaunchFunc {
	return func(opts browser.LaunchOptions) (browser.Session, error) {
		if calls != nil {
			*calls++
		}
		return session, nil
	}
}

var errBoom = errors.New("boom")

func newResult() *SubmissionResult {
	return NewSubmissionResult("https://jobs.example.com/123")
}

func noteEvents(result *SubmissionResult) []NoteEvent {
	events := make([]NoteEvent, 0, len(result.Notes))
	for _, note := range result.Notes {
		events = append(events, note.Event)
	}
	return events
}
