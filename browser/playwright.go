package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// playwrightSession wraps one Chromium process. Closing it tears down the
// browser and the playwright driver.
type playwrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

type playwrightPage struct {
	page playwright.Page
}

type playwrightElement struct {
	loc playwright.Locator
}

// LaunchPlaywright starts a Chromium session with basic fingerprint
// softening. It satisfies LaunchFunc.
func LaunchPlaywright(opts LaunchOptions) (Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
			"--disable-plugins-discovery",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &playwrightSession{pw: pw, browser: browser}, nil
}

func (s *playwrightSession) NewPage() (Page, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser page: %w", err)
	}
	if err := page.SetExtraHTTPHeaders(map[string]string{"User-Agent": userAgent}); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to set request headers: %w", err)
	}
	return &playwrightPage{page: page}, nil
}

func (s *playwrightSession) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.pw != nil {
		if stopErr := s.pw.Stop(); err == nil {
			err = stopErr
		}
	}
	return err
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) Query(selector string) ([]Element, error) {
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(locators))
	for _, loc := range locators {
		elements = append(elements, &playwrightElement{loc: loc})
	}
	return elements, nil
}

func (p *playwrightPage) Content() (string, error) { return p.page.Content() }
func (p *playwrightPage) Title() (string, error)   { return p.page.Title() }
func (p *playwrightPage) URL() string              { return p.page.URL() }

func (p *playwrightPage) WaitForTimeout(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *playwrightPage) Close() error { return p.page.Close() }

func (e *playwrightElement) GetAttribute(name string) (string, error) {
	return e.loc.GetAttribute(name)
}

func (e *playwrightElement) TagName() (string, error) {
	return e.Evaluate("el => el.tagName.toLowerCase()")
}

func (e *playwrightElement) InnerText() (string, error)    { return e.loc.InnerText() }
func (e *playwrightElement) InputValue() (string, error)   { return e.loc.InputValue() }
func (e *playwrightElement) IsVisible() (bool, error)      { return e.loc.IsVisible() }
func (e *playwrightElement) IsChecked() (bool, error)      { return e.loc.IsChecked() }
func (e *playwrightElement) Fill(value string) error       { return e.loc.Fill(value) }
func (e *playwrightElement) Click() error                  { return e.loc.Click() }
func (e *playwrightElement) Check() error                  { return e.loc.Check() }
func (e *playwrightElement) SetInputFiles(path string) error {
	return e.loc.SetInputFiles(path)
}

func (e *playwrightElement) SelectOption(value string) error {
	selected, err := e.loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
	if err == nil && len(selected) > 0 {
		return nil
	}
	// Fall back to matching by visible option text.
	selected, err = e.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{value}})
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no option matched %q", value)
	}
	return nil
}

func (e *playwrightElement) Evaluate(expression string) (string, error) {
	result, err := e.loc.Evaluate(expression, nil)
	if err != nil {
		return "", err
	}
	if s, ok := result.(string); ok {
		return s, nil
	}
	return "", nil
}
