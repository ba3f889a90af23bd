package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectByPageContent(t *testing.T) {
	page := newFakePage()
	page.content = "<html><body><h1>Thank you for your application!</h1></body></html>"
	page.title = "Submitted"

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))

	// Body text outranks the title signal.
	assert.Equal(t, StatusSubmitted, result.Status)
	assert.NotNil(t, result.SubmittedAt)
	assert.Contains(t, result.Notes[0].Detail, "page content")
}

func TestDetectByTitle(t *testing.T) {
	page := newFakePage()
	page.title = "Application Confirmation"

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))
	assert.Contains(t, result.Notes[0].Detail, "page title")
}

func TestDetectByURL(t *testing.T) {
	page := newFakePage()
	page.url = "https://jobs.example.com/apply/thank-you"

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))
	assert.Contains(t, result.Notes[0].Detail, "url")
}

func TestDetectByConfirmationIcon(t *testing.T) {
	page := newFakePage()
	page.content = `<html><body><i class="fa fa-check"></i></body></html>`

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))
	assert.Contains(t, result.Notes[0].Detail, "confirmation icon")
}

func TestDetectByIconAltText(t *testing.T) {
	page := newFakePage()
	page.content = `<html><body><img src="/done.svg" alt="success"></body></html>`

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))
}

func TestDetectNoSignalLeavesResultUntouched(t *testing.T) {
	page := newFakePage()
	page.content = "<html><body><h2>Review your application</h2></body></html>"
	page.title = "Step 2 of 3"
	page.url = "https://jobs.example.com/apply/step-2"

	result := newResult()
	assert.False(t, NewSuccessDetectorService().Detect(page, result))

	assert.Equal(t, StatusFailed, result.Status)
	assert.Nil(t, result.SubmittedAt)
	assert.Empty(t, result.Notes)
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	page := newFakePage()
	page.content = "<html><body>APPLICATION RECEIVED</body></html>"

	result := newResult()
	assert.True(t, NewSuccessDetectorService().Detect(page, result))
}
