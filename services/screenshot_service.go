package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"autoapply/browser"
)

// ScreenshotService captures a full-page confirmation screenshot after a
// successful run and pushes it to S3. Capture failures are warnings; they
// never fail the run.
type ScreenshotService struct {
	s3 *S3Service
}

func NewScreenshotService(s3 *S3Service) *ScreenshotService {
	return &ScreenshotService{s3: s3}
}

// CaptureConfirmation screenshots the current page and records the stored key
// on the result.
func (s *ScreenshotService) CaptureConfirmation(page browser.Page, runID string, result *SubmissionResult) {
	if s.s3 == nil {
		return
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("confirmation_%s_%d.png", runID, time.Now().Unix()))
	defer os.Remove(tempPath)

	if err := page.Screenshot(tempPath); err != nil {
		log.Printf("Failed to take confirmation screenshot: %v", err)
		result.appendNote(NoteScreenshotError, "error capturing confirmation screenshot")
		return
	}

	key := fmt.Sprintf("screenshots/confirmation_%s.png", runID)
	if _, err := s.s3.UploadFile(tempPath, key); err != nil {
		log.Printf("Failed to upload confirmation screenshot: %v", err)
		result.appendNote(NoteScreenshotError, "error storing confirmation screenshot")
		return
	}

	result.ScreenshotKey = key
	result.appendNote(NoteScreenshotSaved, "confirmation screenshot stored: %s", key)
}
