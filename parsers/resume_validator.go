package parsers

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"baliance.com/gooxml/document"
)

var pdfHeader = []byte("%PDF-")

// ValidateResume checks that the uploaded resume is a readable PDF or DOCX
// before a browser session is paid for. PDFs are checked by magic bytes;
// DOCX files must open as a Word document.
func ValidateResume(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return validatePDF(path)
	case ".docx":
		return validateDOCX(path)
	default:
		return fmt.Errorf("unsupported resume format %q: must be .pdf or .docx", filepath.Ext(path))
	}
}

func validatePDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open resume: %v", err)
	}
	defer f.Close()

	header := make([]byte, len(pdfHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("failed to read resume: %v", err)
	}
	if !bytes.Equal(header, pdfHeader) {
		return fmt.Errorf("file is not a valid PDF")
	}
	return nil
}

func validateDOCX(path string) error {
	if _, err := document.Open(path); err != nil {
		return fmt.Errorf("file is not a valid Word document: %v", err)
	}
	return nil
}
