// Package extract turns claim documents into raw text and structured entities.
//
// OCR is out of scope: documents arrive already textual (.txt, .md) or as
// HTML exports (.html, .htm) from an upstream scanning service.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// minTextLength mirrors the upstream scanner contract: anything shorter is
// treated as a blank or unreadable document.
const minTextLength = 50

// readDocument loads a claim document and returns its visible text
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = visibleText(string(data))
		if err != nil {
			return "", fmt.Errorf("parse html: %w", err)
		}
	default:
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return "", fmt.Errorf("insufficient text (%d bytes): document may be blank or unreadable", len(text))
	}

	return text, nil
}
