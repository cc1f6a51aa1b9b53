// Package pdftext pulls a bounded amount of plain text out of PDF bodies to
// feed the heuristic fallback. It is strictly best-effort: scanned or
// malformed documents simply yield no text.
package pdftext

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxPeekBytes = 4096

type Peeker struct{}

func New() *Peeker {
	return &Peeker{}
}

func (p *Peeker) Peek(data []byte, mimeType string) (text string) {
	if mimeType != "application/pdf" || len(data) == 0 {
		return ""
	}

	// The pdf package panics on some malformed inputs.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(plain, maxPeekBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
