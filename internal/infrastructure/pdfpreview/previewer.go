// Package pdfpreview renders payslip documents to images.
package pdfpreview

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// DefaultDPI balances legibility and size for an on-screen preview
const DefaultDPI = 110.0

// Previewer implements port.DocumentPreviewer using mupdf
type Previewer struct {
	dpi    float64
	logger *zap.Logger
}

// NewPreviewer creates a previewer rendering at dpi (DefaultDPI when <= 0)
func NewPreviewer(dpi float64, logger *zap.Logger) *Previewer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Previewer{dpi: dpi, logger: logger}
}

// PageCount returns the number of pages in the document
func (p *Previewer) PageCount(data []byte) (int, error) {
	doc, err := open(data)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// PreviewPNG renders the first page as PNG
func (p *Previewer) PreviewPNG(data []byte) ([]byte, error) {
	doc, err := open(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	img, err := doc.ImageDPI(0, p.dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render first page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	p.logger.Debug("Rendered document preview",
		zap.Int("pages", doc.NumPage()),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

func open(data []byte) (*fitz.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	return doc, nil
}
