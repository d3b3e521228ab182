// Package extract turns raw resume documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"github.com/muhammadolammi/resumind/internal/apperrors"
	"github.com/muhammadolammi/resumind/internal/metrics"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

var allowedExts = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".txt":  FormatText,
}

// RawDocument is an uploaded file's bytes with its declared format.
type RawDocument struct {
	Content []byte
	Format  Format
}

// FormatFromFilename maps an accepted extension to its Format.
// Anything outside .pdf, .docx and .txt is an UNSUPPORTED_FORMAT error.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := allowedExts[ext]; ok {
		return f, nil
	}
	return "", apperrors.NewUnsupportedFormatError(name)
}

// Extract returns the document text. Parser failures come back as a PARSE_ERROR
// with empty text so callers can keep going.
func Extract(raw RawDocument) (text string, err error) {
	if len(raw.Content) == 0 {
		return "", nil
	}

	start := time.Now()
	defer func() {
		metrics.ExtractionDuration.WithLabelValues(string(raw.Format)).Observe(time.Since(start).Seconds())
	}()

	switch raw.Format {
	case FormatPDF:
		return guard(raw.Format, func() (string, error) { return extractPDFText(raw.Content) })
	case FormatDOCX:
		return guard(raw.Format, func() (string, error) { return extractDocxText(raw.Content) })
	default:
		return decodeText(raw.Content), nil
	}
}

// guard recovers parser panics; ledongthuc/pdf panics on some malformed xref tables.
func guard(format Format, fn func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = apperrors.NewParseError(string(format), fmt.Errorf("parser panic: %v", r))
		}
	}()
	text, err = fn()
	if err != nil {
		return "", apperrors.NewParseError(string(format), err)
	}
	return text, nil
}

func decodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func extractPDFText(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	pages := make([]string, 0, pdfReader.NumPage())
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer doc.Close()

	var lines []string
	for _, para := range doc.Paragraphs() {
		lines = append(lines, paragraphLines(para.X())...)
	}
	return strings.Join(lines, "\n"), nil
}

// paragraphLines returns the paragraph's own text followed by the paragraphs of
// any text boxes anchored in it. A w:br inside a run starts a new line.
func paragraphLines(p *wml.CT_P) []string {
	var (
		text  strings.Builder
		boxes []string
	)
	for _, pc := range p.EG_PContent {
		for _, rc := range pc.EG_ContentRunContent {
			if rc.R == nil {
				continue
			}
			for _, ic := range rc.R.EG_RunInnerContent {
				switch {
				case ic.T != nil:
					text.WriteString(ic.T.Content)
				case ic.Tab != nil:
					text.WriteByte('\t')
				case ic.Br != nil, ic.Cr != nil:
					text.WriteByte('\n')
				case ic.Drawing != nil:
					boxes = append(boxes, drawingLines(ic.Drawing)...)
				}
			}
		}
	}
	return append([]string{text.String()}, boxes...)
}

func drawingLines(d *wml.CT_Drawing) []string {
	var lines []string
	for _, a := range d.Anchor {
		if a.Graphic != nil && a.Graphic.GraphicData != nil {
			lines = append(lines, graphicLines(a.Graphic.GraphicData.Any)...)
		}
	}
	for _, in := range d.Inline {
		if in.Graphic != nil && in.Graphic.GraphicData != nil {
			lines = append(lines, graphicLines(in.Graphic.GraphicData.Any)...)
		}
	}
	return lines
}

func graphicLines(items []unioffice.Any) []string {
	var lines []string
	for _, item := range items {
		wsp, ok := item.(*wml.WdWsp)
		if !ok || wsp.WChoice == nil || wsp.WChoice.Txbx == nil || wsp.WChoice.Txbx.TxbxContent == nil {
			continue
		}
		for _, cbc := range wsp.WChoice.Txbx.TxbxContent.EG_ContentBlockContent {
			for _, p := range cbc.P {
				lines = append(lines, paragraphLines(p)...)
			}
		}
	}
	return lines
}
