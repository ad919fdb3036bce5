package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
)

// Download file names.
const (
	PDFFileName  = "LearnBharat_AI_Notes.pdf"
	XLSXFileName = "LearnBharat_AI_Notes.xlsx"
)

// Content types.
const (
	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	pdfFontFamily = "Arial"
	pdfFontSize   = 12
	pdfLineHeight = 8
	pdfMargin     = 15
	pdfTabWidth   = 4
)

// Document is a study plan ready for export.
type Document struct {
	Title   string
	Content string
	Focus   studyplan.FocusSet
}

// Score returns the readiness score of the document's focus selection.
func (d Document) Score() int {
	return studyplan.Score(d.Focus)
}

// ReadinessLine is the annotation placed under the title.
func (d Document) ReadinessLine() string {
	score := d.Score()
	return fmt.Sprintf("Exam Readiness Score: %d%% (%s)", score, studyplan.TierFor(score))
}

func (d Document) text() string {
	var b strings.Builder
	if d.Title != "" {
		b.WriteString(d.Title)
		b.WriteString("\n")
	}
	b.WriteString(d.ReadinessLine())
	b.WriteString("\n\n")
	b.WriteString(d.Content)
	return b.String()
}

// PDFExporter writes A4 PDFs in a core font.
type PDFExporter struct {
	Creator string
}

// NewPDFExporter creates an exporter that stamps creator into the document
// metadata.
func NewPDFExporter(creator string) *PDFExporter {
	return &PDFExporter{Creator: creator}
}

// Export renders text one paragraph per line. Text is sanitized first, so
// characters the font cannot draw never cause a failure.
func (e *PDFExporter) Export(text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pdfMargin)
	if e.Creator != "" {
		pdf.SetCreator(e.Creator, false)
	}
	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)

	tab := strings.Repeat(" ", pdfTabWidth)
	for _, line := range strings.Split(encode(text), "\n") {
		pdf.MultiCell(0, pdfLineHeight, strings.ReplaceAll(line, "\t", tab), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportDocument renders the title and readiness line above the content.
func (e *PDFExporter) ExportDocument(doc Document) ([]byte, error) {
	return e.Export(doc.text())
}
