package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/learnbharat/learnbharat-ai/internal/studyplan"
)

// Sheet names.
const (
	SheetMaterial  = "Study Material"
	SheetReadiness = "Readiness"
)

// XLSXExporter writes the study material and a readiness breakdown as a
// two-sheet workbook.
type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ExportDocument builds the workbook. The material sheet holds one line per
// row; the readiness sheet lists each category's weight and whether it was
// selected.
func (e *XLSXExporter) ExportDocument(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMaterial); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := writeMaterial(f, doc, bold); err != nil {
		return nil, err
	}
	if err := writeReadiness(f, doc, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMaterial(f *excelize.File, doc Document, bold int) error {
	row := 1
	set := func(v string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetCellStr(SheetMaterial, cell, v)
	}

	if doc.Title != "" {
		if err := set(cellText(doc.Title)); err != nil {
			return fmt.Errorf("writing title: %w", err)
		}
		if err := f.SetCellStyle(SheetMaterial, "A1", "A1", bold); err != nil {
			return fmt.Errorf("styling title: %w", err)
		}
	}
	if err := set(doc.ReadinessLine()); err != nil {
		return fmt.Errorf("writing readiness line: %w", err)
	}
	row++

	for _, line := range strings.Split(strings.ReplaceAll(doc.Content, "\r\n", "\n"), "\n") {
		if err := set(cellText(line)); err != nil {
			return fmt.Errorf("writing material row %d: %w", row, err)
		}
	}
	return f.SetColWidth(SheetMaterial, "A", "A", 120)
}

func writeReadiness(f *excelize.File, doc Document, bold int) error {
	if _, err := f.NewSheet(SheetReadiness); err != nil {
		return fmt.Errorf("creating readiness sheet: %w", err)
	}

	rows := [][]any{{"Category", "Weight", "Selected", "Points"}}
	for _, c := range studyplan.Categories {
		selected := doc.Focus.Has(c)
		points := 0
		if selected {
			points = studyplan.Weight(c)
		}
		rows = append(rows, []any{c.String(), studyplan.Weight(c), selected, points})
	}
	score := doc.Score()
	tier := studyplan.TierFor(score)
	rows = append(rows,
		[]any{"Total", nil, nil, score},
		[]any{"Tier", tier.String(), nil, nil},
		[]any{"Advice", tier.Advice(), nil, nil},
	)

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetReadiness, cell, &r); err != nil {
			return fmt.Errorf("writing readiness row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SheetReadiness, "A1", "D1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return f.SetColWidth(SheetReadiness, "A", "B", 22)
}

// cellText drops control characters that are not valid in sheet XML.
func cellText(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
