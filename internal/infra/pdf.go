package infra

// pdf.go — printable handling-unit label sheets using go-pdf/fpdf.
// One A4 page holds up to 8 labels (2 columns × 4 rows); each label shows
// the HU code in large type plus the generation timestamp, sized for a
// standard 99×67mm adhesive sheet.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	labelCols   = 2
	labelRows   = 4
	labelWidth  = 99.0
	labelHeight = 67.0
)

// GenerateLabelSheetPDF writes a label sheet for the given HU codes and
// returns the absolute path of the generated file.
func GenerateLabelSheetPDF(codes []string, storagePath string) (string, error) {
	if len(codes) == 0 {
		return "", fmt.Errorf("pdf: no codes to print")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	now := time.Now()
	fileName := fmt.Sprintf("hu_labels_%s.pdf", now.Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(6, 6, 6)
	pdf.SetAutoPageBreak(false, 0)

	perPage := labelCols * labelRows
	for i, code := range codes {
		slot := i % perPage
		if slot == 0 {
			pdf.AddPage()
		}
		col := slot % labelCols
		row := slot / labelCols
		x := 6 + float64(col)*labelWidth
		y := 6 + float64(row)*(labelHeight+4)

		pdf.Rect(x, y, labelWidth, labelHeight, "D")

		pdf.SetXY(x, y+18)
		pdf.SetFont("Helvetica", "B", 28)
		pdf.CellFormat(labelWidth, 14, code, "", 1, "C", false, 0, "")

		pdf.SetXY(x, y+40)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelWidth, 5, now.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write label sheet: %w", err)
	}
	return filePath, nil
}
