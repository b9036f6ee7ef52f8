// Package export renders tabular page data as spreadsheets.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	minColumnWide = 12.0
)

// Spreadsheet implements port.Spreadsheet with excelize
type Spreadsheet struct {
	logger *zap.Logger
}

// NewSpreadsheet creates a new spreadsheet writer
func NewSpreadsheet(logger *zap.Logger) *Spreadsheet {
	return &Spreadsheet{logger: logger}
}

// Write renders header and rows into a single-sheet workbook. The header row
// is bold and frozen.
func (s *Spreadsheet) Write(sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet)
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if len(header) > 0 {
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		s.warn(f.SetCellStyle(name, "A1", last, bold), name, "A1")
		s.warn(f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}), name, "A2")

		for i, h := range header {
			col, _ := excelize.ColumnNumberToName(i + 1)
			width := float64(len(h)) + 2
			if width < minColumnWide {
				width = minColumnWide
			}
			s.warn(f.SetColWidth(name, col, col, width), name, col)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("invalid row %d: %w", i, err)
		}
		r := row
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Debug("Rendered spreadsheet",
		zap.String("sheet", name),
		zap.Int("rows", len(rows)),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

func (s *Spreadsheet) warn(err error, sheet, cell string) {
	if err != nil {
		s.logger.Warn("Failed to format spreadsheet",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// sheetName strips characters Excel forbids and truncates to 31 characters
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return defaultSheet
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
