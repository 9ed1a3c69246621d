package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbooks written by ExcelExporter.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelExporter writes a single-sheet statement workbook
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
	nextRow int
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName       string
	FreezeHeader    bool
	TimestampFormat string
	NumberFormat    string
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions(sheetName string) ExcelOptions {
	return ExcelOptions{
		SheetName:       sheetName,
		FreezeHeader:    true,
		TimestampFormat: "yyyy-mm-dd hh:mm:ss",
		NumberFormat:    "#,##0.00",
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(options ExcelOptions) (*ExcelExporter, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", options.SheetName); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	return &ExcelExporter{
		file:    file,
		options: options,
		nextRow: 1,
	}, nil
}

// WriteHeader writes a bold header row and optionally freezes it
func (e *ExcelExporter) WriteHeader(columns []string) error {
	style, err := e.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	row := make([]interface{}, len(columns))
	for i, col := range columns {
		row[i] = col
	}
	if err := e.writeRow(row); err != nil {
		return err
	}

	first, _ := excelize.CoordinatesToCellName(1, e.nextRow-1)
	last, _ := excelize.CoordinatesToCellName(len(columns), e.nextRow-1)
	if err := e.file.SetCellStyle(e.options.SheetName, first, last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if e.options.FreezeHeader {
		return e.file.SetPanes(e.options.SheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      e.nextRow - 1,
			TopLeftCell: fmt.Sprintf("A%d", e.nextRow),
			ActivePane:  "bottomLeft",
		})
	}
	return nil
}

// WriteRows writes data rows in column order
func (e *ExcelExporter) WriteRows(rows [][]interface{}) error {
	for _, row := range rows {
		if err := e.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func (e *ExcelExporter) writeRow(row []interface{}) error {
	for colIdx, val := range row {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, e.nextRow)
		if err != nil {
			return err
		}
		if err := e.setCellValue(cell, val); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}
	e.nextRow++
	return nil
}

// setCellValue sets a cell value with appropriate formatting
func (e *ExcelExporter) setCellValue(cell string, val interface{}) error {
	sheet := e.options.SheetName

	switch v := val.(type) {
	case nil:
		return e.file.SetCellValue(sheet, cell, "")
	case time.Time:
		if v.IsZero() {
			return e.file.SetCellValue(sheet, cell, "")
		}
		if err := e.file.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		return e.applyFormat(cell, e.options.TimestampFormat)
	case float64:
		if err := e.file.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		return e.applyFormat(cell, e.options.NumberFormat)
	default:
		return e.file.SetCellValue(sheet, cell, v)
	}
}

func (e *ExcelExporter) applyFormat(cell, format string) error {
	if format == "" {
		return nil
	}
	style, err := e.file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	return e.file.SetCellStyle(e.options.SheetName, cell, cell, style)
}

// Save writes the Excel file to w
func (e *ExcelExporter) Save(w io.Writer) error {
	return e.file.Write(w)
}

// Close closes the Excel file
func (e *ExcelExporter) Close() error {
	return e.file.Close()
}

func (e *ExcelExporter) ContentType() string { return ContentTypeXLSX }
