// Package export renders ledger and pool statements as XLSX or CSV.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format selects the statement encoding
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter writes one header row followed by data rows.
type Exporter interface {
	WriteHeader(columns []string) error
	WriteRows(rows [][]interface{}) error
	Save(w io.Writer) error
	Close() error
	ContentType() string
}

// ContentType is the media type of statements in f
func (f Format) ContentType() string {
	if f == FormatCSV {
		return ContentTypeCSV
	}
	return ContentTypeXLSX
}

// ParseFormat maps a query value to a Format. Empty means XLSX.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// New returns an exporter for format. title names the XLSX sheet.
func New(format Format, title string) (Exporter, error) {
	switch format {
	case FormatXLSX:
		return NewExcelExporter(DefaultExcelOptions(title))
	case FormatCSV:
		return NewCSVExporter(DefaultCSVOptions()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Render writes a complete statement and returns its bytes.
func Render(format Format, title string, header []string, rows [][]interface{}) ([]byte, error) {
	exporter, err := New(format, title)
	if err != nil {
		return nil, err
	}
	defer exporter.Close()

	if err := exporter.WriteHeader(header); err != nil {
		return nil, err
	}
	if err := exporter.WriteRows(rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to write %s statement: %w", format, err)
	}
	return buf.Bytes(), nil
}
