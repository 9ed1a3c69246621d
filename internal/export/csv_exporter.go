package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ContentTypeCSV is the media type of the statements written by CSVExporter.
const ContentTypeCSV = "text/csv; charset=utf-8"

// CSVExporter writes a statement as comma separated values
type CSVExporter struct {
	buf     bytes.Buffer
	writer  *csv.Writer
	options CSVOptions
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter       rune
	UseCRLF         bool
	TimestampFormat string
	NullValue       string
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		TimestampFormat: time.RFC3339,
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(options CSVOptions) *CSVExporter {
	e := &CSVExporter{options: options}
	e.writer = csv.NewWriter(&e.buf)
	e.writer.Comma = options.Delimiter
	e.writer.UseCRLF = options.UseCRLF
	return e
}

// WriteHeader writes the CSV header row
func (e *CSVExporter) WriteHeader(columns []string) error {
	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRows writes data rows in column order
func (e *CSVExporter) WriteRows(rows [][]interface{}) error {
	for _, row := range rows {
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = e.formatValue(val)
		}
		if err := e.writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// Save flushes the buffered statement to w
func (e *CSVExporter) Save(w io.Writer) error {
	e.writer.Flush()
	if err := e.writer.Error(); err != nil {
		return err
	}
	_, err := w.Write(e.buf.Bytes())
	return err
}

func (e *CSVExporter) Close() error { return nil }

func (e *CSVExporter) ContentType() string { return ContentTypeCSV }

// formatValue formats a value for CSV output
func (e *CSVExporter) formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return e.options.NullValue
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return e.options.NullValue
		}
		return v.Format(e.options.TimestampFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}
