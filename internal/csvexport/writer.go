package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"iolist/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header row of the wiring table, in JSON field order.
var Columns = []string{
	"IO device",
	"Splitter used?",
	"Pin number",
	"Port number",
	"I/O name",
	"I/O",
	"I/O Number",
	"Cable type",
	"CABLE LENGTH",
}

// Writer wraps csv.Writer for exporting the IO Configuration table.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns)
}

// WriteRows writes one CSV row per wiring row.
func (w *Writer) WriteRows(rows []domain.IOConfigurationRow) error {
	for i := range rows {
		if err := w.csv.Write(Record(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Record converts a wiring row to cells in Columns order. Output rows
// have an empty port cell.
func Record(row *domain.IOConfigurationRow) []string {
	port := ""
	if row.PortNumber != nil {
		port = strconv.Itoa(*row.PortNumber)
	}
	return []string{
		row.IODevice,
		row.SplitterUsed,
		row.PinNumber,
		port,
		row.IOName,
		row.Direction,
		row.IONumber,
		row.CableType,
		row.CableLength,
	}
}

// Export writes a BOM, the header and all rows, then flushes.
func Export(w io.Writer, rows []domain.IOConfigurationRow) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	if err := cw.WriteRows(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a drawing name for use in Content-Disposition.
// The extension is dropped, non-alphanumeric chars (except - _) become _,
// consecutive underscores collapse, and the result is cut to 100 chars.
func SanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "io_list"
	}
	return s
}

// BuildFilename returns {sanitized_source}_{YYYY-MM-DD}.{ext}.
func BuildFilename(sourceFile, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(sourceFile), now.Format("2006-01-02"), ext)
}
