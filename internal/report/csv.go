package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/anstrom/sortbench/internal/errors"
)

// CSVFile writes rows to a CSV file. The header is written on creation and
// every row is flushed immediately so a failing disk is noticed at the row
// that hit it.
type CSVFile struct {
	path string
	file io.WriteCloser
	w    *csv.Writer
}

// CreateCSVFile creates (or truncates) path and writes the header.
func CreateCSVFile(path string) (*CSVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.ErrFileCreate(path, err)
	}
	return newCSVFile(path, f)
}

func newCSVFile(path string, f io.WriteCloser) (*CSVFile, error) {
	c := &CSVFile{path: path, file: f, w: csv.NewWriter(f)}
	if err := c.write(Header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, nil
}

// Path returns the file being written.
func (c *CSVFile) Path() string {
	return c.path
}

// StartSize is a no-op; CSV output has no per-size sections.
func (c *CSVFile) StartSize(int) error {
	return nil
}

// WriteRow appends one row.
func (c *CSVFile) WriteRow(row Row) error {
	return c.write(row.Record())
}

func (c *CSVFile) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return errors.ErrFileWrite(c.path, err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return errors.ErrFileWrite(c.path, err)
	}
	return nil
}

// Close flushes and closes the file.
func (c *CSVFile) Close() error {
	c.w.Flush()
	flushErr := c.w.Error()
	closeErr := c.file.Close()
	if flushErr != nil {
		return errors.ErrFileWrite(c.path, flushErr)
	}
	if closeErr != nil {
		return errors.ErrFileWrite(c.path, closeErr)
	}
	return nil
}
