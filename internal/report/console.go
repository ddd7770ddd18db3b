package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Title is printed above text-format output.
const Title = "Insertion Sort Benchmark"

// NewConsole returns a sink echoing rows to w in the given format.
func NewConsole(w io.Writer, format Format) (Sink, error) {
	switch format {
	case FormatText:
		return &textSink{w: w}, nil
	case FormatCSV:
		return &csvSink{w: csv.NewWriter(w)}, nil
	case FormatTable:
		return &tableSink{w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// textSink prints a banner, the CSV header, a line per size and one CSV line
// per row.
type textSink struct {
	w       io.Writer
	started bool
}

func (s *textSink) begin() error {
	if s.started {
		return nil
	}
	s.started = true
	_, err := fmt.Fprintf(s.w, "%s\n============================\n%s\n", Title, strings.Join(Header, ","))
	return err
}

func (s *textSink) StartSize(size int) error {
	if err := s.begin(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.w, "\nTesting size: %d\n", size)
	return err
}

func (s *textSink) WriteRow(row Row) error {
	if err := s.begin(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.w, row.String())
	return err
}

func (s *textSink) Close() error {
	return s.begin()
}

// csvSink writes plain CSV, header first.
type csvSink struct {
	w       *csv.Writer
	started bool
}

func (s *csvSink) StartSize(int) error {
	return nil
}

func (s *csvSink) WriteRow(row Row) error {
	if !s.started {
		s.started = true
		if err := s.w.Write(Header); err != nil {
			return err
		}
	}
	if err := s.w.Write(row.Record()); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *csvSink) Close() error {
	if !s.started {
		s.started = true
		if err := s.w.Write(Header); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

// tableSink buffers rows and renders them as one table on Close.
type tableSink struct {
	w    io.Writer
	rows []Row
}

func (s *tableSink) StartSize(int) error {
	return nil
}

func (s *tableSink) WriteRow(row Row) error {
	s.rows = append(s.rows, row)
	return nil
}

func (s *tableSink) Close() error {
	table := tablewriter.NewWriter(s.w)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	table.Header(header...)

	for _, row := range s.rows {
		if err := table.Append(row.Record()); err != nil {
			return err
		}
	}
	return table.Render()
}
