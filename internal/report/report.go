// Package report renders benchmark rows to the console and to CSV files.
package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Header is the CSV header shared by every sink.
var Header = []string{"Type", "Size", "Time(ns)", "Comparisons", "Swaps", "ArrayAccesses", "Iterations"}

// Format selects how rows are echoed to the console.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatTable, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Row is one benchmark measurement.
type Row struct {
	Type          string `json:"type"`
	Size          int    `json:"size"`
	TimeNS        int64  `json:"time_ns"`
	Comparisons   int64  `json:"comparisons"`
	Swaps         int64  `json:"swaps"`
	ArrayAccesses int64  `json:"array_accesses"`
	Iterations    int64  `json:"iterations"`
}

// Record returns the row's fields in Header order.
func (r Row) Record() []string {
	return []string{
		r.Type,
		strconv.Itoa(r.Size),
		strconv.FormatInt(r.TimeNS, 10),
		strconv.FormatInt(r.Comparisons, 10),
		strconv.FormatInt(r.Swaps, 10),
		strconv.FormatInt(r.ArrayAccesses, 10),
		strconv.FormatInt(r.Iterations, 10),
	}
}

// String renders the row as a single CSV line without a trailing newline.
func (r Row) String() string {
	return strings.Join(r.Record(), ",")
}

// Sink receives rows as the benchmark produces them.
type Sink interface {
	// StartSize is called before the first row of each input size.
	StartSize(size int) error
	WriteRow(row Row) error
	Close() error
}
