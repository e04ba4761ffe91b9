package output

import (
	"fmt"
	"strings"
)

// Table is a list-shaped command result ready for rendering or export.
type Table struct {
	Headers []string
	Rows    [][]string
}

type Writer interface {
	Write(path string, table Table) error
}

func WriterForFormat(format string) (Writer, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (valid: csv, xlsx)", format)
	}
}
