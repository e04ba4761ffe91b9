package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// NormalizeFormat validates the --output flag value.
func NormalizeFormat(format string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (valid: json, text)", format)
	}
}

// PrintObject renders a single result object either as indented JSON or as
// sorted "key: value" lines.
func PrintObject(w io.Writer, format string, object map[string]any) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		encoded, err := json.MarshalIndent(object, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "%-24s %s\n", key+":", formatValue(object[key])); err != nil {
			return err
		}
	}
	return nil
}

// PrintValue renders a scalar result (e.g. a tenant setting).
func PrintValue(w io.Writer, format string, name string, value any) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		encoded, err := json.MarshalIndent(map[string]any{name: value}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}

	_, err = fmt.Fprintf(w, "%v\n", value)
	return err
}

// PrintTable renders a list result.
func PrintTable(w io.Writer, format string, table Table) error {
	format, err := NormalizeFormat(format)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		rows := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			object := make(map[string]string, len(table.Headers))
			for i, header := range table.Headers {
				if i < len(row) {
					object[header] = row[i]
				}
			}
			rows = append(rows, object)
		}
		encoded, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}

	widths := make([]int, len(table.Headers))
	for i, header := range table.Headers {
		widths[i] = len(header)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) error {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i < len(widths) {
				parts = append(parts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := writeRow(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", typed)
	}
}
