package formatter

import "fmt"

// Supported output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// New returns the formatter for an output format name
func New(format string) (Formatter, error) {
	switch format {
	case "", FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use table, json or csv)", format)
	}
}
