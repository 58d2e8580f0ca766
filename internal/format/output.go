package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Tabler is implemented by CLI payloads that have a tabular rendering.
type Tabler interface {
	Table() (headers []string, rows [][]string)
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (payloads implementing Tabler; others fall back to json)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "table":
		if t, ok := v.(Tabler); ok {
			return WriteTable(w, t)
		}
		return WriteJSON(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes one JSON document followed by a newline. HTML characters
// in titles and comments are left unescaped.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
