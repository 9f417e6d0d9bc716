package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - table (values implementing Tabular only)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "table":
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("format table: %T has no tabular form", v)
		}
		return WriteTable(w, t)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
//
// NOTE: Output stays strict JSON. Hints for follow-up commands go in a `meta`
// object, never in free text around the document.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes a YAML document. Field names come from yaml tags.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
