package printers

import (
	"encoding/json"
	"io"
)

// JSON writes v indented, for --json output.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
