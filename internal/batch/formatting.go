package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// FormatResults formats the batch result as text or json.
func (r *Result) FormatResults(format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(r)
	default:
		return formatText(r), nil
	}
}

// WriteSummary writes the formatted result to w.
func (r *Result) WriteSummary(w io.Writer, format string) error {
	out, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func formatJSON(r *Result) (string, error) {
	payload := struct {
		*Result
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}{Result: r, Succeeded: r.Succeeded(), Failed: r.Failed()}

	bts, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

func formatText(r *Result) string {
	var b strings.Builder
	for _, f := range r.Files {
		if f.OK() {
			fmt.Fprintf(&b, "%s -> %s\n", f.Input, f.Output)
		} else {
			fmt.Fprintf(&b, "FAILED %s: %s\n", f.Input, f.Error)
		}
	}
	fmt.Fprintf(&b, "Processed %d of %d file(s)", r.Succeeded(), len(r.Files))
	if r.Duration > 0 {
		fmt.Fprintf(&b, " in %v", r.Duration.Round(time.Millisecond))
	}
	b.WriteString("\n")
	return b.String()
}
