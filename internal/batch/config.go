package batch

import "time"

// Config holds all configuration for a batch run.
type Config struct {
	// Output settings
	OutputFile string // explicit output path; honoured only for a single input
	OutputDir  string // empty means next to each input
	Suffix     string // appended to the input stem, e.g. "_bw"
	Extension  string // forced output extension; empty keeps the input's

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Reporting settings
	Quiet  bool
	Format string // text or json
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input    string        `json:"input"`
	Output   string        `json:"output,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// OK reports whether the file was processed and written.
func (f FileResult) OK() bool { return f.Err == nil }

// Result holds the result of batch processing.
type Result struct {
	Operation string        `json:"operation"`
	Files     []FileResult  `json:"files"`
	Duration  time.Duration `json:"duration_ns"`
}

// Succeeded returns the number of files written.
func (r *Result) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be processed.
func (r *Result) Failed() int { return len(r.Files) - r.Succeeded() }
