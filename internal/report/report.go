// Package report collects per-file outcomes of a batch run and prints
// a colored summary.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status is the outcome of processing a single file.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result records the outcome for one input file.
type Result struct {
	Path   string
	Status Status
	Detail string
	Err    error
}

// Report accumulates results over a run.
type Report struct {
	Results []Result
}

// Add appends a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// OK records a successful file.
func (r *Report) OK(path, detail string) {
	r.Add(Result{Path: path, Status: StatusOK, Detail: detail})
}

// Fail records a failed file.
func (r *Report) Fail(path string, err error) {
	r.Add(Result{Path: path, Status: StatusFailed, Err: err})
}

// Skip records a skipped file.
func (r *Report) Skip(path, reason string) {
	r.Add(Result{Path: path, Status: StatusSkipped, Detail: reason})
}

// Count returns how many results carry the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}

	return n
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}

// Printer renders results and the final summary to a writer.
type Printer struct {
	w     io.Writer
	quiet bool

	ok   *color.Color
	fail *color.Color
	skip *color.Color
	bold *color.Color
}

// NewPrinter creates a Printer writing to w. When noColors is set all
// output is plain text; when quiet is set per-file lines are suppressed
// and only the summary is printed.
func NewPrinter(w io.Writer, noColors, quiet bool) *Printer {
	p := &Printer{
		w:     w,
		quiet: quiet,
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		skip:  color.New(color.FgYellow),
		bold:  color.New(color.Bold),
	}
	if noColors {
		for _, c := range []*color.Color{p.ok, p.fail, p.skip, p.bold} {
			c.DisableColor()
		}
	}

	return p
}

// File prints one per-file result line.
func (p *Printer) File(res Result) {
	if p.quiet {
		return
	}

	switch res.Status {
	case StatusOK:
		p.ok.Fprintf(p.w, "  ok      ")
	case StatusFailed:
		p.fail.Fprintf(p.w, "  failed  ")
	case StatusSkipped:
		p.skip.Fprintf(p.w, "  skipped ")
	}

	fmt.Fprintf(p.w, "%s", res.Path)
	switch {
	case res.Err != nil:
		fmt.Fprintf(p.w, ": %v", res.Err)
	case res.Detail != "":
		fmt.Fprintf(p.w, " (%s)", res.Detail)
	}
	fmt.Fprintln(p.w)
}

// Summary prints the final counts for the run.
func (p *Printer) Summary(r *Report) {
	p.bold.Fprintf(p.w, "%d processed", len(r.Results))
	fmt.Fprintf(p.w, ": ")
	p.ok.Fprintf(p.w, "%d ok", r.Count(StatusOK))
	fmt.Fprintf(p.w, ", ")
	p.fail.Fprintf(p.w, "%d failed", r.Count(StatusFailed))
	fmt.Fprintf(p.w, ", ")
	p.skip.Fprintf(p.w, "%d skipped", r.Count(StatusSkipped))
	fmt.Fprintln(p.w)
}
