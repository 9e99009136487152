// Package progress reports pipeline progress and diagnostics to stderr,
// the way the teacher reports CPG-extraction progress: an elapsed-time
// prefix, a verbose-only channel, and (SPEC_FULL.md §6, C11) a
// colorized error line.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

var errColor = color.New(color.FgRed, color.Bold)

// Reporter reports pipeline progress to stderr with elapsed time.
type Reporter struct {
	start   time.Time
	verbose bool
	quiet   bool
}

// New creates a progress reporter. verbose enables Verbose output;
// quiet suppresses everything but Error.
func New(verbose, quiet bool) *Reporter {
	return &Reporter{start: time.Now(), verbose: verbose, quiet: quiet}
}

// Log prints a progress message with an elapsed-time prefix, unless the
// reporter is quiet.
func (r *Reporter) Log(format string, args ...any) {
	if r.quiet {
		return
	}
	r.write(os.Stderr, format, args...)
}

// Verbose prints only when verbose mode is enabled (and not quiet).
func (r *Reporter) Verbose(format string, args ...any) {
	if r.verbose {
		r.Log(format, args...)
	}
}

// Error prints a red "error:"-prefixed diagnostic. Errors are never
// suppressed by quiet mode.
func (r *Reporter) Error(format string, args ...any) {
	r.writeDiagnostic(errColor, "error", format, args...)
}

func (r *Reporter) write(w *os.File, format string, args ...any) {
	elapsed := time.Since(r.start)
	mins := int(elapsed.Minutes())
	secs := int(elapsed.Seconds()) % 60
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "[%02d:%02d] %s\n", mins, secs, msg)
}

func (r *Reporter) writeDiagnostic(c *color.Color, label, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", c.Sprintf("%s:", label), msg)
}
