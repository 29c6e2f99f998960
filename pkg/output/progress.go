package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// Progress is a counter bar for per-file batch commands. A disabled
// Progress accepts calls and draws nothing.
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress starts a bar of total steps on w when enabled and total > 0
func NewProgress(w io.Writer, label string, total int, enabled bool) *Progress {
	if !enabled || total <= 0 {
		return &Progress{}
	}

	bar := pb.ProgressBarTemplate(progressTemplate).New(total)
	bar.SetWriter(w)
	bar.Set("prefix", label)
	bar.Start()
	return &Progress{bar: bar}
}

// Increment advances the bar by one step
func (p *Progress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops redrawing and leaves the final state on screen
func (p *Progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

// Enabled reports whether anything is drawn
func (p *Progress) Enabled() bool {
	return p.bar != nil
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
