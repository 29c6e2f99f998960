package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	quiet     bool

	heading *color.Color
	good    *color.Color
	warn    *color.Color
	bad     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(opts Options) *HumanFormatter {
	f := &HumanFormatter{
		errWriter: opts.ErrWriter,
		quiet:     opts.Quiet,
		heading:   color.New(color.Bold),
		good:      color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		bad:       color.New(color.FgRed, color.Bold),
	}
	if f.errWriter == nil {
		f.errWriter = os.Stderr
	}
	if !opts.Color {
		for _, c := range []*color.Color{f.heading, f.good, f.warn, f.bad} {
			c.DisableColor()
		}
	}
	return f
}

// Start initializes the formatter
func (f *HumanFormatter) Start(w io.Writer, report *models.RunReport) error {
	f.writer = stdoutIfNil(w)
	if f.quiet {
		return nil
	}

	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(f.writer, "Scanning %s%s\n", report.SearchPath, mode)
	return nil
}

// Classified prints both file lists
func (f *HumanFormatter) Classified(set models.ClassifiedFileSet) error {
	if f.quiet {
		return nil
	}
	w := f.out()

	fmt.Fprintln(w)
	f.heading.Fprintf(w, "Files with geotag (%d):\n", len(set.WithGeotag))
	for _, p := range set.WithGeotag {
		fmt.Fprintf(w, "  %s\n", p)
	}

	fmt.Fprintln(w)
	f.heading.Fprintf(w, "Files without geotag (%d):\n", len(set.WithoutGeotag))
	for _, p := range set.WithoutGeotag {
		fmt.Fprintf(w, "  %s\n", p)
	}
	fmt.Fprintln(w)
	return nil
}

// Complete prints the summary for the run outcome
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	w := f.out()
	outcome := report.Outcome

	switch outcome.Kind {
	case models.OutcomeNoActionNeeded:
		if report.Files.Total() == 0 {
			f.good.Fprintf(w, "No images found under %s, nothing to do.\n", report.SearchPath)
		} else {
			f.good.Fprintf(w, "All %d images already have a geotag, nothing to do.\n", report.Files.Total())
		}

	case models.OutcomeAmbiguous:
		f.warn.Fprintf(w, "Found %d geotagged images, cannot choose a reference photo.\n", outcome.CandidateCount)
		fmt.Fprintf(w, "Rerun with the chosen file as second argument:\n")
		fmt.Fprintf(w, "  geotagsync %s <referencePhoto>\n", report.SearchPath)

	case models.OutcomeNoReferenceAvailable:
		f.warn.Fprintf(w, "No geotagged image found under %s.\n", report.SearchPath)
		fmt.Fprintf(w, "Pass a geotagged reference photo as second argument.\n")

	case models.OutcomeAutoSelected, models.OutcomeExplicitReference:
		how := "selected automatically"
		if outcome.Kind == models.OutcomeExplicitReference {
			how = "given on the command line"
		}
		fmt.Fprintf(w, "Reference photo: %s (%s)\n", outcome.Reference, how)
		f.completePropagation(w, report)
	}

	if !f.quiet && !report.EndTime.IsZero() {
		fmt.Fprintf(w, "Finished in %s\n", report.Duration.Round(time.Millisecond))
	}
	return nil
}

func (f *HumanFormatter) completePropagation(w io.Writer, report *models.RunReport) {
	targets := 0
	if report.Plan != nil {
		targets = len(report.Plan.Targets)
	}

	switch {
	case report.Result == nil:
		return
	case targets == 0:
		f.good.Fprintln(w, "Every image already has a geotag, nothing to copy.")
	case report.Result.DryRun:
		f.warn.Fprintf(w, "Dry run, %d files would be updated with:\n", targets)
		fmt.Fprintln(w, report.Result.Command)
	default:
		f.good.Fprintf(w, "Copied geotag to %d files.\n", report.Result.FilesAttempted)
	}
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	f.bad.Fprintf(f.errWriter, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) out() io.Writer {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return f.writer
}
