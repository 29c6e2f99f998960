package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sdejongh/geotagsync/pkg/models"
)

// JSONFormatter writes a single JSON document per run for automation
type JSONFormatter struct {
	writer io.Writer
	report *models.RunReport
}

// JSONReportData is the document written on completion or failure
type JSONReportData struct {
	RunID         string                    `json:"run_id"`
	Status        string                    `json:"status"`
	SearchPath    string                    `json:"search_path"`
	DryRun        bool                      `json:"dry_run"`
	Duration      string                    `json:"duration,omitempty"`
	DurationMs    int64                     `json:"duration_ms"`
	WithGeotag    []string                  `json:"with_geotag"`
	WithoutGeotag []string                  `json:"without_geotag"`
	Outcome       *JSONOutcomeData          `json:"outcome,omitempty"`
	Plan          *models.PropagationPlan   `json:"plan,omitempty"`
	Result        *models.PropagationResult `json:"result,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

// JSONOutcomeData represents the resolver decision
type JSONOutcomeData struct {
	Kind           string `json:"kind"`
	Reference      string `json:"reference,omitempty"`
	CandidateCount int    `json:"candidate_count,omitempty"`
	Message        string `json:"message,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(w io.Writer, report *models.RunReport) error {
	f.writer = stdoutIfNil(w)
	f.report = report
	return nil
}

// Classified is folded into the final document
func (f *JSONFormatter) Classified(set models.ClassifiedFileSet) error {
	return nil
}

// Complete writes the run document
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	data := f.base(report)

	outcome := &JSONOutcomeData{
		Kind:           string(report.Outcome.Kind),
		Reference:      report.Outcome.Reference,
		CandidateCount: report.Outcome.CandidateCount,
	}
	if err := report.Outcome.Err(); err != nil {
		outcome.Message = err.Error()
	}
	data.Outcome = outcome
	data.Plan = report.Plan
	data.Result = report.Result

	return f.encode(data)
}

// Error writes a failed-run document
func (f *JSONFormatter) Error(err error) error {
	data := f.base(f.report)
	data.Status = string(models.StatusFailed)
	data.Error = err.Error()
	return f.encode(data)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) base(report *models.RunReport) JSONReportData {
	if report == nil {
		report = &models.RunReport{}
	}
	data := JSONReportData{
		RunID:         report.RunID,
		Status:        string(report.Status),
		SearchPath:    report.SearchPath,
		DryRun:        report.DryRun,
		DurationMs:    report.Duration.Milliseconds(),
		WithGeotag:    report.Files.WithGeotag,
		WithoutGeotag: report.Files.WithoutGeotag,
	}
	if report.Duration > 0 {
		data.Duration = report.Duration.Round(time.Millisecond).String()
	}
	if data.WithGeotag == nil {
		data.WithGeotag = []string{}
	}
	if data.WithoutGeotag == nil {
		data.WithoutGeotag = []string{}
	}
	return data
}

func (f *JSONFormatter) encode(data JSONReportData) error {
	encoder := json.NewEncoder(stdoutIfNil(f.writer))
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
