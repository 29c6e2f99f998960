package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/geotagsync/internal/platform"
	"github.com/sdejongh/geotagsync/pkg/classify"
	"github.com/sdejongh/geotagsync/pkg/config"
	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/models"
	"github.com/sdejongh/geotagsync/pkg/output"
	"github.com/sdejongh/geotagsync/pkg/propagate"
	"github.com/sdejongh/geotagsync/pkg/resolve"
)

// RunConfig is the parsed invocation of the root command
type RunConfig struct {
	SearchPath     string
	ReferencePhoto string
	DryRun         bool
}

// Operation builds the validated operation for rc under cfg
func (rc RunConfig) Operation(cfg *config.Config) (models.PropagateOperation, error) {
	searchPath, err := platform.ExpandHome(rc.SearchPath)
	if err != nil {
		return models.PropagateOperation{}, fmt.Errorf("failed to expand %q: %w", rc.SearchPath, err)
	}

	op := models.PropagateOperation{
		ID:              uuid.New().String(),
		SearchPath:      searchPath,
		ReferencePhoto:  rc.ReferencePhoto,
		DryRun:          rc.DryRun,
		Recursive:       cfg.Scan.Recursive,
		FieldGroup:      cfg.Propagate.FieldGroup,
		ExcludePatterns: append([]string(nil), cfg.Scan.Exclude...),
		CreatedAt:       time.Now(),
	}
	if err := op.Validate(); err != nil {
		return op, &models.ArgumentError{Message: err.Error()}
	}
	return op, nil
}

// State is a step of a propagation run
type State string

const (
	StateInit                State = "init"
	StateArgsParsed          State = "args_parsed"
	StateClassified          State = "classified"
	StateResolved            State = "resolved"
	StateCompleted           State = "completed"
	StateNoActionNeeded      State = "no_action_needed"
	StateAmbiguousReported   State = "ambiguous_reported"
	StateNoReferenceReported State = "no_reference_reported"
	StateFailed              State = "failed"
)

// terminalState maps a resolver outcome to the state a run ends in
func terminalState(kind models.OutcomeKind) State {
	switch kind {
	case models.OutcomeNoActionNeeded:
		return StateNoActionNeeded
	case models.OutcomeAmbiguous:
		return StateAmbiguousReported
	case models.OutcomeNoReferenceAvailable:
		return StateNoReferenceReported
	default:
		return StateCompleted
	}
}

// Pipeline runs classify, resolve and propagate in order for one operation
type Pipeline struct {
	classifier *classify.Classifier
	executor   *propagate.Executor
	formatter  output.Formatter
	logger     logging.Logger
	state      State
}

// NewPipeline creates a Pipeline
func NewPipeline(classifier *classify.Classifier, executor *propagate.Executor, formatter output.Formatter, logger logging.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		executor:   executor,
		formatter:  formatter,
		logger:     logger,
		state:      StateInit,
	}
}

// State returns the step reached so far
func (p *Pipeline) State() State {
	return p.state
}

// Run executes op, writing progress to w. Reported outcomes (no action,
// ambiguous, no reference) return a report and a nil error.
func (p *Pipeline) Run(ctx context.Context, op models.PropagateOperation, w io.Writer) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:      op.ID,
		SearchPath: op.SearchPath,
		DryRun:     op.DryRun,
		StartTime:  time.Now(),
	}
	logger := p.logger.WithFields(logging.Fields{"run_id": op.ID})

	p.state = StateArgsParsed
	if err := p.formatter.Start(w, report); err != nil {
		return report, err
	}
	logger.Info(ctx, "Run started", logging.Fields{
		"search_path": op.SearchPath,
		"reference":   op.ReferencePhoto,
		"dry_run":     op.DryRun,
	})

	set, err := p.classifier.Classify(ctx, op.SearchPath)
	if err != nil {
		return p.fail(ctx, logger, report, err)
	}
	report.Files = set
	p.state = StateClassified
	if err := p.formatter.Classified(set); err != nil {
		return report, err
	}

	report.Outcome = resolve.Resolve(set, op.ReferencePhoto)
	p.state = StateResolved
	logger.Info(ctx, "Reference resolved", logging.Fields{
		"outcome":    string(report.Outcome.Kind),
		"reference":  report.Outcome.Reference,
		"candidates": report.Outcome.CandidateCount,
	})

	if plan, ok := resolve.Plan(report.Outcome, set); ok {
		report.Plan = &plan
		result, err := p.executor.Propagate(ctx, plan, op.DryRun)
		if err != nil {
			return p.fail(ctx, logger, report, err)
		}
		report.Result = &result
	}

	p.finish(report)
	report.Status = models.StatusFor(report.Outcome)
	p.state = terminalState(report.Outcome.Kind)

	logger.Info(ctx, "Run finished", logging.Fields{
		"status":   string(report.Status),
		"duration": report.Duration.String(),
	})
	if err := p.formatter.Complete(report); err != nil {
		return report, fmt.Errorf("failed to write output: %w", err)
	}
	return report, nil
}

func (p *Pipeline) fail(ctx context.Context, logger logging.Logger, report *models.RunReport, err error) (*models.RunReport, error) {
	p.finish(report)
	report.Status = models.StatusFailed
	p.state = StateFailed

	logger.Error(ctx, "Run failed", err, nil)
	if fmtErr := p.formatter.Error(err); fmtErr != nil {
		logger.Error(ctx, "Failed to write error output", fmtErr, nil)
		return report, err
	}
	return report, &reportedError{err: err}
}

func (p *Pipeline) finish(report *models.RunReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
}

// runPropagate is the root command
func (a *app) runPropagate(ctx context.Context, rc RunConfig) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	op, err := rc.Operation(cfg)
	if err != nil {
		return err
	}

	logger, err := a.newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	formatter, err := a.newFormatter(cfg)
	if err != nil {
		return err
	}

	tool := a.opts.NewTool(cfg)
	classifier := classify.New(tool, classify.Options{
		Recursive: op.Recursive,
		Exclude:   op.ExcludePatterns,
		Logger:    logger.WithFields(logging.Fields{"component": "classify"}),
	})
	executor := propagate.NewExecutor(tool, op.FieldGroup, logger.WithFields(logging.Fields{"component": "propagate"}))

	_, err = NewPipeline(classifier, executor, formatter, logger).Run(ctx, op, a.opts.Stdout)
	return err
}
