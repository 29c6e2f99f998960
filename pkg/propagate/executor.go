// Package propagate copies the reference photo's geotag onto the targets of a
// plan with a single metadata tool call.
package propagate

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/geotagsync/pkg/logging"
	"github.com/sdejongh/geotagsync/pkg/metadata"
	"github.com/sdejongh/geotagsync/pkg/models"
)

// Executor runs propagation plans
type Executor struct {
	copier     metadata.TagCopier
	fieldGroup string
	logger     logging.Logger
}

// NewExecutor creates an Executor copying fieldGroup (metadata.DefaultFieldGroup
// when empty)
func NewExecutor(copier metadata.TagCopier, fieldGroup string, logger logging.Logger) *Executor {
	if fieldGroup == "" {
		fieldGroup = metadata.DefaultFieldGroup
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Executor{
		copier:     copier,
		fieldGroup: fieldGroup,
		logger:     logger,
	}
}

// Request returns the copy request for plan
func (e *Executor) Request(plan models.PropagationPlan) metadata.CopyRequest {
	return metadata.CopyRequest{
		Reference:  plan.ReferencePhoto,
		Targets:    plan.Targets,
		FieldGroup: e.fieldGroup,
	}
}

// Propagate executes plan. An empty plan runs nothing, so a dry run of it
// has no command either. A dry run touches nothing and returns the rendered
// command; otherwise every target goes to the tool in one call. Failures are
// returned as is and never retried.
func (e *Executor) Propagate(ctx context.Context, plan models.PropagationPlan, dryRun bool) (models.PropagationResult, error) {
	if len(plan.Targets) == 0 {
		e.logger.Debug(ctx, "No targets, skipping copy", logging.Fields{"reference": plan.ReferencePhoto})
		return models.PropagationResult{DryRun: dryRun}, nil
	}

	req := e.Request(plan)

	if dryRun {
		cmd := e.copier.CopyCommand(req).Render()
		e.logger.Info(ctx, "Dry run, no files modified", logging.Fields{
			"reference": plan.ReferencePhoto,
			"targets":   len(plan.Targets),
		})
		return models.PropagationResult{DryRun: true, Command: cmd}, nil
	}

	start := time.Now()
	if err := e.copier.CopyTags(ctx, req); err != nil {
		e.logger.Error(ctx, "Geotag copy failed", err, logging.Fields{
			"reference": plan.ReferencePhoto,
			"targets":   len(plan.Targets),
		})
		return models.PropagationResult{}, fmt.Errorf("failed to copy geotag from %s: %w", plan.ReferencePhoto, err)
	}

	e.logger.Info(ctx, "Geotag copied", logging.Fields{
		"reference": plan.ReferencePhoto,
		"targets":   len(plan.Targets),
		"duration":  time.Since(start).String(),
	})
	return models.PropagationResult{FilesAttempted: len(plan.Targets)}, nil
}
