package metadata

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/executor"
)

// Result holds the captured output of one tool run
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes invocations. A non-zero exit status is reported through
// Result.ExitCode, not as an error; errors mean the process could not be run
// to completion (missing binary, cancelled, timed out).
type Runner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecRunner runs invocations as subprocesses. Deadlines come from ctx.
type ExecRunner struct{}

// Run implements Runner
func (ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	res, err := executor.New(inv.Program, inv.Args...).
		ExecuteWithInput(ctx, inv.StdinText(), executor.SilentMode())

	result := &Result{ExitCode: -1}
	if res != nil {
		result.Stdout = res.Stdout
		result.Stderr = res.Stderr
		result.ExitCode = res.ExitCode
	}

	if err == nil {
		return result, nil
	}

	// A killed process also reports an exit status, so check the context first
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s interrupted: %w", inv.Program, ctxErr)
	}

	if result.ExitCode > 0 {
		return result, nil
	}

	result.ExitCode = -1
	return result, err
}
