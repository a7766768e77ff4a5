package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/uicontrols/pkg/controls"
	"github.com/ternarybob/uicontrols/pkg/models"
)

// Runner executes scenarios against one Controls
type Runner struct {
	ctl     *controls.Controls
	logger  arbor.ILogger
	backend string
}

// NewRunner creates a runner. backend only labels the results.
func NewRunner(ctl *controls.Controls, backend string, logger arbor.ILogger) *Runner {
	return &Runner{ctl: ctl, logger: logger, backend: backend}
}

// Run executes the steps in order and stops at the first failure unless the step allows
// continuing. A cancelled context fails the current step and ends the run.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *models.RunResult {
	run := &models.RunResult{
		ID:        uuid.NewString(),
		Scenario:  sc.Name,
		Backend:   r.backend,
		StartedAt: time.Now(),
	}
	defer func() {
		run.Duration = time.Since(run.StartedAt)
	}()

	r.logger.Info().
		Str("run_id", run.ID).
		Str("scenario", sc.Name).
		Int("steps", len(sc.Steps)).
		Msg("Starting scenario")

	steps := sc.Steps
	if sc.Start != "" {
		steps = append([]Step{{Name: "start", Action: "Visit", Args: Args{"path": sc.Start}}}, steps...)
	}

	for i, step := range steps {
		result := r.runStep(ctx, step)
		run.Steps = append(run.Steps, result)
		if result.Passed {
			continue
		}
		if ctx.Err() != nil {
			r.logger.Warn().Str("step", step.Label()).Msg("Scenario cancelled")
			break
		}
		if !step.ContinueOnError {
			if skipped := len(steps) - i - 1; skipped > 0 {
				r.logger.Warn().Int("skipped", skipped).Msg("Stopping scenario after failed step")
			}
			break
		}
	}

	r.logger.Info().
		Str("run_id", run.ID).
		Bool("passed", run.Passed()).
		Int("failures", run.Failures()).
		Msg("Scenario finished")
	return run
}

func (r *Runner) runStep(ctx context.Context, step Step) models.StepResult {
	result := models.StepResult{Name: step.Label(), Action: step.Action}
	a, ok := actions[step.Action]
	if !ok {
		result.Error = fmt.Sprintf("unknown action %q", step.Action)
		return result
	}

	before := r.ctl.LastSnapshot()
	start := time.Now()
	err := a.run(ctx, r.ctl, step.Args)
	result.Duration = time.Since(start)
	if err == nil {
		result.Passed = true
		return result
	}

	result.Error = err.Error()
	result.Kind = controls.KindName(err)
	if snap := r.ctl.LastSnapshot(); snap != before {
		result.Snapshot = snap
	}
	return result
}
