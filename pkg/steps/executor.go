package steps

import (
	"context"
	"time"

	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/logging"
	"github.com/archup/archup/pkg/state"
	"github.com/archup/archup/pkg/ui"
	"github.com/rs/zerolog"
)

// Executor runs an install plan in order, stopping at the first failure.
type Executor struct {
	logger zerolog.Logger
}

// NewExecutor creates a plan executor.
func NewExecutor() *Executor {
	return &Executor{logger: logging.GetLogger("steps")}
}

// Run executes the plan against env. On failure it attempts a
// best-effort teardown of the partial state, mirroring a shell trap
// handler, and returns the step error.
func (e *Executor) Run(ctx context.Context, plan []Step, env *Env) error {
	started := time.Now()

	for i, step := range plan {
		stepLogger := e.logger.With().Int("step", i+1).Str("name", step.Name).Logger()
		stepLogger.Info().Msg("Step started")
		stepStart := time.Now()

		spinner := ui.StartStep(env.Out, env.Format, step.Name)
		err := step.Run(ctx, env)
		spinner.Done(err)

		if err != nil {
			stepLogger.Error().Err(err).Dur("duration", time.Since(stepStart)).Msg("Step failed")
			e.cleanup(ctx, env)
			return errors.Wrapf(err, errors.GetErrorCode(err), "step %q failed", step.Name)
		}
		stepLogger.Info().Dur("duration", time.Since(stepStart)).Msg("Step completed")
	}

	e.logger.Info().Dur("duration", time.Since(started)).Int("steps", len(plan)).Msg("Plan completed")
	return nil
}

// cleanup tears partial state down after a failed step so the machine is
// left in a rerunnable condition. Failures here are logged, not
// returned: the step error is the one the user needs.
func (e *Executor) cleanup(ctx context.Context, env *Env) {
	if env.DryRun {
		return
	}

	left, err := state.Probe(ctx, env.Runner, env.FS, env.Target, env.Profile.LUKS.Mapper)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Cleanup probe failed")
		return
	}
	if left.Empty() {
		return
	}

	e.logger.Info().Msg("Cleaning up partial state")
	if err := state.Teardown(ctx, env.Runner, env.Target, env.Profile.LUKS.Mapper, left); err != nil {
		e.logger.Warn().Err(err).Msg("Cleanup incomplete; rerun teardown before the next attempt")
	}
}
