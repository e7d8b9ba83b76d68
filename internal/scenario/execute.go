package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/intercept"
	"github.com/adyen/storefront-e2e/internal/models"
)

// stepFailure carries the name of the step that ended the scenario
type stepFailure struct {
	step string
	err  error
}

func (e *stepFailure) Error() string {
	return fmt.Sprintf("step %q: %v", e.step, e.err)
}

func (e *stepFailure) Unwrap() error {
	return e.err
}

// Execute runs sc on the session's page and returns its result. Hard failures
// stop the scenario, soft failures are recorded and skipped past, and an unmet
// precondition marks it skipped. Exceeding the scenario timeout is a failure.
func Execute(ctx context.Context, sc Scenario, session browser.Session, cfg *config.HarnessConfig) models.ScenarioResult {
	started := time.Now()
	ctx, cancel := context.WithTimeoutCause(ctx, cfg.ScenarioTimeout, models.ErrScenarioTimedOut)
	defer cancel()

	page := session.Page()
	run := &Run{
		Config:   cfg,
		Page:     page,
		Nav:      browser.NewNavigator(page, cfg.BaseURL, cfg.NavigationTimeout),
		Net:      intercept.New(page),
		Captures: NewCaptures(),
	}
	defer func() {
		if err := run.Net.Close(); err != nil {
			log.Printf("Failed to release interception routes for %s: %v", sc.Name, err)
		}
	}()

	err := run.steps(ctx, sc.Steps)
	if err == nil {
		if verr := run.Net.Verify(); verr != nil {
			run.results = append(run.results, models.StepResult{
				Name:    "verify interceptions",
				Kind:    models.StepIntercept,
				Outcome: models.OutcomeFailed,
				Error:   verr.Error(),
			})
			err = &stepFailure{step: "verify interceptions", err: verr}
		}
	}

	result := models.ScenarioResult{
		Name:      sc.Name,
		Outcome:   models.OutcomePassed,
		Steps:     run.results,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	var failure *stepFailure
	if errors.As(err, &failure) {
		result.FailedStep = failure.step
	}

	switch {
	case err == nil:
	case models.IsPreconditionUnmet(err):
		var unmet *models.PreconditionUnmet
		errors.As(err, &unmet)
		result.Outcome = models.OutcomeSkipped
		result.Reason = unmet.Error()
	case errors.Is(context.Cause(ctx), models.ErrScenarioTimedOut):
		result.Outcome = models.OutcomeFailed
		result.Reason = fmt.Sprintf("%v after %s: %v", models.ErrScenarioTimedOut, cfg.ScenarioTimeout, reason(err))
	default:
		result.Outcome = models.OutcomeFailed
		result.Reason = reason(err)
	}
	return result
}

func reason(err error) string {
	var failure *stepFailure
	if errors.As(err, &failure) {
		return failure.err.Error()
	}
	return err.Error()
}

// steps runs steps in order, recording each result. Steps returned by a
// branch run in place, before the next sibling.
func (r *Run) steps(ctx context.Context, steps []Step) error {
	for _, s := range steps {
		if ctx.Err() != nil {
			cause := context.Cause(ctx)
			r.results = append(r.results, models.StepResult{
				Name:    s.Name,
				Kind:    s.Kind,
				Target:  s.Target,
				Outcome: models.OutcomeFailed,
				Error:   cause.Error(),
			})
			return &stepFailure{step: s.Name, err: cause}
		}

		started := time.Now()
		variant, next, err := s.run(ctx, r, s.budget(r.Config))
		res := models.StepResult{
			Name:     s.Name,
			Kind:     s.Kind,
			Target:   s.Target,
			Soft:     s.Soft,
			Variant:  variant,
			Outcome:  models.OutcomePassed,
			Duration: time.Since(started),
		}

		switch {
		case err == nil:
			r.results = append(r.results, res)
		case models.IsPreconditionUnmet(err):
			res.Outcome = models.OutcomeSkipped
			res.Error = err.Error()
			r.results = append(r.results, res)
			return &stepFailure{step: s.Name, err: err}
		default:
			res.Outcome = models.OutcomeFailed
			res.Error = err.Error()
			r.results = append(r.results, res)
			if s.Soft && ctx.Err() == nil {
				log.Printf("Soft failure in %q: %v", s.Name, err)
				continue
			}
			return &stepFailure{step: s.Name, err: err}
		}

		if len(next) > 0 {
			if err := r.steps(ctx, next); err != nil {
				return err
			}
		}
	}
	return nil
}
