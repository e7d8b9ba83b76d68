package scenario

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/report"
)

// Recorder receives finished scenario results and failure artifacts
type Recorder interface {
	Record(res models.ScenarioResult)
	CaptureArtifact(shot report.Screenshotter, scenario string) (string, error)
}

// Runner executes scenarios in parallel, each in its own browser session
type Runner struct {
	Sessions browser.SessionFactory
	Config   *config.HarnessConfig
	Recorder Recorder
}

// Run executes every scenario, at most Config.Parallelism at a time, and
// returns once all results are recorded.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) error {
	var g errgroup.Group
	g.SetLimit(r.Config.Parallelism)

	for _, sc := range scenarios {
		g.Go(func() error {
			r.runOne(ctx, sc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, sc Scenario) {
	log.Printf("Starting scenario %s", sc.Name)
	started := time.Now()

	session, err := r.Sessions.NewSession(ctx)
	if err != nil {
		r.Recorder.Record(models.ScenarioResult{
			Name:      sc.Name,
			Outcome:   models.OutcomeFailed,
			Reason:    fmt.Sprintf("failed to open browser session: %v", err),
			StartedAt: started,
			Duration:  time.Since(started),
		})
		return
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("Failed to close session for %s: %v", sc.Name, err)
		}
	}()

	res := Execute(ctx, sc, session, r.Config)
	if res.Outcome == models.OutcomeFailed && r.Config.Screenshots {
		path, err := r.Recorder.CaptureArtifact(session.Page(), sc.Name)
		if err != nil {
			log.Printf("No artifact for %s: %v", sc.Name, err)
		} else {
			res.Artifact = path
		}
	}

	log.Printf("Finished scenario %s: %s in %s", sc.Name, res.Outcome, res.Duration.Round(time.Millisecond))
	r.Recorder.Record(res)
}

// Select returns the scenarios whose names match pattern. A nil pattern selects all.
func Select(scenarios []Scenario, pattern *regexp.Regexp) []Scenario {
	if pattern == nil {
		return scenarios
	}
	var selected []Scenario
	for _, sc := range scenarios {
		if pattern.MatchString(sc.Name) {
			selected = append(selected, sc)
		}
	}
	return selected
}
