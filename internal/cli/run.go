package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/report"
	"github.com/adyen/storefront-e2e/internal/scenario"
	"github.com/adyen/storefront-e2e/internal/storefront"
)

// ErrScenariosFailed is returned when at least one scenario failed
var ErrScenariosFailed = errors.New("scenarios failed")

// ErrNoScenarios is returned when the filter selects nothing
var ErrNoScenarios = errors.New("no scenario matches the filter")

// selectScenarios returns the storefront suite narrowed by filter, a regular expression
func selectScenarios(cfg *config.HarnessConfig, filter string) ([]scenario.Scenario, error) {
	var pattern *regexp.Regexp
	if filter != "" {
		var err error
		if pattern, err = regexp.Compile(filter); err != nil {
			return nil, fmt.Errorf("invalid scenario filter: %w", err)
		}
	}

	selected := scenario.Select(storefront.Suite(cfg), pattern)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScenarios, filter)
	}
	return selected, nil
}

// RunScenarios runs the selected scenarios on sessions, writes the summary to
// out and results.json to the run directory
func RunScenarios(ctx context.Context, cfg *config.HarnessConfig, sessions browser.SessionFactory, filter string, out io.Writer) (models.Summary, error) {
	selected, err := selectScenarios(cfg, filter)
	if err != nil {
		return models.Summary{}, err
	}

	rep, err := report.New(cfg.ResultsDir)
	if err != nil {
		return models.Summary{}, err
	}
	log.Printf("Run %s: %d scenarios against %s (store %s)", rep.RunID(), len(selected), cfg.BaseURL, cfg.StoreID)

	runner := &scenario.Runner{Sessions: sessions, Config: cfg, Recorder: rep}
	runErr := runner.Run(ctx, selected)

	if err := rep.WriteSummary(out); err != nil {
		return rep.Summary(), fmt.Errorf("failed to write summary: %w", err)
	}
	path, err := rep.WriteJSON()
	if err != nil {
		return rep.Summary(), err
	}
	log.Printf("Results written to %s", path)

	if runErr != nil {
		return rep.Summary(), fmt.Errorf("run interrupted: %w", runErr)
	}
	return rep.Summary(), nil
}

// Run launches the configured browser and runs the storefront suite. It
// returns ErrScenariosFailed when the summary's exit indicator is non-zero.
func Run(ctx context.Context, cfg *config.HarnessConfig, filter string, out io.Writer) error {
	launcher, err := browser.Launch(browser.LaunchOptions{Browser: cfg.Browser, Headless: cfg.Headless})
	if err != nil {
		return err
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			log.Printf("Failed to stop browser: %v", err)
		}
	}()

	summary, err := RunScenarios(ctx, cfg, launcher, filter, out)
	if err != nil {
		return err
	}
	if summary.ExitCode() != 0 {
		return fmt.Errorf("%w: %d of %d", ErrScenariosFailed, summary.Failed, summary.Total)
	}
	return nil
}

// List writes the name and description of every selected scenario
func List(cfg *config.HarnessConfig, filter string, out io.Writer) error {
	selected, err := selectScenarios(cfg, filter)
	if err != nil {
		return err
	}
	for _, sc := range selected {
		if _, err := fmt.Fprintf(out, "%-46s %s\n", sc.Name, sc.Description); err != nil {
			return err
		}
	}
	return nil
}
