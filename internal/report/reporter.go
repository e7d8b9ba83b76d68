// Package report aggregates scenario results for a run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adyen/storefront-e2e/internal/models"
)

// Screenshotter captures the current page to a file
type Screenshotter interface {
	Screenshot(path string) error
}

// Reporter collects results from concurrently running scenarios.
// Record may be called from any goroutine; results are order-independent.
type Reporter struct {
	runID string
	dir   string

	mu      sync.Mutex
	results []models.ScenarioResult
	// stems maps scenario names to their artifact file stem; taken holds every stem in use
	stems map[string]string
	taken map[string]bool
}

// New creates a reporter writing artifacts under resultsDir/<run id>
func New(resultsDir string) (*Reporter, error) {
	runID := uuid.NewString()
	dir := filepath.Join(resultsDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Reporter{
		runID: runID,
		dir:   dir,
		stems: make(map[string]string),
		taken: make(map[string]bool),
	}, nil
}

// RunID identifies this run
func (r *Reporter) RunID() string {
	return r.runID
}

// Dir is the directory artifacts and the JSON report are written to
func (r *Reporter) Dir() string {
	return r.dir
}

// Record appends a scenario result
func (r *Reporter) Record(res models.ScenarioResult) {
	res.DurationMS = res.Duration.Milliseconds()
	res.Steps = append([]models.StepResult(nil), res.Steps...)
	for i := range res.Steps {
		res.Steps[i].DurationMS = res.Steps[i].Duration.Milliseconds()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a scenario name into a file name stem
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// artifactStem names scenario's artifacts. The stem is stable for a scenario and
// never shared with another one in the same run, even when their slugs collide.
func (r *Reporter) artifactStem(scenario string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stem, ok := r.stems[scenario]; ok {
		return stem
	}
	base := Slug(scenario)
	if base == "" {
		base = "scenario-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(scenario)).String()[:8]
	}
	stem := base
	for i := 2; r.taken[stem]; i++ {
		stem = fmt.Sprintf("%s-%d", base, i)
	}
	r.stems[scenario] = stem
	r.taken[stem] = true
	return stem
}

// CaptureArtifact saves a full-page screenshot named after the scenario and returns its path
func (r *Reporter) CaptureArtifact(shot Screenshotter, scenario string) (string, error) {
	path := filepath.Join(r.dir, r.artifactStem(scenario)+".png")
	if err := shot.Screenshot(path); err != nil {
		return "", fmt.Errorf("failed to capture screenshot for %s: %w", scenario, err)
	}
	log.Printf("Saved screenshot for %s to %s", scenario, path)
	return path, nil
}

// Results returns a copy of the recorded results sorted by scenario name
func (r *Reporter) Results() []models.ScenarioResult {
	r.mu.Lock()
	results := append([]models.ScenarioResult(nil), r.results...)
	r.mu.Unlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}

// Summary counts the recorded outcomes
func (r *Reporter) Summary() models.Summary {
	var s models.Summary
	for _, res := range r.Results() {
		s.Add(res)
	}
	return s
}

var labels = map[models.Outcome]string{
	models.OutcomePassed:  "PASS",
	models.OutcomeFailed:  "FAIL",
	models.OutcomeSkipped: "SKIP",
}

// WriteSummary writes the human-readable run summary
func (r *Reporter) WriteSummary(w io.Writer) error {
	var b strings.Builder
	for _, res := range r.Results() {
		fmt.Fprintf(&b, "%s  %s (%s)\n", labels[res.Outcome], res.Name, res.Duration.Round(10*time.Millisecond))
		switch res.Outcome {
		case models.OutcomeFailed:
			if res.FailedStep != "" {
				fmt.Fprintf(&b, "      step %q: %s\n", res.FailedStep, res.Reason)
			} else {
				fmt.Fprintf(&b, "      %s\n", res.Reason)
			}
		case models.OutcomeSkipped:
			fmt.Fprintf(&b, "      %s\n", res.Reason)
		}
		for _, soft := range res.SoftFailures() {
			fmt.Fprintf(&b, "      soft failure in %q: %s\n", soft.Name, soft.Error)
		}
		if res.Artifact != "" {
			fmt.Fprintf(&b, "      artifact: %s\n", res.Artifact)
		}
	}

	s := r.Summary()
	fmt.Fprintf(&b, "\n%d scenarios: %d passed, %d failed, %d skipped", s.Total, s.Passed, s.Failed, s.Skipped)
	if s.SoftFailures > 0 {
		fmt.Fprintf(&b, " (%d soft failures)", s.SoftFailures)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

type jsonReport struct {
	RunID     string                  `json:"run_id"`
	Summary   models.Summary          `json:"summary"`
	Scenarios []models.ScenarioResult `json:"scenarios"`
}

// WriteJSON writes results.json into the run directory and returns its path
func (r *Reporter) WriteJSON() (string, error) {
	data, err := json.MarshalIndent(jsonReport{
		RunID:     r.runID,
		Summary:   r.Summary(),
		Scenarios: r.Results(),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}

	path := filepath.Join(r.dir, "results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}
