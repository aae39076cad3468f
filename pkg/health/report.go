package health

import (
	"encoding/json"
	"time"
)

// CheckResult is the result of a single named check.
type CheckResult struct {
	Name     string
	Result   Result
	Duration time.Duration
}

type checkResultJSON struct {
	Name       string  `json:"name" yaml:"name"`
	Status     Status  `json:"status" yaml:"status"`
	Message    string  `json:"message" yaml:"message"`
	Cause      string  `json:"cause,omitempty" yaml:"cause,omitempty"`
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
}

func (c CheckResult) toJSON() checkResultJSON {
	r := c.Result.toJSON()
	return checkResultJSON{
		Name:       c.Name,
		Status:     r.Status,
		Message:    r.Message,
		Cause:      r.Cause,
		DurationMs: float64(c.Duration) / float64(time.Millisecond),
	}
}

func (c CheckResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toJSON())
}

func (c CheckResult) MarshalYAML() (any, error) {
	return c.toJSON(), nil
}

// Report is the aggregated outcome of one evaluation of a Registry.
type Report struct {
	ID        string        `json:"id" yaml:"id"`
	Status    Status        `json:"status" yaml:"status"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Duration  time.Duration `json:"-" yaml:"-"`
	// Checks are ordered by registration.
	Checks []CheckResult `json:"checks" yaml:"checks"`
}

// NewReport folds results into a Report. The report is healthy if and only
// if every result is healthy; an empty set of results is healthy.
func NewReport(id string, results []CheckResult, started time.Time) Report {
	overall := StatusHealthy
	for _, res := range results {
		if !res.Result.IsHealthy() {
			overall = StatusUnhealthy
			break
		}
	}

	return Report{
		ID:        id,
		Status:    overall,
		Timestamp: started,
		Duration:  time.Since(started),
		Checks:    results,
	}
}

// IsHealthy reports whether every check in the report is healthy.
func (r Report) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Get returns the result of the named check.
func (r Report) Get(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Results returns the per-check results keyed by name.
func (r Report) Results() map[string]Result {
	out := make(map[string]Result, len(r.Checks))
	for _, c := range r.Checks {
		out[c.Name] = c.Result
	}
	return out
}

// Failed returns the unhealthy checks in registration order.
func (r Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Result.IsHealthy() {
			out = append(out, c)
		}
	}
	return out
}
