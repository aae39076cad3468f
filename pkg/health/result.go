package health

import (
	"encoding/json"
	"fmt"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of a single health check.
type Result struct {
	Status  Status
	Message string
	// Cause is set only for unhealthy results produced by an error.
	Cause error
}

// Healthy creates a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message}
}

// Unhealthy creates an unhealthy result. cause may be nil when the failure
// is a threshold violation or missing data rather than an error.
func Unhealthy(message string, cause error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Cause: cause}
}

// IsHealthy reports whether the result is healthy.
func (r Result) IsHealthy() bool {
	return r.Status == StatusHealthy
}

func (r Result) String() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", r.Status, r.Message, r.Cause)
	}
	return fmt.Sprintf("%s: %s", r.Status, r.Message)
}

type resultJSON struct {
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
	Cause   string `json:"cause,omitempty" yaml:"cause,omitempty"`
}

func (r Result) toJSON() resultJSON {
	out := resultJSON{Status: r.Status, Message: r.Message}
	if r.Cause != nil {
		out.Cause = r.Cause.Error()
	}
	return out
}

// MarshalJSON renders the cause as its error string.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// MarshalYAML renders the cause as its error string.
func (r Result) MarshalYAML() (any, error) {
	return r.toJSON(), nil
}
