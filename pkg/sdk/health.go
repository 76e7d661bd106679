package vocabdex

import (
	"context"
	"slices"

	healthuc "github.com/kailas-cloud/vocabdex/internal/usecase/health"
)

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the aggregated health of the client's backends.
type HealthStatus struct {
	Status string            // ok, degraded or error
	Checks map[string]string // "database" and "index"
}

// Healthy reports whether every backend answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failing returns the components whose probe failed, sorted by name.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, res := range h.Checks {
		if res != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Health pings the record store and the search index.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}
	return h
}
