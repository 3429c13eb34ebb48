package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckCatalogStore = "catalog_store"
	CheckPlatform     = "platform"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store    StorePinger
	platform PlatformChecker
	timeout  time.Duration
}

// New creates a Service. Either checker can be nil: store is nil for in-process
// catalog sources, platform is nil when no bot token is configured.
func New(store StorePinger, platform PlatformChecker, timeout time.Duration) *Service {
	return &Service{store: store, platform: platform, timeout: timeout}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	checks := make(map[string]CheckResult)

	if s.store != nil {
		checks[CheckCatalogStore] = result(s.store.Ping(ctx))
	}
	if s.platform != nil {
		checks[CheckPlatform] = result(s.platform.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
