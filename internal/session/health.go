package session

import (
	"context"

	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/service"
)

// HealthChecker is the part of the service client used by the startup probe
type HealthChecker interface {
	Health(ctx context.Context) (*service.HealthResponse, error)
}

// HealthReport is the observation made by Probe
type HealthReport struct {
	Reachable    bool
	ModelsLoaded bool
	Err          error
}

// Note returns a one-line diagnostic, empty when the service is ready
func (r HealthReport) Note() string {
	switch {
	case !r.Reachable:
		return "classification service unreachable"
	case !r.ModelsLoaded:
		return "models not loaded on server"
	default:
		return ""
	}
}

// Probe checks service health. It never fails: problems are logged and
// reported, and callers must not gate any interaction on the result.
func Probe(ctx context.Context, hc HealthChecker, log *logger.Logger) HealthReport {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("health")

	resp, err := hc.Health(ctx)
	if err != nil {
		log.WarnWithFields("server health check failed", []logger.Field{logger.Error(err)})
		return HealthReport{Err: err}
	}

	report := HealthReport{Reachable: true, ModelsLoaded: resp.ModelsLoaded}
	if !resp.ModelsLoaded {
		log.Warn("models not loaded on server")
	} else {
		log.Debug("service healthy (status=%s)", resp.Status)
	}
	return report
}
