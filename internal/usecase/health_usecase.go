package usecase

import (
	"context"
	"time"
)

// HealthProbe checks one dependency.
type HealthProbe func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	storeDriver string
	degraded    bool
	probes      map[string]HealthProbe
}

// NewHealthUsecase reports the selected store and runs the probes on each check.
// degraded marks a memory store chosen because the database was unreachable.
func NewHealthUsecase(storeDriver string, degraded bool, probes map[string]HealthProbe) HealthUsecase {
	return &healthUsecase{storeDriver: storeDriver, degraded: degraded, probes: probes}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"store":  u.storeDriver,
	}
	if u.degraded {
		status["status"] = "degraded"
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	for name, probe := range u.probes {
		if err := probe(ctx); err != nil {
			status[name] = "unavailable"
			status["status"] = "degraded"
			continue
		}
		status[name] = "ok"
	}
	return status
}
