package usecase

import (
	"context"
	"errors"
	"time"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/redis"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	db          Pinger
	redisHealth func(ctx context.Context) error
}

// NewHealthUsecase reports the database and Redis. The service is healthy
// when the database answers; Redis only degrades rate limiting.
func NewHealthUsecase(db Pinger) domain.HealthUsecase {
	return &healthUsecase{db: db, redisHealth: redis.HealthCheck}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
	healthy := true

	if err := u.db.Ping(ctx); err != nil {
		status["database"] = "down"
		status["status"] = "degraded"
		healthy = false
	}

	if err := u.redisHealth(ctx); err != nil {
		if errors.Is(err, redis.ErrNotInitialized) {
			status["redis"] = "disabled"
		} else {
			status["redis"] = "down"
		}
	}
	return status, healthy
}
