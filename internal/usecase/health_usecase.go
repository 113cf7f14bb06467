package usecase

import (
	"context"
	"strconv"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// SessionCounter reports how many form sessions are open
type SessionCounter interface {
	Count() int
}

// HealthCheckFunc checks an optional dependency; nil means healthy
type HealthCheckFunc func(ctx context.Context) error

type healthUsecase struct {
	sessions SessionCounter
	redis    HealthCheckFunc
}

func NewHealthUsecase(sessions SessionCounter, redis HealthCheckFunc) HealthUsecase {
	return &healthUsecase{
		sessions: sessions,
		redis:    redis,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
	}
	if u.sessions != nil {
		status["form_sessions"] = strconv.Itoa(u.sessions.Count())
	}
	if u.redis != nil {
		if err := u.redis(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
