package scheduler

import (
	"context"
	"time"

	"travelbooking/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// Completer is the booking completion job.
type Completer interface {
	CompleteFinished(ctx context.Context) (int64, error)
}

// Scheduler runs background jobs on a gocron scheduler.
type Scheduler struct {
	s gocron.Scheduler
}

func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{s: s}, nil
}

// AddCompletionJob runs c every interval, skipping a run while the
// previous one is still going.
func (sc *Scheduler) AddCompletionJob(c Completer, interval, timeout time.Duration) (string, error) {
	j, err := sc.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if _, err := c.CompleteFinished(ctx); err != nil {
				logger.L().Error("booking completion job failed", "error", err)
			}
		}),
		gocron.WithName("booking-completion"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return "", err
	}
	logger.L().Info("scheduled job", "name", j.Name(), "id", j.ID().String(), "interval", interval.String())
	return j.ID().String(), nil
}

func (sc *Scheduler) Start() { sc.s.Start() }

func (sc *Scheduler) Shutdown() error { return sc.s.Shutdown() }
