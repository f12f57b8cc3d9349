package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"
)

// CompletionService closes out confirmed bookings whose stay or flight is
// over.
type CompletionService struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// CompleteFinished returns how many bookings moved to completed.
func (s CompletionService) CompleteFinished(ctx context.Context) (int64, error) {
	n, err := repositories.BookingRepository{DB: pickDB(s.DB)}.CompleteFinished(ctx, pickNow(s.Now))
	if err != nil {
		return n, asDomainError(err)
	}
	if n > 0 {
		pickMetrics(s.Metrics).BookingsCompleted.Add(float64(n))
		utils.LogEvent("", "booking", "complete", fmt.Sprintf("completed=%d", n))
	}
	return n, nil
}
