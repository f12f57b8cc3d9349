package services

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	intconfig "travelbooking/internal/config"
	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain"
	"travelbooking/internal/metrics"
	"travelbooking/internal/repositories"
)

var nopMetrics = sync.OnceValue(metrics.NewNop)

func pickDB(db *sql.DB) *sql.DB {
	if db != nil {
		return db
	}
	return intconfig.DB
}

func pickMetrics(m *metrics.Metrics) *metrics.Metrics {
	if m != nil {
		return m
	}
	return nopMetrics()
}

func pickNow(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

// asDomainError keeps typed domain errors and wraps everything else so
// handlers never leak raw driver errors.
func asDomainError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case domain.IsValidation(err), domain.IsNotFound(err), domain.IsConflict(err),
		domain.IsInvalidState(err), domain.IsAuthorization(err), domain.IsInternal(err):
		return err
	case errors.Is(err, repositories.ErrInsufficientInventory):
		return domain.ValidationError{Msg: "not enough inventory available", Err: err}
	case intdb.IsDuplicateKey(err):
		return domain.ConflictError{Msg: "record already exists", Err: err}
	}
	return domain.InternalError{Err: err}
}

// notFoundOr turns sql.ErrNoRows into a NotFoundError for resource.
func notFoundOr(err error, resource string) error {
	if intdb.IsNoRows(err) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}
