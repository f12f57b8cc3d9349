package services

import (
	"context"
	"database/sql"
	"time"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"
)

const (
	topHotelsLimit     = 10
	topCustomersLimit  = 20
	recentPaymentLimit = 10
)

// ReportsService exposes the admin reporting queries.
type ReportsService struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s ReportsService) repo() repositories.ReportRepository {
	return repositories.ReportRepository{DB: pickDB(s.DB)}
}

// RevenueByMonth defaults to the current year when year is 0.
func (s ReportsService) RevenueByMonth(ctx context.Context, rc domain.RequestContext, year int) ([]models.MonthlyRevenue, error) {
	if err := domain.CanViewStatistics(rc); err != nil {
		return nil, err
	}
	if year == 0 {
		year = pickNow(s.Now).Year()
	}
	if year < 2000 || year > 9999 {
		return nil, domain.ValidationError{Field: "year", Msg: "out of range"}
	}
	out, err := s.repo().RevenueByMonth(ctx, year)
	return out, asDomainError(err)
}

func (s ReportsService) TopHotels(ctx context.Context, rc domain.RequestContext) ([]models.HotelRevenue, error) {
	if err := domain.CanViewStatistics(rc); err != nil {
		return nil, err
	}
	out, err := s.repo().TopHotels(ctx, topHotelsLimit)
	return out, asDomainError(err)
}

func (s ReportsService) CustomerAnalytics(ctx context.Context, rc domain.RequestContext) ([]models.CustomerAnalytics, error) {
	if err := domain.CanViewStatistics(rc); err != nil {
		return nil, err
	}
	out, err := s.repo().CustomerAnalytics(ctx, topCustomersLimit)
	return out, asDomainError(err)
}

func (s ReportsService) AdminDashboard(ctx context.Context, rc domain.RequestContext) (models.AdminDashboard, error) {
	if err := domain.CanViewStatistics(rc); err != nil {
		return models.AdminDashboard{}, err
	}
	out, err := s.repo().AdminDashboard(ctx)
	return out, asDomainError(err)
}

// PaymentStatistics summarises payments created in the last days days
// (default 30).
func (s ReportsService) PaymentStatistics(ctx context.Context, rc domain.RequestContext, days int) (models.PaymentStatistics, error) {
	if err := domain.CanViewStatistics(rc); err != nil {
		return models.PaymentStatistics{}, err
	}
	if days == 0 {
		days = 30
	}
	if days < 1 || days > 3650 {
		return models.PaymentStatistics{}, domain.ValidationError{Field: "days", Msg: "must be between 1 and 3650"}
	}
	since := pickNow(s.Now).AddDate(0, 0, -days)

	repo := s.repo()
	st, err := repo.PaymentTotals(ctx, since)
	if err != nil {
		return models.PaymentStatistics{}, asDomainError(err)
	}
	st.Days = days
	if st.PaymentCount > 0 {
		st.SuccessRate = float64(st.CompletedCount) / float64(st.PaymentCount) * 100
	}
	if st.ByMethod, err = repo.PaymentBreakdown(ctx, since, "payment_method"); err != nil {
		return models.PaymentStatistics{}, asDomainError(err)
	}
	if st.ByStatus, err = repo.PaymentBreakdown(ctx, since, "status"); err != nil {
		return models.PaymentStatistics{}, asDomainError(err)
	}
	if st.Recent, err = (repositories.PaymentRepository{DB: pickDB(s.DB)}).Recent(ctx, recentPaymentLimit); err != nil {
		return models.PaymentStatistics{}, asDomainError(err)
	}
	return st, nil
}
