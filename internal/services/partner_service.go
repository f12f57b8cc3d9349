package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"
)

// PartnerService owns partner profiles and the partner dashboard.
type PartnerService struct {
	DB *sql.DB
}

type PartnerProfileInput struct {
	Name         string `json:"name" binding:"required,max=200"`
	PartnerType  string `json:"partner_type" binding:"omitempty,oneof=hotel flight both"`
	Description  string `json:"description"`
	Website      string `json:"website" binding:"omitempty,url"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=20"`
}

func (s PartnerService) db() *sql.DB { return pickDB(s.DB) }

// ensurePartner returns the caller's partner profile, creating it from the
// user's account on first use.
func ensurePartner(ctx context.Context, db *sql.DB, rc domain.RequestContext) (models.Partner, error) {
	partners := repositories.PartnerRepository{DB: db}
	p, err := partners.GetByUserID(ctx, int64(rc.UserID))
	if err == nil {
		return p, nil
	}
	if err := notFoundOr(err, "partner"); !domain.IsNotFound(err) {
		return models.Partner{}, err
	}

	u, err := repositories.UserRepository{DB: db}.GetByID(ctx, int64(rc.UserID))
	if err != nil {
		return models.Partner{}, notFoundOr(err, "user")
	}
	p = models.Partner{
		UserID:       u.ID,
		Name:         u.Username,
		PartnerType:  "both",
		ContactEmail: u.Email,
	}
	id, err := partners.Create(ctx, p)
	if err != nil {
		return models.Partner{}, fmt.Errorf("create partner: %w", err)
	}
	utils.LogEvent(rc.RequestID, "partner", "create_profile", fmt.Sprintf("partner_id=%d user_id=%d", id, u.ID))
	return partners.GetByID(ctx, id)
}

func (s PartnerService) Profile(ctx context.Context, rc domain.RequestContext) (models.Partner, error) {
	if err := domain.RequireRole(rc, "view partner profile", domain.RolePartner); err != nil {
		return models.Partner{}, err
	}
	p, err := ensurePartner(ctx, s.db(), rc)
	if err != nil {
		return models.Partner{}, asDomainError(err)
	}
	return p, nil
}

func (s PartnerService) UpdateProfile(ctx context.Context, rc domain.RequestContext, in PartnerProfileInput) (models.Partner, error) {
	p, err := s.Profile(ctx, rc)
	if err != nil {
		return models.Partner{}, err
	}
	p.Name = utils.NormalizeSpace(in.Name)
	if p.Name == "" {
		return models.Partner{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if t := strings.TrimSpace(in.PartnerType); t != "" {
		p.PartnerType = t
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Website = strings.TrimSpace(in.Website)
	p.ContactEmail = strings.TrimSpace(in.ContactEmail)
	p.ContactPhone = strings.TrimSpace(in.ContactPhone)

	if err := (repositories.PartnerRepository{DB: s.db()}).Update(ctx, p); err != nil {
		return models.Partner{}, asDomainError(err)
	}
	utils.LogEvent(rc.RequestID, "partner", "update_profile", fmt.Sprintf("partner_id=%d", p.ID))
	return p, nil
}

// Dashboard lists the partner's hotels and flights with booking counts.
func (s PartnerService) Dashboard(ctx context.Context, rc domain.RequestContext) (models.PartnerDashboard, error) {
	p, err := s.Profile(ctx, rc)
	if err != nil {
		return models.PartnerDashboard{}, err
	}
	hotels, err := repositories.HotelRepository{DB: s.db()}.ListByPartner(ctx, p.ID)
	if err != nil {
		return models.PartnerDashboard{}, asDomainError(err)
	}
	flights, err := repositories.FlightRepository{DB: s.db()}.ListByPartner(ctx, p.ID)
	if err != nil {
		return models.PartnerDashboard{}, asDomainError(err)
	}
	hotelBookings, flightBookings, err := repositories.ReportRepository{DB: s.db()}.PartnerBookingCounts(ctx, p.ID)
	if err != nil {
		return models.PartnerDashboard{}, asDomainError(err)
	}
	return models.PartnerDashboard{
		Partner:        p,
		Hotels:         hotels,
		Flights:        flights,
		HotelBookings:  hotelBookings,
		FlightBookings: flightBookings,
	}, nil
}

// Verify sets the verified flag of a partner. Admin only.
func (s PartnerService) Verify(ctx context.Context, rc domain.RequestContext, partnerID int64, verified bool) (models.Partner, error) {
	if err := domain.RequireRole(rc, "verify partners", domain.RoleAdmin); err != nil {
		return models.Partner{}, err
	}
	partners := repositories.PartnerRepository{DB: s.db()}
	p, err := partners.GetByID(ctx, partnerID)
	if err != nil {
		return models.Partner{}, asDomainError(notFoundOr(err, "partner"))
	}
	// RowsAffected is 0 when the flag already had this value, so existence
	// comes from the read above.
	if err := partners.SetVerified(ctx, partnerID, verified); err != nil {
		return models.Partner{}, asDomainError(err)
	}
	p.IsVerified = verified
	utils.LogEvent(rc.RequestID, "partner", "verify", fmt.Sprintf("partner_id=%d verified=%t", partnerID, verified))
	return p, nil
}
