package repositories

import (
	"context"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

type PartnerRepository struct {
	DB intdb.DBTX
}

func (r PartnerRepository) db() intdb.DBTX { return pick(r.DB) }

const partnerSelect = `
	SELECT id, user_id, name, partner_type, COALESCE(description,''), COALESCE(website,''),
	       COALESCE(contact_email,''), COALESCE(contact_phone,''), is_verified, created_at, updated_at
	FROM partners`

func scanPartner(s rowScanner) (models.Partner, error) {
	var p models.Partner
	err := s.Scan(&p.ID, &p.UserID, &p.Name, &p.PartnerType, &p.Description, &p.Website,
		&p.ContactEmail, &p.ContactPhone, &p.IsVerified, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r PartnerRepository) GetByUserID(ctx context.Context, userID int64) (models.Partner, error) {
	return scanPartner(r.db().QueryRowContext(ctx, partnerSelect+` WHERE user_id = ? LIMIT 1`, userID))
}

func (r PartnerRepository) GetByID(ctx context.Context, id int64) (models.Partner, error) {
	return scanPartner(r.db().QueryRowContext(ctx, partnerSelect+` WHERE id = ? LIMIT 1`, id))
}

func (r PartnerRepository) Create(ctx context.Context, p models.Partner) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO partners (user_id, name, partner_type, description, website, contact_email,
		                      contact_phone, is_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())`,
		p.UserID, p.Name, p.PartnerType, intdb.NullIfEmpty(p.Description), intdb.NullIfEmpty(p.Website),
		intdb.NullIfEmpty(p.ContactEmail), intdb.NullIfEmpty(p.ContactPhone),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PartnerRepository) Update(ctx context.Context, p models.Partner) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE partners
		SET name=?, partner_type=?, description=?, website=?, contact_email=?, contact_phone=?, updated_at=NOW()
		WHERE id=?`,
		p.Name, p.PartnerType, intdb.NullIfEmpty(p.Description), intdb.NullIfEmpty(p.Website),
		intdb.NullIfEmpty(p.ContactEmail), intdb.NullIfEmpty(p.ContactPhone), p.ID,
	)
	return err
}

func (r PartnerRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.db().ExecContext(ctx, `UPDATE partners SET is_verified=?, updated_at=NOW() WHERE id=?`,
		boolToInt(verified), id)
	return err
}
