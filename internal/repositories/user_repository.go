package repositories

import (
	"context"

	intdb "travelbooking/internal/db"
	"travelbooking/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

func (r UserRepository) db() intdb.DBTX { return pick(r.DB) }

// GetByLogin finds a user by email or username.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
		SELECT id, username, email, COALESCE(phone,''), password_hash, role, created_at, updated_at
		FROM users
		WHERE email = ? OR username = ?
		LIMIT 1`, login, login).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRowContext(ctx, `
		SELECT id, username, email, COALESCE(phone,''), password_hash, role, created_at, updated_at
		FROM users
		WHERE id = ?
		LIMIT 1`, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r UserRepository) CountByEmailOrUsername(ctx context.Context, email, username string) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username).Scan(&n)
	return n, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (username, email, phone, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		u.Username, u.Email, intdb.NullIfEmpty(u.Phone), u.PasswordHash, u.Role,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
