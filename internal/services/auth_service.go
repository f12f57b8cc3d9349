package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbooking/internal/auth"
	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/repositories"
	"travelbooking/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a
// wrong password.
var ErrInvalidCredentials = errors.New("invalid email/username or password")

type AuthService struct {
	DB        *sql.DB
	JWTSecret []byte
	TokenTTL  time.Duration
	Now       func() time.Time
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"max=20"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer partner"`
}

type LoginInput struct {
	Login    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      models.PublicUser `json:"user"`
}

func (s AuthService) db() *sql.DB { return pickDB(s.DB) }

func (s AuthService) ttl() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return 24 * time.Hour
}

// Register creates a customer or partner account. Admin accounts are never
// self-registered.
func (s AuthService) Register(ctx context.Context, requestID string, in RegisterInput) (models.PublicUser, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RolePartner {
		return models.PublicUser{}, domain.ValidationError{Field: "role", Msg: "must be customer or partner"}
	}
	u := models.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
	}
	if u.Username == "" || u.Email == "" {
		return models.PublicUser{}, domain.ValidationError{Field: "username", Msg: "username and email are required"}
	}
	if len(in.Password) < 8 {
		return models.PublicUser{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	users := repositories.UserRepository{DB: s.db()}
	n, err := users.CountByEmailOrUsername(ctx, u.Email, u.Username)
	if err != nil {
		return models.PublicUser{}, asDomainError(err)
	}
	if n > 0 {
		return models.PublicUser{}, domain.ConflictError{Resource: "user", Msg: "email or username already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u.PasswordHash = string(hash)

	id, err := users.Create(ctx, u)
	if err != nil {
		return models.PublicUser{}, asDomainError(err)
	}
	u.ID = id
	utils.LogEvent(requestID, "auth", "register", fmt.Sprintf("user_id=%d role=%s", id, role))
	return u.ToPublic(), nil
}

func (s AuthService) Login(ctx context.Context, requestID string, in LoginInput) (LoginResult, error) {
	login := strings.TrimSpace(in.Login)
	u, err := repositories.UserRepository{DB: s.db()}.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, asDomainError(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	now := pickNow(s.Now)
	token, err := auth.Issue(s.JWTSecret, u.ID, u.Role, s.ttl(), now)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to create token", Err: err}
	}
	utils.LogEvent(requestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return LoginResult{Token: token, ExpiresAt: now.Add(s.ttl()), User: u.ToPublic()}, nil
}
