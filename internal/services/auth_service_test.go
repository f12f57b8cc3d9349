package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"travelbooking/internal/auth"
	"travelbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "username", "email", "phone", "password_hash", "role", "created_at", "updated_at"}

func TestLoginIssuesToken(t *testing.T) {
	db, mock := newMock(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	mock.ExpectQuery("FROM users\\s+WHERE email = \\? OR username = \\?").WithArgs("ada", "ada").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "ada", "ada@example.com", "", string(hash), "customer", fixedNow, fixedNow))

	secret := []byte("svc-secret")
	svc := AuthService{DB: db, JWTSecret: secret, TokenTTL: time.Hour, Now: time.Now}
	res, err := svc.Login(context.Background(), "test", LoginInput{Login: " ada ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := auth.Parse(secret, res.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != 5 || claims.Role != domain.RoleCustomer {
		t.Fatalf("claims = %+v", claims)
	}
	if res.User.Email != "ada@example.com" {
		t.Fatalf("user = %+v", res.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMock(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "ada", "ada@example.com", "", string(hash), "customer", fixedNow, fixedNow))
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userCols))

	svc := AuthService{DB: db, JWTSecret: []byte("x")}
	if _, err := svc.Login(context.Background(), "", LoginInput{Login: "ada", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", LoginInput{Login: "ghost", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should look the same, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE").WithArgs("ada@example.com", "ada").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	svc := AuthService{DB: db}
	_, err := svc.Register(context.Background(), "", RegisterInput{
		Username: "ada", Email: "ADA@example.com", Password: "long-enough",
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterCreatesCustomer(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(8, 1))

	svc := AuthService{DB: db}
	u, err := svc.Register(context.Background(), "", RegisterInput{
		Username: "grace", Email: "grace@example.com", Password: "long-enough",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != 8 || u.Role != domain.RoleCustomer {
		t.Fatalf("user = %+v", u)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := AuthService{}
	_, err := svc.Register(context.Background(), "", RegisterInput{
		Username: "eve", Email: "eve@example.com", Password: "long-enough", Role: "admin",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
