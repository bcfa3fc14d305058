package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mess-mate/internal/model"
	"mess-mate/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// RoleForEmail derives the coarse role from the account email: any
// address containing "admin" is an administrator. This is a carried-over
// simplification, not a security boundary.
func RoleForEmail(email string) string {
	if strings.Contains(email, "admin") {
		return model.RoleAdmin
	}
	return model.RoleStudent
}

type AuthService struct{ users store.Collection }

func NewAuthService(st store.Store) *AuthService {
	return &AuthService{users: st.Collection(model.CollUsers)}
}

func (s *AuthService) Signup(ctx context.Context, email, password string) (model.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return model.Principal{}, ErrPasswordTooShort
	}

	existing, err := s.users.Find(ctx, "email", email)
	if err != nil {
		return model.Principal{}, fmt.Errorf("lookup user: %w", err)
	}
	if len(existing) > 0 {
		return model.Principal{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Principal{}, fmt.Errorf("hash password: %w", err)
	}

	doc, err := store.Encode(model.User{
		Email:     email,
		Password:  string(hash),
		CreatedAt: now(),
	})
	if err != nil {
		return model.Principal{}, err
	}
	id, err := s.users.Create(ctx, doc)
	if err != nil {
		return model.Principal{}, fmt.Errorf("create user: %w", err)
	}

	return model.Principal{ID: id, Email: email, Role: RoleForEmail(email)}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (model.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	recs, err := s.users.Find(ctx, "email", email)
	if err != nil {
		return model.Principal{}, fmt.Errorf("lookup user: %w", err)
	}
	if len(recs) == 0 {
		return model.Principal{}, ErrInvalidCredentials
	}

	var u model.User
	if err := store.Decode(recs[0].Doc, &u); err != nil {
		return model.Principal{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return model.Principal{}, ErrInvalidCredentials
	}

	return model.Principal{ID: recs[0].ID, Email: email, Role: RoleForEmail(email)}, nil
}

// now returns the storage timestamp format: fixed-width millisecond
// UTC, so createdAt ordering is plain string ordering.
func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
