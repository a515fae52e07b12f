package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"workhub/internal/models"
	"workhub/internal/repositories"
	"workhub/internal/utils"
)

type Claims struct {
	UserID string `json:"user_id"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) bool
	Login(ctx context.Context, email, password string) (access, refresh string, user *models.User, err error)
	Refresh(ctx context.Context, refreshToken string) (access, newRefresh string, err error)
}

type authService struct {
	users      repositories.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, secret string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *authService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) issueAccess(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", nil, fmt.Errorf("invalid credentials")
		}
		return "", "", nil, err
	}
	if !s.CheckPassword(user.PasswordHash, password) {
		return "", "", nil, fmt.Errorf("invalid credentials")
	}

	access, err := s.issueAccess(user)
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := utils.NewRefreshToken(0)
	if err != nil {
		return "", "", nil, err
	}
	if err := s.users.UpdateRefresh(ctx, user.ID, refresh, time.Now().Add(s.refreshTTL)); err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", "", fmt.Errorf("invalid refresh token")
		}
		return "", "", err
	}
	if user.RefreshExpiresAt == nil || user.RefreshExpiresAt.Before(time.Now()) {
		_ = s.users.ClearRefresh(ctx, user.ID)
		return "", "", fmt.Errorf("refresh token expired")
	}

	access, err := s.issueAccess(user)
	if err != nil {
		return "", "", err
	}
	next, err := utils.NewRefreshToken(0)
	if err != nil {
		return "", "", err
	}
	if err := s.users.UpdateRefresh(ctx, user.ID, next, time.Now().Add(s.refreshTTL)); err != nil {
		return "", "", err
	}
	return access, next, nil
}
