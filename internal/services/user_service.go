package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"workhub/internal/authz"
	"workhub/internal/logger"
	"workhub/internal/models"
	"workhub/internal/repositories"
	"workhub/internal/workflow"
)

type UserService interface {
	Onboard(ctx context.Context, name, email, plainPassword string, roleID int, department string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Leaderboard(ctx context.Context, department string) ([]*models.User, error)
}

type userService struct {
	repo  repositories.UserRepository
	auth  AuthService
	email EmailService
}

func NewUserService(repo repositories.UserRepository, auth AuthService, email EmailService) UserService {
	return &userService{repo: repo, auth: auth, email: email}
}

// Onboard creates a user profile with a hashed password. Only contributor
// and lead tiers can be onboarded this way; executives and admins are
// provisioned out of band.
func (s *userService) Onboard(ctx context.Context, name, email, plainPassword string, roleID int, department string) (*models.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", workflow.ErrValidation)
	}
	if strings.TrimSpace(plainPassword) == "" {
		return nil, fmt.Errorf("%w: password is required", workflow.ErrValidation)
	}
	if !authz.OnboardableRoles[roleID] {
		return nil, fmt.Errorf("%w: role %d cannot be onboarded", workflow.ErrValidation, roleID)
	}
	if strings.TrimSpace(department) == "" {
		return nil, fmt.Errorf("%w: department is required", workflow.ErrValidation)
	}

	hash, err := s.auth.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		RoleID:         roleID,
		Department:     department,
		NotifyTelegram: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// warn but do not fail creation
			logger.Warnf("[user][onboard] welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *userService) Leaderboard(ctx context.Context, department string) ([]*models.User, error) {
	return s.repo.Leaderboard(ctx, department)
}
