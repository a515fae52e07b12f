package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhub/internal/authz"
	"workhub/internal/models"
	"workhub/internal/workflow"
)

type fakeEmailService struct {
	welcomed []string
	err      error
}

func (f *fakeEmailService) SendWelcomeEmail(email, name string) error {
	if f.err != nil {
		return f.err
	}
	f.welcomed = append(f.welcomed, email)
	return nil
}

func (f *fakeEmailService) SendModuleRejectedEmail(email, moduleTitle, reason string) error {
	return nil
}

func newUserFixture() (UserService, *fakeUserRepo, *fakeEmailService, AuthService) {
	userRepo := newFakeUserRepo()
	email := &fakeEmailService{}
	auth := NewAuthService(userRepo, "test-secret", 15*time.Minute, 24*time.Hour)
	return NewUserService(userRepo, auth, email), userRepo, email, auth
}

func TestOnboardValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newUserFixture()

	_, err := svc.Onboard(ctx, "", "a@b.c", "pw", authz.RoleEmployee, "eng")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = svc.Onboard(ctx, "Alice", "a@b.c", "  ", authz.RoleEmployee, "eng")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = svc.Onboard(ctx, "Alice", "a@b.c", "pw", authz.RoleAdmin, "eng")
	assert.ErrorIs(t, err, workflow.ErrValidation, "admins are provisioned out of band")

	_, err = svc.Onboard(ctx, "Alice", "a@b.c", "pw", authz.RoleCEO, "eng")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = svc.Onboard(ctx, "Alice", "a@b.c", "pw", authz.RoleEmployee, "")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestOnboardCreatesUser(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, email, auth := newUserFixture()

	user, err := svc.Onboard(ctx, "Alice", "alice@corp.io", "s3cret", authz.RoleLead, "eng")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, authz.RoleLead, user.RoleID)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "s3cret"))

	stored, err := userRepo.GetByEmail(ctx, "alice@corp.io")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
	assert.Equal(t, []string{"alice@corp.io"}, email.welcomed)
}

func TestOnboardSurvivesEmailFailure(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, email, _ := newUserFixture()
	email.err = errors.New("smtp down")

	user, err := svc.Onboard(ctx, "Bob", "bob@corp.io", "pw", authz.RoleEmployee, "sales")
	require.NoError(t, err, "a broken mailer must not block onboarding")
	_, err = userRepo.GetByID(ctx, user.ID)
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _, auth := newUserFixture()

	_, err := svc.Onboard(ctx, "Alice", "alice@corp.io", "s3cret", authz.RoleEmployee, "eng")
	require.NoError(t, err)

	access, refresh, user, err := auth.Login(ctx, "alice@corp.io", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, "alice@corp.io", user.Email)

	_, _, _, err = auth.Login(ctx, "alice@corp.io", "wrong")
	assert.Error(t, err)
	_, _, _, err = auth.Login(ctx, "ghost@corp.io", "s3cret")
	assert.Error(t, err)
}

func TestListClampsLimit(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _, _ := newUserFixture()
	require.NoError(t, userRepo.Create(ctx, &models.User{ID: "u1"}))

	users, err := svc.List(ctx, -5, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
