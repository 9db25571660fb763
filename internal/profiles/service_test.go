package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/pagination"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  active INTEGER NOT NULL DEFAULT 1,
  password_hash TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM profiles")
	})
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, fullName, email, password string, createdAt time.Time) *models.Profile {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)

	profile := &models.Profile{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		Role:         enums.UserRoleCustomer,
		Active:       true,
		PasswordHash: hash,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func newProfileTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repository: NewRepository(db),
		Password:   config.PasswordConfig{},
		Auth:       config.AuthConfig{MinPasswordLength: 6},
	})
	require.NoError(t, err)
	return svc
}

func TestChangePasswordRotatesHash(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	profile := seedProfile(t, db, "Asha Rao", "asha@example.com", "old-password", time.Now())

	err := svc.ChangePassword(context.Background(), profile.ID, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	var stored models.Profile
	require.NoError(t, db.First(&stored, "id = ?", profile.ID).Error)

	ok, err := security.VerifyPassword("brand-new-password", stored.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok, "new password should verify")

	ok, err = security.VerifyPassword("old-password", stored.PasswordHash)
	require.NoError(t, err)
	require.False(t, ok, "old password should no longer verify")
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	profile := seedProfile(t, db, "Asha Rao", "asha@example.com", "old-password", time.Now())

	err := svc.ChangePassword(context.Background(), profile.ID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "brand-new-password",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestChangePasswordEnforcesMinimumLength(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	profile := seedProfile(t, db, "Asha Rao", "asha@example.com", "old-password", time.Now())

	err := svc.ChangePassword(context.Background(), profile.ID, ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "abc",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestAdminListFiltersBySearch(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	base := time.Now().Add(-time.Hour)
	seedProfile(t, db, "Asha Rao", "asha@example.com", "password-one", base)
	seedProfile(t, db, "Bilal Khan", "bilal@example.com", "password-two", base.Add(time.Minute))
	seedProfile(t, db, "Asha Verma", "verma@example.com", "password-three", base.Add(2*time.Minute))

	page, err := svc.AdminList(context.Background(), "asha", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		require.Contains(t, item.FullName+item.Email, "sha")
	}

	all, err := svc.AdminList(context.Background(), "", pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
}

func TestAdminSetActiveTogglesFlag(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	profile := seedProfile(t, db, "Asha Rao", "asha@example.com", "password-one", time.Now())

	updated, err := svc.AdminSetActive(context.Background(), profile.ID, false)
	require.NoError(t, err)
	require.False(t, updated.Active)

	updated, err = svc.AdminSetActive(context.Background(), profile.ID, true)
	require.NoError(t, err)
	require.True(t, updated.Active)
}

func TestAdminSetRolePromotesAndValidates(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := newProfileTestService(t, db)
	profile := seedProfile(t, db, "Asha Rao", "asha@example.com", "password-one", time.Now())

	updated, err := svc.AdminSetRole(context.Background(), profile.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleAdmin, updated.Role)

	_, err = svc.AdminSetRole(context.Background(), profile.ID, "superuser")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.AdminSetRole(context.Background(), uuid.New(), "admin")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
