package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	pkgmodels "github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/security"
)

type stubProfileRepo struct {
	data      map[string]*pkgmodels.Profile
	roleSet   *enums.UserRole
	lastLogin *time.Time
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{data: map[string]*pkgmodels.Profile{}}
}

func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.Profile, error) {
	if profile, ok := s.data[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

func (s *stubProfileRepo) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) error {
	s.roleSet = &role
	for _, profile := range s.data {
		if profile.ID == id {
			profile.Role = role
		}
	}
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "rotated-access-id", "rotated-refresh", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func seedProfile(t *testing.T, repo *stubProfileRepo, email, password string, role enums.UserRole, active bool) *pkgmodels.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &pkgmodels.Profile{
		ID:           uuid.New(),
		FullName:     "Test Account",
		Email:        email,
		Role:         role,
		Active:       active,
		PasswordHash: hash,
	}
	repo.data[email] = profile
	return profile
}

func newAuthTestService(t *testing.T, repo *stubProfileRepo, sessions *stubSessionManager, adminEmails []string) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ProfileRepo:    repo,
		SessionManager: sessions,
		JWTConfig:      config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		AuthConfig:     config.AuthConfig{AdminEmails: adminEmails},
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func TestLoginReturnsTokensForCustomer(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "customer@example.com", "Secret123!", enums.UserRoleCustomer, true)
	svc := newAuthTestService(t, repo, sessions, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "customer@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if resp.Profile.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role got %s", resp.Profile.Role)
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session got %d", len(sessions.generated))
	}
}

func TestLoginPromotesAllowListedEmail(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "ops@example.com", "Secret123!", enums.UserRoleCustomer, true)
	svc := newAuthTestService(t, repo, sessions, []string{"ops@example.com"})

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ops@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Profile.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role got %s", resp.Profile.Role)
	}
	if repo.roleSet == nil || *repo.roleSet != enums.UserRoleAdmin {
		t.Fatal("expected role to be persisted as admin")
	}
}

func TestLoginKeepsAdminNotOnAllowList(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "granted@example.com", "Secret123!", enums.UserRoleAdmin, true)
	svc := newAuthTestService(t, repo, sessions, nil)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "granted@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Profile.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role to survive login got %s", resp.Profile.Role)
	}
	if repo.roleSet != nil {
		t.Fatalf("expected no role write, got %s", *repo.roleSet)
	}
}

func TestLoginSkipsWriteForAllowListedAdmin(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "ops@example.com", "Secret123!", enums.UserRoleAdmin, true)
	svc := newAuthTestService(t, repo, sessions, []string{"ops@example.com"})

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ops@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Profile.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role got %s", resp.Profile.Role)
	}
	if repo.roleSet != nil {
		t.Fatalf("expected no role write for an already-admin profile, got %s", *repo.roleSet)
	}
}

func TestLoginRejectsInactiveWithGenericMessage(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "disabled@example.com", "Secret123!", enums.UserRoleCustomer, false)
	svc := newAuthTestService(t, repo, sessions, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "disabled@example.com", Password: "Secret123!"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
	if appErr.Message() != invalidCredentialsMessage {
		t.Fatalf("inactive account must not be distinguishable: %s", appErr.Message())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	seedProfile(t, repo, "customer@example.com", "Secret123!", enums.UserRoleCustomer, true)
	svc := newAuthTestService(t, repo, sessions, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "customer@example.com", Password: "wrong"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized got %v", err)
	}
	if appErr.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message: %s", appErr.Message())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	svc := newAuthTestService(t, repo, sessions, nil)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id" {
		t.Fatalf("expected session revoked, got %v", sessions.revoked)
	}
}
