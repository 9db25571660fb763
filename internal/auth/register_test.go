package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/internal/profiles"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	pkgmodels "github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRegisterProfileRepo struct {
	data    map[string]*pkgmodels.Profile
	created *pkgmodels.Profile
}

func newStubRegisterProfileRepo() *stubRegisterProfileRepo {
	return &stubRegisterProfileRepo{data: map[string]*pkgmodels.Profile{}}
}

func (s *stubRegisterProfileRepo) FindByEmail(ctx context.Context, email string) (*pkgmodels.Profile, error) {
	if profile, ok := s.data[email]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRegisterProfileRepo) Create(ctx context.Context, dto profiles.CreateProfileDTO) (*pkgmodels.Profile, error) {
	profile := dto.ToModel()
	profile.ID = uuid.New()
	s.data[dto.Email] = profile
	s.created = profile
	return profile, nil
}

type stubRegisterWalletRepo struct {
	created *pkgmodels.Wallet
}

func (s *stubRegisterWalletRepo) Create(ctx context.Context, userID uuid.UUID) (*pkgmodels.Wallet, error) {
	wallet := &pkgmodels.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.Zero}
	s.created = wallet
	return wallet, nil
}

type registerTestSetup struct {
	service     RegisterService
	profileRepo *stubRegisterProfileRepo
	walletRepo  *stubRegisterWalletRepo
}

func newRegisterTestSetup(t *testing.T) *registerTestSetup {
	t.Helper()
	profileRepo := newStubRegisterProfileRepo()
	walletRepo := &stubRegisterWalletRepo{}
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		ProfileRepoFactory: func(tx *gorm.DB) registerProfileRepository {
			return profileRepo
		},
		WalletRepoFactory: func(tx *gorm.DB) registerWalletRepository {
			return walletRepo
		},
		PasswordConfig: config.PasswordConfig{},
		AuthConfig:     config.AuthConfig{MinPasswordLength: 6},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return &registerTestSetup{
		service:     svc,
		profileRepo: profileRepo,
		walletRepo:  walletRepo,
	}
}

func TestRegisterCreatesProfileAndWallet(t *testing.T) {
	setup := newRegisterTestSetup(t)

	dto, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Asha Verma",
		Email:    "Asha@Example.com",
		Password: "Secret123!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if setup.profileRepo.created == nil {
		t.Fatal("expected profile to be created")
	}
	if setup.profileRepo.created.Email != "asha@example.com" {
		t.Fatalf("email not normalized: %s", setup.profileRepo.created.Email)
	}
	if setup.profileRepo.created.Role != enums.UserRoleCustomer {
		t.Fatalf("new accounts must default to customer, got %s", setup.profileRepo.created.Role)
	}
	if setup.walletRepo.created == nil {
		t.Fatal("expected wallet to be created")
	}
	if setup.walletRepo.created.UserID != setup.profileRepo.created.ID {
		t.Fatal("wallet not linked to created profile")
	}
	if !setup.walletRepo.created.Balance.IsZero() {
		t.Fatalf("wallet must start at zero, got %s", setup.walletRepo.created.Balance)
	}
	if dto.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role in response: %s", dto.Role)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newRegisterTestSetup(t)
	setup.profileRepo.data["taken@example.com"] = &pkgmodels.Profile{ID: uuid.New(), Email: "taken@example.com"}

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Someone Else",
		Email:    "taken@example.com",
		Password: "Secret123!",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	setup := newRegisterTestSetup(t)

	_, err := setup.service.Register(context.Background(), RegisterRequest{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Password: "abc",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	if setup.profileRepo.created != nil {
		t.Fatal("no profile should be created")
	}
}
