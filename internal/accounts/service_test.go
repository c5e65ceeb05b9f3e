package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/config"
	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/security"
)

type fakeRepo struct {
	accounts map[uuid.UUID]*models.Account

	createdAccount *models.Account
	updatedFields  map[string]any
	deletedID      *uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[uuid.UUID]*models.Account{}}
}

func (f *fakeRepo) add(account *models.Account) *models.Account {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
	return account
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, account *models.Account) error {
	account.ID = uuid.New()
	f.createdAccount = account
	f.accounts[account.ID] = account
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for id, account := range f.accounts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UsernameExists(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error) {
	for id, account := range f.accounts {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if account.Username != nil && *account.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Account, error) {
	f.updatedFields = fields
	return f.FindByID(ctx, id)
}

func (f *fakeRepo) SetApprovalStatus(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok || account.Role != enums.RoleRefugio {
		return nil, gorm.ErrRecordNotFound
	}
	account.ApprovalStatus = &status
	return account, nil
}

func (f *fakeRepo) ListPendingShelters(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, account := range f.accounts {
		if account.Role == enums.RoleRefugio && account.ApprovalStatus != nil && *account.ApprovalStatus == enums.ApprovalPendiente {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, account := range f.accounts {
		out = append(out, *account)
	}
	return out, nil
}

func (f *fakeRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.accounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.accounts, id)
	f.deletedID = &id
	return nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:       repo,
		Transactor: &fakeTx{},
		JWTConfig: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "pawfinder",
			ExpirationMinutes: 120,
		},
		PasswordConfig: config.PasswordConfig{BcryptCost: 4},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
	return typed
}

func strPtr(s string) *string { return &s }

func TestRegister_AdopterNormalizesEmailAndUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "  Ana@Example.COM ",
		Password: "secret123",
		Role:     "Adoptante",
		Username: strPtr("AnaLova"),
		FullName: strPtr("Ana Lova"),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if dto.Email != "ana@example.com" {
		t.Fatalf("expected lowered email, got %q", dto.Email)
	}
	if dto.Username == nil || *dto.Username != "analova" {
		t.Fatalf("expected lowered username, got %v", dto.Username)
	}
	if repo.createdAccount.PasswordHash == "secret123" {
		t.Fatal("password must be hashed before storage")
	}
	if dto.ApprovalStatus != nil {
		t.Fatal("adopters must not carry an approval status")
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{Email: "taken@example.com", Role: enums.RoleAdoptante})
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Taken@example.com",
		Password: "secret123",
		Role:     "Adoptante",
		Username: strPtr("newbie"),
		FullName: strPtr("New Person"),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{Email: "a@example.com", Role: enums.RoleAdoptante, Username: strPtr("ana")})
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "b@example.com",
		Password: "secret123",
		Role:     "Adoptante",
		Username: strPtr("ANA"),
		FullName: strPtr("Other Ana"),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestRegister_ShelterForcedPending(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "refugio@example.com",
		Password:    "secret123",
		Role:        "Refugio",
		ShelterName: strPtr("Huellas"),
		Address:     strPtr("Calle Mayor 1"),
		TaxID:       strPtr("B12345678"),
		Phone:       strPtr("600123123"),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.ApprovalStatus == nil || *dto.ApprovalStatus != enums.ApprovalPendiente {
		t.Fatalf("expected forced Pendiente, got %v", dto.ApprovalStatus)
	}
	if dto.Username != nil {
		t.Fatal("shelters must not get a username")
	}
}

func TestRegister_ShelterMissingFields(t *testing.T) {
	svc := newTestService(t, newFakeRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "refugio@example.com",
		Password:    "secret123",
		Role:        "Refugio",
		ShelterName: strPtr("Huellas"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := newTestService(t, newFakeRepo())
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "x@example.com",
		Password: "secret123",
		Role:     "Alien",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestService(t, newFakeRepo())
	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	typed := assertCode(t, err, pkgerrors.CodeUnauthorized)
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func loginFixture(t *testing.T, repo *fakeRepo, role enums.Role, approval *enums.ApprovalStatus) *models.Account {
	t.Helper()
	hash, err := security.HashPassword("secret123", config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return repo.add(&models.Account{
		Email:          "user@example.com",
		PasswordHash:   hash,
		Role:           role,
		ApprovalStatus: approval,
	})
}

func TestLogin_PendingShelterBlockedBeforePasswordCheck(t *testing.T) {
	repo := newFakeRepo()
	pending := enums.ApprovalPendiente
	loginFixture(t, repo, enums.RoleRefugio, &pending)
	svc := newTestService(t, repo)

	// Wrong password on purpose: the gate must fire first.
	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})
	typed := assertCode(t, err, pkgerrors.CodeForbidden)
	if !strings.Contains(typed.Message(), "awaiting approval") {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestLogin_RejectedShelterBlocked(t *testing.T) {
	repo := newFakeRepo()
	rejected := enums.ApprovalRechazado
	loginFixture(t, repo, enums.RoleRefugio, &rejected)
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret123"})
	typed := assertCode(t, err, pkgerrors.CodeForbidden)
	if !strings.Contains(typed.Message(), "rejected") {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestLogin_ApprovedShelterSucceeds(t *testing.T) {
	repo := newFakeRepo()
	approved := enums.ApprovalAprobado
	loginFixture(t, repo, enums.RoleRefugio, &approved)
	svc := newTestService(t, repo)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.Account == nil || result.Account.Email != "user@example.com" {
		t.Fatalf("unexpected account %+v", result.Account)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeRepo()
	loginFixture(t, repo, enums.RoleAdoptante, nil)
	svc := newTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogin_StripsOversizedInlineAvatar(t *testing.T) {
	repo := newFakeRepo()
	account := loginFixture(t, repo, enums.RoleAdoptante, nil)
	huge := "data:image/png;base64," + strings.Repeat("A", maxInlineAvatarChars)
	account.Avatar = &huge
	svc := newTestService(t, repo)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Account.Avatar == nil || *result.Account.Avatar != "" {
		t.Fatalf("expected stripped avatar, got %v", result.Account.Avatar)
	}
}

func TestLogin_KeepsShortAvatar(t *testing.T) {
	repo := newFakeRepo()
	account := loginFixture(t, repo, enums.RoleAdoptante, nil)
	small := "https://cdn.example.com/avatar.png"
	account.Avatar = &small
	svc := newTestService(t, repo)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Account.Avatar == nil || *result.Account.Avatar != small {
		t.Fatalf("expected avatar untouched, got %v", result.Account.Avatar)
	}
}

func TestUpdateProfile_NoopSkipsWrite(t *testing.T) {
	repo := newFakeRepo()
	phone := "600123123"
	account := repo.add(&models.Account{
		Email:    "ana@example.com",
		Role:     enums.RoleAdoptante,
		Username: strPtr("ana"),
		Phone:    &phone,
	})
	svc := newTestService(t, repo)

	result, err := svc.UpdateProfile(context.Background(), account.ID, UpdateProfileRequest{
		Email:    strPtr("ana@example.com"),
		Username: strPtr("ana"),
		Phone:    strPtr("600123123"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Changed {
		t.Fatal("expected no-op to report Changed=false")
	}
	if repo.updatedFields != nil {
		t.Fatalf("expected zero writes, got %v", repo.updatedFields)
	}
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.add(&models.Account{Email: "other@example.com", Role: enums.RoleAdoptante})
	account := repo.add(&models.Account{Email: "ana@example.com", Role: enums.RoleAdoptante, Username: strPtr("ana")})
	svc := newTestService(t, repo)

	_, err := svc.UpdateProfile(context.Background(), account.ID, UpdateProfileRequest{
		Email: strPtr("other@example.com"),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateProfile_ShelterFieldsIgnoredForAdopters(t *testing.T) {
	repo := newFakeRepo()
	account := repo.add(&models.Account{Email: "ana@example.com", Role: enums.RoleAdoptante, Username: strPtr("ana")})
	svc := newTestService(t, repo)

	result, err := svc.UpdateProfile(context.Background(), account.ID, UpdateProfileRequest{
		ShelterName: strPtr("Not A Shelter"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Changed {
		t.Fatal("shelter-only fields must not dirty an adopter profile")
	}
}

func TestUpdateProfile_ClearCoordinatesWithNull(t *testing.T) {
	repo := newFakeRepo()
	lat, lon := 40.41, -3.70
	approved := enums.ApprovalAprobado
	account := repo.add(&models.Account{
		Email:          "refugio@example.com",
		Role:           enums.RoleRefugio,
		ApprovalStatus: &approved,
		Latitude:       &lat,
		Longitude:      &lon,
	})
	svc := newTestService(t, repo)

	_, err := svc.UpdateProfile(context.Background(), account.ID, UpdateProfileRequest{
		Coordinates: []byte("null"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updatedFields == nil {
		t.Fatal("expected a write clearing coordinates")
	}
	if v, ok := repo.updatedFields["latitude"]; !ok || v != nil {
		t.Fatalf("expected latitude nil, got %v", repo.updatedFields)
	}
	if v, ok := repo.updatedFields["longitude"]; !ok || v != nil {
		t.Fatalf("expected longitude nil, got %v", repo.updatedFields)
	}
}

func TestApproveShelter_NotFoundForNonShelter(t *testing.T) {
	repo := newFakeRepo()
	account := repo.add(&models.Account{Email: "ana@example.com", Role: enums.RoleAdoptante})
	svc := newTestService(t, repo)

	_, err := svc.ApproveShelter(context.Background(), account.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestApproveShelter_FlipsStatus(t *testing.T) {
	repo := newFakeRepo()
	pending := enums.ApprovalPendiente
	shelter := repo.add(&models.Account{Email: "r@example.com", Role: enums.RoleRefugio, ApprovalStatus: &pending})
	svc := newTestService(t, repo)

	dto, err := svc.ApproveShelter(context.Background(), shelter.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if dto.ApprovalStatus == nil || *dto.ApprovalStatus != enums.ApprovalAprobado {
		t.Fatalf("expected Aprobado, got %v", dto.ApprovalStatus)
	}
}

func TestDelete_SelfDeleteRejected(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.add(&models.Account{Email: "admin@example.com", Role: enums.RoleAdmin})
	svc := newTestService(t, repo)

	_, err := svc.Delete(context.Background(), admin.ID, admin.ID)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDelete_CascadesAndReportsIdentifier(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.add(&models.Account{Email: "admin@example.com", Role: enums.RoleAdmin})
	target := repo.add(&models.Account{Email: "ana@example.com", Role: enums.RoleAdoptante, Username: strPtr("ana")})
	svc := newTestService(t, repo)

	identifier, err := svc.Delete(context.Background(), target.ID, admin.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if identifier != "ana" {
		t.Fatalf("expected username identifier, got %q", identifier)
	}
	if repo.deletedID == nil || *repo.deletedID != target.ID {
		t.Fatal("expected cascade delete of the target account")
	}
}

func TestDelete_MissingAccount(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.add(&models.Account{Email: "admin@example.com", Role: enums.RoleAdmin})
	svc := newTestService(t, repo)

	_, err := svc.Delete(context.Background(), uuid.New(), admin.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}
