package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/pawfinder/pawfinder-backend/pkg/auth"
	"github.com/pawfinder/pawfinder-backend/pkg/config"
	"github.com/pawfinder/pawfinder-backend/pkg/db"
	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/security"
	"github.com/pawfinder/pawfinder-backend/pkg/types"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth and user controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AccountDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, req UpdateProfileRequest) (*UpdateProfileResult, error)
	ApproveShelter(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	RejectShelter(ctx context.Context, id uuid.UUID) (*AccountDTO, error)
	ListPendingShelters(ctx context.Context) ([]AccountDTO, error)
	ListAll(ctx context.Context) ([]AccountDTO, error)
	Delete(ctx context.Context, targetID, actingID uuid.UUID) (string, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo        Repository
	tx          transactor
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an accounts service.
type ServiceParams struct {
	Repo           Repository
	Transactor     transactor
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	if params.Transactor == nil {
		return nil, fmt.Errorf("transactor is required")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.Transactor,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AccountDTO, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	account := &models.Account{
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Role:   role,
		Avatar: req.Avatar,
	}

	if role.RequiresUsername() {
		username := ""
		if req.Username != nil {
			username = strings.ToLower(strings.TrimSpace(*req.Username))
		}
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required for this role")
		}

		taken, err := s.repo.UsernameExists(ctx, username, nil)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
		}
		account.Username = &username
	}

	switch role {
	case enums.RoleAdoptante:
		if req.FullName == nil || strings.TrimSpace(*req.FullName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required for adopters")
		}
		account.FullName = req.FullName
		account.Phone = req.Phone

	case enums.RoleRefugio:
		if isBlank(req.ShelterName) || isBlank(req.Address) || isBlank(req.TaxID) || isBlank(req.Phone) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				"shelter name, address, tax id and phone are required for shelters")
		}
		account.ShelterName = req.ShelterName
		account.Address = req.Address
		account.Province = req.Province
		account.TaxID = req.TaxID
		account.Phone = req.Phone
		account.Description = req.Description
		if req.Coordinates != nil {
			account.Latitude = &req.Coordinates.Lat
			account.Longitude = &req.Coordinates.Lon
		}
		// New shelters always start unapproved, whatever the payload says.
		pending := enums.ApprovalPendiente
		account.ApprovalStatus = &pending
	}

	emailTaken, err := s.repo.EmailExists(ctx, account.Email, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
	}
	if emailTaken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	account.PasswordHash = hash

	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}

	return FromModel(account), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	// Shelter approval gates access before the password is even checked, so
	// an unapproved shelter sees its moderation state, not a credential error.
	if account.Role == enums.RoleRefugio && !account.IsApprovedShelter() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, shelterGateMessage(account.ApprovalStatus))
	}

	valid, err := security.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	username := ""
	if account.Username != nil {
		username = *account.Username
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		AccountID: account.ID,
		Username:  username,
		Email:     account.Email,
		Role:      account.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	dto := FromModel(account)
	stripOversizedAvatar(dto)

	return &LoginResult{Token: token, Account: dto}, nil
}

func shelterGateMessage(status *enums.ApprovalStatus) string {
	if status == nil {
		return "your shelter account state does not allow access"
	}
	switch *status {
	case enums.ApprovalRechazado:
		return "your shelter account has been rejected and cannot log in"
	case enums.ApprovalPendiente:
		return "your shelter account is still awaiting approval"
	default:
		return fmt.Sprintf("your shelter account state (%s) does not allow access", *status)
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}
	return FromModel(account), nil
}

func (s *service) UpdateProfile(ctx context.Context, accountID uuid.UUID, req UpdateProfileRequest) (*UpdateProfileResult, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	fields := map[string]any{}

	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
		if newEmail != "" && newEmail != account.Email {
			inUse, err := s.repo.EmailExists(ctx, newEmail, &accountID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
			}
			if inUse {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use by another account")
			}
			fields["email"] = newEmail
		}
	}

	if req.Username != nil && account.Role.RequiresUsername() {
		newUsername := strings.ToLower(strings.TrimSpace(*req.Username))
		if newUsername != "" && (account.Username == nil || newUsername != *account.Username) {
			taken, err := s.repo.UsernameExists(ctx, newUsername, &accountID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already exists")
			}
			fields["username"] = newUsername
		}
	}

	diffString(fields, "phone", req.Phone, account.Phone)
	diffString(fields, "avatar", req.Avatar, account.Avatar)
	diffString(fields, "full_name", req.FullName, account.FullName)

	if account.Role == enums.RoleRefugio {
		diffString(fields, "shelter_name", req.ShelterName, account.ShelterName)
		diffString(fields, "address", req.Address, account.Address)
		diffString(fields, "tax_id", req.TaxID, account.TaxID)
		diffString(fields, "description", req.Description, account.Description)
	}

	if err := diffCoordinates(fields, req.Coordinates, account); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return &UpdateProfileResult{Account: FromModel(account), Changed: false}, nil
	}

	updated, err := s.repo.UpdateFields(ctx, accountID, fields)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	return &UpdateProfileResult{Account: FromModel(updated), Changed: true}, nil
}

func diffString(fields map[string]any, column string, incoming *string, current *string) {
	if incoming == nil {
		return
	}
	trimmed := strings.TrimSpace(*incoming)
	if current == nil || trimmed != *current {
		fields[column] = trimmed
	}
}

func diffCoordinates(fields map[string]any, raw json.RawMessage, account *models.Account) error {
	if len(raw) == 0 {
		return nil
	}

	if string(raw) == "null" {
		if account.Latitude != nil || account.Longitude != nil {
			fields["latitude"] = nil
			fields["longitude"] = nil
		}
		return nil
	}

	var coords types.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates")
	}

	if account.Latitude == nil || account.Longitude == nil ||
		*account.Latitude != coords.Lat || *account.Longitude != coords.Lon {
		fields["latitude"] = coords.Lat
		fields["longitude"] = coords.Lon
	}
	return nil
}

func (s *service) ApproveShelter(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	return s.setApproval(ctx, id, enums.ApprovalAprobado)
}

func (s *service) RejectShelter(ctx context.Context, id uuid.UUID) (*AccountDTO, error) {
	return s.setApproval(ctx, id, enums.ApprovalRechazado)
}

func (s *service) setApproval(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (*AccountDTO, error) {
	updated, err := s.repo.SetApprovalStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shelter not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set approval status")
	}
	return FromModel(updated), nil
}

func (s *service) ListPendingShelters(ctx context.Context) ([]AccountDTO, error) {
	shelters, err := s.repo.ListPendingShelters(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending shelters")
	}
	return toDTOs(shelters), nil
}

func (s *service) ListAll(ctx context.Context) ([]AccountDTO, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list accounts")
	}
	return toDTOs(all), nil
}

// Delete removes the target account along with its pets, applications and
// posts in one transaction. Returns the identifier used to describe the
// deleted account in the response message.
func (s *service) Delete(ctx context.Context, targetID, actingID uuid.UUID) (string, error) {
	if targetID == actingID {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "an admin cannot delete their own account here")
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteCascade(ctx, targetID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete account")
	}

	identifier := target.Email
	if target.Username != nil && *target.Username != "" {
		identifier = *target.Username
	}
	return identifier, nil
}

func toDTOs(accounts []models.Account) []AccountDTO {
	dtos := make([]AccountDTO, 0, len(accounts))
	for i := range accounts {
		dtos = append(dtos, *FromModel(&accounts[i]))
	}
	return dtos
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
