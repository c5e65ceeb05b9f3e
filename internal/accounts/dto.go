package accounts

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	"github.com/pawfinder/pawfinder-backend/pkg/types"
)

// Inline base64 avatars above this length are dropped from login payloads
// so the response stays small.
const maxInlineAvatarChars = 50000

// AccountDTO is the transport shape that omits the password hash.
type AccountDTO struct {
	ID             uuid.UUID             `json:"id"`
	Email          string                `json:"email"`
	Username       *string               `json:"username,omitempty"`
	Role           enums.Role            `json:"role"`
	Avatar         *string               `json:"avatar,omitempty"`
	Phone          *string               `json:"phone,omitempty"`
	FullName       *string               `json:"fullName,omitempty"`
	ShelterName    *string               `json:"shelterName,omitempty"`
	Address        *string               `json:"address,omitempty"`
	Province       *string               `json:"province,omitempty"`
	TaxID          *string               `json:"taxId,omitempty"`
	Description    *string               `json:"description,omitempty"`
	Coordinates    *types.Coordinates    `json:"coordinates,omitempty"`
	ApprovalStatus *enums.ApprovalStatus `json:"approvalStatus,omitempty"`
	RegisteredAt   time.Time             `json:"registeredAt"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// RegisterRequest carries the signup payload. Role-specific required fields
// are enforced by the service, not by tags.
type RegisterRequest struct {
	Email       string             `json:"email" validate:"required,email"`
	Password    string             `json:"password" validate:"required,min=6"`
	Role        string             `json:"role" validate:"required"`
	Username    *string            `json:"username,omitempty"`
	FullName    *string            `json:"fullName,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Avatar      *string            `json:"avatar,omitempty"`
	ShelterName *string            `json:"shelterName,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Province    *string            `json:"province,omitempty"`
	TaxID       *string            `json:"taxId,omitempty"`
	Description *string            `json:"description,omitempty"`
	Coordinates *types.Coordinates `json:"coordinates,omitempty"`
}

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult bundles the minted token with the sanitized account.
type LoginResult struct {
	Token   string      `json:"token"`
	Account *AccountDTO `json:"user"`
}

// UpdateProfileRequest is a sparse patch; absent fields are left untouched.
// Coordinates is kept raw so an explicit null can clear the stored pair.
type UpdateProfileRequest struct {
	Email       *string         `json:"email,omitempty" validate:"omitempty,email"`
	Username    *string         `json:"username,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Avatar      *string         `json:"avatar,omitempty"`
	FullName    *string         `json:"fullName,omitempty"`
	ShelterName *string         `json:"shelterName,omitempty"`
	Address     *string         `json:"address,omitempty"`
	TaxID       *string         `json:"taxId,omitempty"`
	Description *string         `json:"description,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

// UpdateProfileResult reports whether anything was written.
type UpdateProfileResult struct {
	Account *AccountDTO
	Changed bool
}

func FromModel(a *models.Account) *AccountDTO {
	if a == nil {
		return nil
	}

	dto := &AccountDTO{
		ID:             a.ID,
		Email:          a.Email,
		Username:       a.Username,
		Role:           a.Role,
		Avatar:         a.Avatar,
		Phone:          a.Phone,
		FullName:       a.FullName,
		ShelterName:    a.ShelterName,
		Address:        a.Address,
		Province:       a.Province,
		TaxID:          a.TaxID,
		Description:    a.Description,
		ApprovalStatus: a.ApprovalStatus,
		RegisteredAt:   a.RegisteredAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if a.Latitude != nil && a.Longitude != nil {
		dto.Coordinates = &types.Coordinates{Lat: *a.Latitude, Lon: *a.Longitude}
	}

	return dto
}

// stripOversizedAvatar blanks an inline data-URI avatar that would bloat the
// login response.
func stripOversizedAvatar(dto *AccountDTO) {
	if dto == nil || dto.Avatar == nil {
		return
	}
	if strings.HasPrefix(*dto.Avatar, "data:image") && len(*dto.Avatar) > maxInlineAvatarChars {
		empty := ""
		dto.Avatar = &empty
	}
}
