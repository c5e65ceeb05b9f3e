package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// Account is a registered identity: adopter, shelter or admin.
// Adopters and admins carry a username; shelters never do.
type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `gorm:"size:255;not null;uniqueIndex"`
	Username     *string    `gorm:"size:100"`
	PasswordHash string     `gorm:"size:255;not null"`
	Role         enums.Role `gorm:"size:20;not null"`
	Avatar       *string    `gorm:"type:text"`
	Phone        *string    `gorm:"size:50"`
	FullName     *string    `gorm:"size:200"`

	// Shelter-only fields, NULL for adopters and admins.
	ShelterName    *string               `gorm:"size:200"`
	Address        *string               `gorm:"size:300"`
	Province       *string               `gorm:"size:100"`
	TaxID          *string               `gorm:"column:tax_id;size:50"`
	Description    *string               `gorm:"type:text"`
	Latitude       *float64              `gorm:"type:double precision"`
	Longitude      *float64              `gorm:"type:double precision"`
	ApprovalStatus *enums.ApprovalStatus `gorm:"size:20"`

	RegisteredAt time.Time `gorm:"not null;default:now()"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string { return "accounts" }

// IsApprovedShelter reports whether the account is a shelter cleared to operate.
func (a *Account) IsApprovedShelter() bool {
	return a.Role == enums.RoleRefugio &&
		a.ApprovalStatus != nil &&
		*a.ApprovalStatus == enums.ApprovalAprobado
}
