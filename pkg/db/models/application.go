package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// Application is an adopter's request for a specific pet. An adopter may
// hold at most one application per pet; the shelter id is denormalized at
// submit time so received-application queries skip a join.
type Application struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PetID       uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:ux_applications_adopter_pet,priority:2;index"`
	AdopterID   uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:ux_applications_adopter_pet,priority:1"`
	ShelterID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	Message     *string                 `gorm:"type:text"`
	Status      enums.ApplicationStatus `gorm:"size:20;not null;default:'Pendiente'"`
	SubmittedAt time.Time               `gorm:"not null;default:now()"`

	Pet     *Pet     `gorm:"foreignKey:PetID"`
	Adopter *Account `gorm:"foreignKey:AdopterID"`
	Shelter *Account `gorm:"foreignKey:ShelterID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Application) TableName() string { return "applications" }
