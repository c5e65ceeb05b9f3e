package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// Pet is an animal listed for adoption by a shelter. Age is free text
// ("3 años", "6 meses"), matching what shelters actually type.
type Pet struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShelterID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	Name        string               `gorm:"size:150;not null"`
	Species     string               `gorm:"size:100;not null"`
	Breed       *string              `gorm:"size:150"`
	Age         *string              `gorm:"size:50"`
	Sex         enums.PetSex         `gorm:"size:10;not null"`
	Size        *enums.PetSize       `gorm:"size:20"`
	Description string               `gorm:"type:text;not null"`
	Photos      pq.StringArray       `gorm:"type:text[]"`
	Status      enums.AdoptionStatus `gorm:"size:20;not null;default:'Disponible';index"`
	PublishedAt time.Time            `gorm:"not null;default:now();index"`

	Shelter *Account `gorm:"foreignKey:ShelterID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Pet) TableName() string { return "pets" }
