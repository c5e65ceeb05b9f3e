package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// PetInfo is the subset of the pet embedded in application responses.
type PetInfo struct {
	ID      uuid.UUID             `json:"id"`
	Name    string                `json:"name"`
	Species string                `json:"species"`
	Photos  []string              `json:"photos,omitempty"`
	Status  *enums.AdoptionStatus `json:"status,omitempty"`
}

// ShelterInfo is the contact subset of the shelter embedded in an adopter's
// own application list.
type ShelterInfo struct {
	ID          uuid.UUID `json:"id"`
	ShelterName *string   `json:"shelterName,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Email       string    `json:"email"`
}

// AdopterInfo is the subset of the adopter shown to the triaging shelter.
type AdopterInfo struct {
	ID       uuid.UUID `json:"id"`
	FullName *string   `json:"fullName,omitempty"`
	Username *string   `json:"username,omitempty"`
	Email    string    `json:"email"`
}

// ApplicationDTO is the transport shape of an adoption request.
type ApplicationDTO struct {
	ID          uuid.UUID               `json:"id"`
	PetID       uuid.UUID               `json:"petId"`
	AdopterID   uuid.UUID               `json:"adopterId"`
	ShelterID   uuid.UUID               `json:"shelterId"`
	Status      enums.ApplicationStatus `json:"status"`
	Message     *string                 `json:"message,omitempty"`
	SubmittedAt time.Time               `json:"submittedAt"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Pet         *PetInfo                `json:"pet,omitempty"`
	Shelter     *ShelterInfo            `json:"shelter,omitempty"`
	Adopter     *AdopterInfo            `json:"adopter,omitempty"`
}

// SubmitRequest carries the optional adopter message.
type SubmitRequest struct {
	Message *string `json:"message,omitempty"`
}

// SetStatusRequest carries the target workflow state.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CheckResult reports whether the caller already applied for a pet.
type CheckResult struct {
	HasApplication bool                     `json:"hasApplication"`
	Status         *enums.ApplicationStatus `json:"status,omitempty"`
}

type expansion int

const (
	expandNone expansion = iota
	// expandForAdopter embeds pet (with status) and shelter contact info.
	expandForAdopter
	// expandForShelter embeds pet and adopter info.
	expandForShelter
	// expandAdopterOnly embeds just the adopter, for the per-pet view.
	expandAdopterOnly
)

func fromModel(a *models.Application, mode expansion) *ApplicationDTO {
	if a == nil {
		return nil
	}

	dto := &ApplicationDTO{
		ID:          a.ID,
		PetID:       a.PetID,
		AdopterID:   a.AdopterID,
		ShelterID:   a.ShelterID,
		Status:      a.Status,
		Message:     a.Message,
		SubmittedAt: a.SubmittedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	switch mode {
	case expandForAdopter:
		if a.Pet != nil {
			status := a.Pet.Status
			dto.Pet = &PetInfo{
				ID:      a.Pet.ID,
				Name:    a.Pet.Name,
				Species: a.Pet.Species,
				Photos:  append([]string(nil), a.Pet.Photos...),
				Status:  &status,
			}
		}
		if a.Shelter != nil {
			dto.Shelter = &ShelterInfo{
				ID:          a.Shelter.ID,
				ShelterName: a.Shelter.ShelterName,
				Phone:       a.Shelter.Phone,
				Email:       a.Shelter.Email,
			}
		}
	case expandForShelter:
		if a.Pet != nil {
			dto.Pet = &PetInfo{
				ID:      a.Pet.ID,
				Name:    a.Pet.Name,
				Species: a.Pet.Species,
				Photos:  append([]string(nil), a.Pet.Photos...),
			}
		}
		dto.Adopter = adopterInfo(a.Adopter)
	case expandAdopterOnly:
		dto.Adopter = adopterInfo(a.Adopter)
	}

	return dto
}

func adopterInfo(adopter *models.Account) *AdopterInfo {
	if adopter == nil {
		return nil
	}
	return &AdopterInfo{
		ID:       adopter.ID,
		FullName: adopter.FullName,
		Username: adopter.Username,
		Email:    adopter.Email,
	}
}
