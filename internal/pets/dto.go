package pets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	"github.com/pawfinder/pawfinder-backend/pkg/types"
)

// PhotoList accepts either a JSON array of photo references or a single
// bare string, which is wrapped into a one-element list.
type PhotoList []string

func (p *PhotoList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*p = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*p = PhotoList{}
		return nil
	}
	*p = PhotoList{one}
	return nil
}

// ShelterInfo is the public subset of the owning shelter embedded in pet
// responses. List responses carry the contact subset; the detail view adds
// location fields.
type ShelterInfo struct {
	ID          uuid.UUID          `json:"id"`
	ShelterName *string            `json:"shelterName,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Email       string             `json:"email"`
	Province    *string            `json:"province,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Description *string            `json:"description,omitempty"`
	Coordinates *types.Coordinates `json:"coordinates,omitempty"`
}

// PetDTO is the transport shape of a listing.
type PetDTO struct {
	ID          uuid.UUID            `json:"id"`
	ShelterID   uuid.UUID            `json:"shelterId"`
	Name        string               `json:"name"`
	Species     string               `json:"species"`
	Breed       *string              `json:"breed,omitempty"`
	Age         *string              `json:"age,omitempty"`
	Sex         enums.PetSex         `json:"sex"`
	Size        *enums.PetSize       `json:"size,omitempty"`
	Description string               `json:"description"`
	Photos      []string             `json:"photos"`
	Status      enums.AdoptionStatus `json:"status"`
	PublishedAt time.Time            `json:"publishedAt"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	Shelter     *ShelterInfo         `json:"shelter,omitempty"`
}

// PetNameDTO is the lightweight projection used by dropdowns.
type PetNameDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreatePetRequest carries the listing payload. The owning shelter and the
// initial status come from the caller's identity, never from the body.
type CreatePetRequest struct {
	Name        string    `json:"name" validate:"required"`
	Species     string    `json:"species" validate:"required"`
	Breed       *string   `json:"breed,omitempty"`
	Age         *string   `json:"age,omitempty"`
	Sex         string    `json:"sex" validate:"required"`
	Size        *string   `json:"size,omitempty"`
	Description string    `json:"description" validate:"required"`
	Photos      PhotoList `json:"photos,omitempty"`
}

// UpdatePetRequest is a sparse patch. Owner id, publish timestamp and
// adoption status are not representable here: availability is derived from
// the application workflow.
type UpdatePetRequest struct {
	Name        *string    `json:"name,omitempty"`
	Species     *string    `json:"species,omitempty"`
	Breed       *string    `json:"breed,omitempty"`
	Age         *string    `json:"age,omitempty"`
	Sex         *string    `json:"sex,omitempty"`
	Size        *string    `json:"size,omitempty"`
	Description *string    `json:"description,omitempty"`
	Photos      *PhotoList `json:"photos,omitempty"`
}

func contactInfo(shelter *models.Account) *ShelterInfo {
	if shelter == nil {
		return nil
	}
	return &ShelterInfo{
		ID:          shelter.ID,
		ShelterName: shelter.ShelterName,
		Phone:       shelter.Phone,
		Email:       shelter.Email,
	}
}

func publicInfo(shelter *models.Account) *ShelterInfo {
	info := contactInfo(shelter)
	if info == nil {
		return nil
	}
	info.Province = shelter.Province
	info.Address = shelter.Address
	info.Description = shelter.Description
	if shelter.Latitude != nil && shelter.Longitude != nil {
		info.Coordinates = &types.Coordinates{Lat: *shelter.Latitude, Lon: *shelter.Longitude}
	}
	return info
}

func fromModel(p *models.Pet, shelter *ShelterInfo) *PetDTO {
	if p == nil {
		return nil
	}
	photos := append([]string(nil), p.Photos...)
	if photos == nil {
		photos = []string{}
	}
	return &PetDTO{
		ID:          p.ID,
		ShelterID:   p.ShelterID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Sex:         p.Sex,
		Size:        p.Size,
		Description: p.Description,
		Photos:      photos,
		Status:      p.Status,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Shelter:     shelter,
	}
}
