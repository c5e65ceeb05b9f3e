package pets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lib/pq"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/pagination"
)

// DefaultPageLimit matches the public browse grid.
const DefaultPageLimit = 6

// Service defines the behavior needed by the pets controller.
type Service interface {
	List(ctx context.Context, filters Filters, params pagination.Params) ([]PetDTO, pagination.Meta, error)
	ListNames(ctx context.Context, filters Filters, params pagination.Params) ([]PetNameDTO, pagination.Meta, error)
	GetOne(ctx context.Context, id uuid.UUID) (*PetDTO, error)
	Create(ctx context.Context, shelterID uuid.UUID, actorRole enums.Role, req CreatePetRequest) (*PetDTO, error)
	Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, req UpdatePetRequest) (*PetDTO, error)
	Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) error
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   transactor
}

// ServiceParams bundles the dependencies required to build a pets service.
type ServiceParams struct {
	Repo       Repository
	Transactor transactor
}

// NewService constructs a pets service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("pets repository is required")
	}
	if params.Transactor == nil {
		return nil, fmt.Errorf("transactor is required")
	}
	return &service{repo: params.Repo, tx: params.Transactor}, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) ([]PetDTO, pagination.Meta, error) {
	params = pagination.Normalize(params, DefaultPageLimit)

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pets")
	}

	rows, err := s.repo.List(ctx, filters, params.Limit, params.Offset(), true)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pets")
	}

	dtos := make([]PetDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *fromModel(&rows[i], contactInfo(rows[i].Shelter)))
	}
	return dtos, params.MetaFor(total), nil
}

func (s *service) ListNames(ctx context.Context, filters Filters, params pagination.Params) ([]PetNameDTO, pagination.Meta, error) {
	params = pagination.Normalize(params, DefaultPageLimit)

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pets")
	}

	rows, err := s.repo.ListNames(ctx, filters, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pet names")
	}

	names := make([]PetNameDTO, 0, len(rows))
	for i := range rows {
		names = append(names, PetNameDTO{ID: rows[i].ID, Name: rows[i].Name})
	}
	return names, params.MetaFor(total), nil
}

func (s *service) GetOne(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	pet, err := s.repo.FindByIDWithShelter(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	return fromModel(pet, publicInfo(pet.Shelter)), nil
}

func (s *service) Create(ctx context.Context, shelterID uuid.UUID, actorRole enums.Role, req CreatePetRequest) (*PetDTO, error) {
	if actorRole != enums.RoleRefugio {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only shelters can create pets")
	}

	sex, err := enums.ParsePetSex(req.Sex)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex")
	}

	pet := &models.Pet{
		ShelterID:   shelterID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Sex:         sex,
		Description: req.Description,
		Photos:      pq.StringArray(req.Photos),
		Status:      enums.AdoptionDisponible,
	}
	if pet.Photos == nil {
		pet.Photos = pq.StringArray{}
	}

	if req.Size != nil && *req.Size != "" {
		size, err := enums.ParsePetSize(*req.Size)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid size")
		}
		pet.Size = &size
	}

	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pet")
	}
	return fromModel(pet, nil), nil
}

func (s *service) Update(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, req UpdatePetRequest) (*PetDTO, error) {
	pet, err := s.loadOwned(ctx, id, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Species != nil {
		fields["species"] = *req.Species
	}
	if req.Breed != nil {
		fields["breed"] = *req.Breed
	}
	if req.Age != nil {
		fields["age"] = *req.Age
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Sex != nil {
		sex, err := enums.ParsePetSex(*req.Sex)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sex")
		}
		fields["sex"] = sex
	}
	if req.Size != nil {
		if *req.Size == "" {
			fields["size"] = nil
		} else {
			size, err := enums.ParsePetSize(*req.Size)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid size")
			}
			fields["size"] = size
		}
	}
	if req.Photos != nil {
		fields["photos"] = pq.StringArray(*req.Photos)
	}

	if len(fields) == 0 {
		return fromModel(pet, contactInfo(pet.Shelter)), nil
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update pet")
	}
	return fromModel(updated, contactInfo(updated.Shelter)), nil
}

func (s *service) Delete(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) error {
	if _, err := s.loadOwned(ctx, id, actorID, actorRole); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteWithApplications(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pet")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role) (*models.Pet, error) {
	pet, err := s.repo.FindByIDWithShelter(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	if pet.ShelterID != actorID && actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to manage this pet")
	}
	return pet, nil
}
