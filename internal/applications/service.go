package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/internal/pets"
	"github.com/pawfinder/pawfinder-backend/pkg/db"
	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
)

// Service defines the behavior needed by the applications controller.
type Service interface {
	Submit(ctx context.Context, petID, adopterID uuid.UUID, req SubmitRequest) (*ApplicationDTO, error)
	ListMine(ctx context.Context, adopterID uuid.UUID, petNameFilter string) ([]ApplicationDTO, error)
	ListReceived(ctx context.Context, shelterID uuid.UUID, statusFilter, petIDFilter string) ([]ApplicationDTO, error)
	ListForPet(ctx context.Context, petID, actorID uuid.UUID, actorRole enums.Role) ([]ApplicationDTO, error)
	CheckMineForPet(ctx context.Context, petID, adopterID uuid.UUID) (*CheckResult, error)
	SetStatus(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, newStatus string) (*ApplicationDTO, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	apps Repository
	pets pets.Repository
	tx   transactor
}

// ServiceParams bundles the dependencies required to build an applications
// service.
type ServiceParams struct {
	Repo       Repository
	PetsRepo   pets.Repository
	Transactor transactor
}

// NewService constructs an applications service with the provided
// dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applications repository is required")
	}
	if params.PetsRepo == nil {
		return nil, fmt.Errorf("pets repository is required")
	}
	if params.Transactor == nil {
		return nil, fmt.Errorf("transactor is required")
	}
	return &service{apps: params.Repo, pets: params.PetsRepo, tx: params.Transactor}, nil
}

func (s *service) Submit(ctx context.Context, petID, adopterID uuid.UUID, req SubmitRequest) (*ApplicationDTO, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}

	if pet.Status != enums.AdoptionDisponible {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet is not available for adoption")
	}
	if pet.ShelterID == adopterID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot apply to adopt your own pet")
	}

	if _, err := s.apps.FindByAdopterAndPet(ctx, adopterID, petID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("you have already applied to adopt %s", pet.Name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing application")
	}

	app := &models.Application{
		PetID:     pet.ID,
		AdopterID: adopterID,
		ShelterID: pet.ShelterID,
		Message:   normalizeMessage(req.Message),
		Status:    enums.ApplicationPendiente,
	}

	if err := s.apps.Create(ctx, app); err != nil {
		// The unique (adopter, pet) index closes the race between the
		// existence check and the insert.
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				fmt.Sprintf("you have already applied to adopt %s", pet.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create application")
	}

	return fromModel(app, expandNone), nil
}

func (s *service) ListMine(ctx context.Context, adopterID uuid.UUID, petNameFilter string) ([]ApplicationDTO, error) {
	var petIDs []uuid.UUID
	if name := strings.TrimSpace(petNameFilter); name != "" {
		ids, err := s.pets.FindIDsByNameLike(ctx, name)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve pet names")
		}
		if len(ids) == 0 {
			return []ApplicationDTO{}, nil
		}
		petIDs = ids
	}

	apps, err := s.apps.ListByAdopter(ctx, adopterID, petIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list applications")
	}
	return toDTOs(apps, expandForAdopter), nil
}

func (s *service) ListReceived(ctx context.Context, shelterID uuid.UUID, statusFilter, petIDFilter string) ([]ApplicationDTO, error) {
	filters := ReceivedFilters{}

	if raw := strings.TrimSpace(statusFilter); raw != "" {
		status, err := enums.ParseApplicationStatus(raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filters.Status = status
	}

	// A malformed pet id filter is ignored rather than rejected; the inbox
	// simply stays unfiltered.
	if raw := strings.TrimSpace(petIDFilter); raw != "" {
		if petID, err := uuid.Parse(raw); err == nil {
			filters.PetID = &petID
		}
	}

	apps, err := s.apps.ListReceived(ctx, shelterID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list received applications")
	}
	return toDTOs(apps, expandForShelter), nil
}

func (s *service) ListForPet(ctx context.Context, petID, actorID uuid.UUID, actorRole enums.Role) ([]ApplicationDTO, error) {
	pet, err := s.loadPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet.ShelterID != actorID && actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view applications for this pet")
	}

	apps, err := s.apps.ListByPet(ctx, petID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list applications for pet")
	}
	return toDTOs(apps, expandAdopterOnly), nil
}

func (s *service) CheckMineForPet(ctx context.Context, petID, adopterID uuid.UUID) (*CheckResult, error) {
	app, err := s.apps.FindByAdopterAndPet(ctx, adopterID, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckResult{HasApplication: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check application")
	}
	status := app.Status
	return &CheckResult{HasApplication: true, Status: &status}, nil
}

// SetStatus drives the workflow transition. Approving an application marks
// the pet adopted and force-rejects pending siblings; moving the only
// approved application away from Aprobada makes the pet available again.
// The application write and the pet reconciliation commit atomically.
func (s *service) SetStatus(ctx context.Context, id, actorID uuid.UUID, actorRole enums.Role, newStatus string) (*ApplicationDTO, error) {
	status, err := enums.ParseApplicationStatus(strings.TrimSpace(newStatus))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application status")
	}

	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup application")
	}

	pet, err := s.pets.FindByID(ctx, app.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An application whose pet vanished is an error, not a skip.
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet for this application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}

	if pet.ShelterID != actorID && actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to modify this application")
	}

	priorStatus := app.Status

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txApps := s.apps.WithTx(tx)
		txPets := s.pets.WithTx(tx)

		if err := txApps.UpdateStatus(ctx, app.ID, status); err != nil {
			return fmt.Errorf("update application status: %w", err)
		}

		if status == enums.ApplicationAprobada {
			if err := txPets.UpdateStatus(ctx, pet.ID, enums.AdoptionAdoptado); err != nil {
				return fmt.Errorf("mark pet adopted: %w", err)
			}
			if err := txApps.RejectPendingSiblings(ctx, pet.ID, app.ID); err != nil {
				return fmt.Errorf("reject pending siblings: %w", err)
			}
			return nil
		}

		if priorStatus == enums.ApplicationAprobada {
			approved, err := txApps.CountApprovedSiblings(ctx, pet.ID, app.ID)
			if err != nil {
				return fmt.Errorf("count approved siblings: %w", err)
			}
			if approved == 0 && pet.Status == enums.AdoptionAdoptado {
				if err := txPets.UpdateStatus(ctx, pet.ID, enums.AdoptionDisponible); err != nil {
					return fmt.Errorf("revert pet availability: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply status transition")
	}

	app.Status = status
	return fromModel(app, expandNone), nil
}

func (s *service) loadPet(ctx context.Context, petID uuid.UUID) (*models.Pet, error) {
	pet, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pet")
	}
	return pet, nil
}

func normalizeMessage(message *string) *string {
	if message == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*message)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toDTOs(apps []models.Application, mode expansion) []ApplicationDTO {
	dtos := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		dtos = append(dtos, *fromModel(&apps[i], mode))
	}
	return dtos
}
