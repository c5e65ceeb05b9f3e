package applications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// ReceivedFilters narrows a shelter's inbox.
type ReceivedFilters struct {
	Status enums.ApplicationStatus
	PetID  *uuid.UUID
}

// Repository defines persistence operations for adoption applications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByAdopterAndPet(ctx context.Context, adopterID, petID uuid.UUID) (*models.Application, error)
	ListByAdopter(ctx context.Context, adopterID uuid.UUID, petIDs []uuid.UUID) ([]models.Application, error)
	ListReceived(ctx context.Context, shelterID uuid.UUID, filters ReceivedFilters) ([]models.Application, error)
	ListByPet(ctx context.Context, petID uuid.UUID) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error
	RejectPendingSiblings(ctx context.Context, petID, exceptID uuid.UUID) error
	CountApprovedSiblings(ctx context.Context, petID, exceptID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs an applications repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) FindByAdopterAndPet(ctx context.Context, adopterID, petID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("adopter_id = ? AND pet_id = ?", adopterID, petID).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *repository) ListByAdopter(ctx context.Context, adopterID uuid.UUID, petIDs []uuid.UUID) ([]models.Application, error) {
	query := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Shelter").
		Where("adopter_id = ?", adopterID)
	if petIDs != nil {
		query = query.Where("pet_id IN ?", petIDs)
	}

	var apps []models.Application
	if err := query.Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repository) ListReceived(ctx context.Context, shelterID uuid.UUID, filters ReceivedFilters) ([]models.Application, error) {
	query := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Adopter").
		Where("shelter_id = ?", shelterID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.PetID != nil {
		query = query.Where("pet_id = ?", *filters.PetID)
	}

	var apps []models.Application
	if err := query.Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repository) ListByPet(ctx context.Context, petID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Adopter").
		Where("pet_id = ?", petID).
		Order("submitted_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ApplicationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// RejectPendingSiblings force-rejects every still-pending application for
// the same pet, leaving contacted ones alone.
func (r *repository) RejectPendingSiblings(ctx context.Context, petID, exceptID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("pet_id = ? AND id <> ? AND status = ?", petID, exceptID, enums.ApplicationPendiente).
		Update("status", enums.ApplicationRechazada).Error
}

func (r *repository) CountApprovedSiblings(ctx context.Context, petID, exceptID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("pet_id = ? AND id <> ? AND status = ?", petID, exceptID, enums.ApplicationAprobada).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
