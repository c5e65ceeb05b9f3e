package pets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// Filters narrows the public listing query. A nil ShelterID restricts the
// result to available pets; browsing never surfaces adopted inventory unless
// a specific shelter is being inspected.
type Filters struct {
	Species   string
	Size      string
	Age       string
	Sex       string
	ShelterID *uuid.UUID
}

// Repository defines persistence operations for pet listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pet *models.Pet) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	FindByIDWithShelter(ctx context.Context, id uuid.UUID) (*models.Pet, error)
	Count(ctx context.Context, filters Filters) (int64, error)
	List(ctx context.Context, filters Filters, limit, offset int, withShelter bool) ([]models.Pet, error)
	ListNames(ctx context.Context, filters Filters, limit, offset int) ([]models.Pet, error)
	FindIDsByNameLike(ctx context.Context, name string) ([]uuid.UUID, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Pet, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AdoptionStatus) error
	DeleteWithApplications(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a pets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *repository) FindByIDWithShelter(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.WithContext(ctx).
		Preload("Shelter").
		First(&pet, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *repository) applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.ShelterID != nil {
		query = query.Where("shelter_id = ?", *filters.ShelterID)
	} else {
		query = query.Where("status = ?", enums.AdoptionDisponible)
	}
	if filters.Species != "" {
		query = query.Where("species = ?", filters.Species)
	}
	if filters.Size != "" {
		query = query.Where("size = ?", filters.Size)
	}
	if filters.Age != "" {
		query = query.Where("age = ?", filters.Age)
	}
	if filters.Sex != "" {
		query = query.Where("sex = ?", filters.Sex)
	}
	return query
}

func (r *repository) Count(ctx context.Context, filters Filters) (int64, error) {
	var count int64
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Pet{}), filters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) List(ctx context.Context, filters Filters, limit, offset int, withShelter bool) ([]models.Pet, error) {
	query := r.applyFilters(r.db.WithContext(ctx), filters)
	if withShelter {
		query = query.Preload("Shelter")
	}
	var pets []models.Pet
	err := query.
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *repository) ListNames(ctx context.Context, filters Filters, limit, offset int) ([]models.Pet, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Pet{}), filters)
	var pets []models.Pet
	err := query.
		Select("id", "name").
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *repository) FindIDsByNameLike(ctx context.Context, name string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("name ILIKE ?", "%"+name+"%").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Pet, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByIDWithShelter(ctx, id)
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.AdoptionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeleteWithApplications removes a pet and every application referencing it.
// Intended to run inside a transaction.
func (r *repository) DeleteWithApplications(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("pet_id = ?", id).Delete(&models.Application{}).Error; err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&models.Pet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
