package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/db/models"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

// Repository defines persistence operations for account records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	UsernameExists(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Account, error)
	SetApprovalStatus(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (*models.Account, error)
	ListPendingShelters(ctx context.Context) ([]models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Account, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// SetApprovalStatus flips the moderation state of a shelter account. The
// role predicate makes the update conditional: a non-shelter id reports
// not-found instead of being mutated.
func (r *repository) SetApprovalStatus(ctx context.Context, id uuid.UUID, status enums.ApprovalStatus) (*models.Account, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND role = ?", id, enums.RoleRefugio).
		Update("approval_status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *repository) ListPendingShelters(ctx context.Context) ([]models.Account, error) {
	var shelters []models.Account
	err := r.db.WithContext(ctx).
		Where("role = ? AND approval_status = ?", enums.RoleRefugio, enums.ApprovalPendiente).
		Order("registered_at DESC").
		Find(&shelters).Error
	if err != nil {
		return nil, err
	}
	return shelters, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Account, error) {
	var all []models.Account
	if err := r.db.WithContext(ctx).Order("registered_at DESC").Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// DeleteCascade removes the account and everything hanging off it. Callers
// run this inside a transaction via WithTx. Applications received by a
// shelter carry its id denormalized, so one predicate covers both the
// account's own submissions and those against its pets.
func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("adopter_id = ? OR shelter_id = ?", id, id).
		Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := db.Where("shelter_id = ?", id).Delete(&models.Pet{}).Error; err != nil {
		return err
	}
	if err := db.Where("author_id = ?", id).Delete(&models.BlogPost{}).Error; err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&models.Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
