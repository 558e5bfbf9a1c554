package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/shopfront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements contact.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// GetContact returns the contact only if ownerID owns it
func (r *GormContactRepository) GetContact(ctx context.Context, id, ownerID uuid.UUID) (*contact.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("contact")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists a user's contacts
func (r *GormContactRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]contact.Contact, int64, error) {
	f := filter.Normalize()
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ContactModel{}).
		Where("user_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]contact.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, total, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	return r.db.WithContext(ctx).Save(models.ContactModelFromDomain(c)).Error
}

// DeleteForOwner deletes a contact owned by ownerID
func (r *GormContactRepository) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.ContactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("contact")
	}
	return nil
}

// Ensure GormContactRepository implements contact.ContactRepository
var _ contact.ContactRepository = (*GormContactRepository)(nil)
