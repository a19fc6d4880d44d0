package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
)

type ContactRepositoryInterface interface {
	Insert(ctx context.Context, contact *db_models.Contact) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Contact, error)
	List(ctx context.Context, page, pageSize int) ([]db_models.Contact, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ContactStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

func NewContactRepository(db *gorm.DB) ContactRepositoryInterface {
	return &ContactRepository{db: db}
}

type ContactRepository struct {
	db *gorm.DB
}

func (r *ContactRepository) Insert(ctx context.Context, contact *db_models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Contact, error) {
	var contact db_models.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context, page, pageSize int) ([]db_models.Contact, int64, error) {
	var contacts []db_models.Contact
	offset := (page - 1) * pageSize

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&db_models.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ContactStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Contact{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&db_models.Contact{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
