package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
)

type AddressRepositoryInterface interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Address, error)
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Address, error)
	// InsertWithDefault and SaveWithDefault clear is_default on sibling
	// addresses in the same transaction when the written address is default.
	InsertWithDefault(ctx context.Context, address *db_models.Address) error
	SaveWithDefault(ctx context.Context, address *db_models.Address) error
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

func NewAddressRepository(db *gorm.DB) AddressRepositoryInterface {
	return &AddressRepository{db: db}
}

type AddressRepository struct {
	db *gorm.DB
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Address, error) {
	var addresses []db_models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *AddressRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Address, error) {
	var address db_models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *AddressRepository) InsertWithDefault(ctx context.Context, address *db_models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return clearSiblingDefaults(tx, address)
		}
		return nil
	})
}

func (r *AddressRepository) SaveWithDefault(ctx context.Context, address *db_models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(address).Error; err != nil {
			return err
		}
		if address.IsDefault {
			return clearSiblingDefaults(tx, address)
		}
		return nil
	})
}

func clearSiblingDefaults(tx *gorm.DB, address *db_models.Address) error {
	return tx.Model(&db_models.Address{}).
		Where("user_id = ? AND id <> ?", address.UserID, address.ID).
		Update("is_default", false).Error
}

func (r *AddressRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&db_models.Address{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
