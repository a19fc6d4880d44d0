package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"grocart/internal/models/db_models"
)

type ProductRepositoryInterface interface {
	List(ctx context.Context, page, pageSize int, activeOnly bool) ([]db_models.Product, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Product, error)
	Insert(ctx context.Context, product *db_models.Product) error
	Update(ctx context.Context, product *db_models.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

func NewProductRepository(db *gorm.DB) ProductRepositoryInterface {
	return &ProductRepository{db: db}
}

type ProductRepository struct {
	db *gorm.DB
}

func (r *ProductRepository) List(ctx context.Context, page, pageSize int, activeOnly bool) ([]db_models.Product, int64, error) {
	var products []db_models.Product
	offset := (page - 1) * pageSize

	query := r.db.WithContext(ctx).Model(&db_models.Product{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at").Offset(offset).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Product, error) {
	var product db_models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product *db_models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) Update(ctx context.Context, product *db_models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Deactivate is the soft delete; the row stays so historical order items keep
// their product reference.
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
