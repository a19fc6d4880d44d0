package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grocart/internal/models/db_models"
)

// CartLine is a cart item joined with the current product row; checkout
// validates stock against it.
type CartLine struct {
	ItemID     uuid.UUID
	ProductID  uuid.UUID
	Name       string
	ImageURL   string
	Unit       string
	Category   string
	IsVeg      *bool
	PriceCents int64
	Stock      int64
	Quantity   int64
}

type CartRepositoryInterface interface {
	// GetOrCreateOpen returns the user's open cart, creating one lazily. A
	// concurrent first-access can violate the partial unique index; the
	// violation is returned for the caller to retry rather than prevented.
	GetOrCreateOpen(ctx context.Context, userID uuid.UUID) (*db_models.Cart, error)
	FindOpen(ctx context.Context, userID uuid.UUID) (*db_models.Cart, error)
	Lines(ctx context.Context, cartID uuid.UUID) ([]CartLine, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int64) error
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) (bool, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

func NewCartRepository(db *gorm.DB) CartRepositoryInterface {
	return &CartRepository{db: db}
}

type CartRepository struct {
	db *gorm.DB
}

func (r *CartRepository) GetOrCreateOpen(ctx context.Context, userID uuid.UUID) (*db_models.Cart, error) {
	cart, err := r.FindOpen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	created := &db_models.Cart{UserID: userID, Status: db_models.CartStatusOpen}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *CartRepository) FindOpen(ctx context.Context, userID uuid.UUID) (*db_models.Cart, error) {
	var cart db_models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, db_models.CartStatusOpen).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]CartLine, error) {
	var lines []CartLine
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select(`ci.id AS item_id, ci.product_id, p.name, p.image_url, p.unit,
			p.category, p.is_veg, p.price_cents, p.stock, ci.quantity`).
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.cart_id = ? AND ci.deleted_at IS NULL", cartID).
		Order("ci.created_at").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *CartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int64) error {
	item := db_models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
		}),
	}).Create(&item).Error
}

func (r *CartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Cart item deletes are hard deletes: a soft-deleted row would still occupy
// the (cart_id, product_id) unique slot and swallow the next upsert.
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&db_models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("cart_id = ?", cartID).
		Delete(&db_models.CartItem{}).Error
}
