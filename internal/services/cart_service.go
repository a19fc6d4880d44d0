package services

import (
	"context"

	"github.com/google/uuid"

	"grocart/internal/models/response_models"
	"grocart/internal/repositories"
	"grocart/pkg/utils"
)

type CartServiceInterface interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*response_models.CartResponse, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*response_models.CartResponse, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int64) (*response_models.CartResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*response_models.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) (*response_models.CartResponse, error)
}

type CartService struct {
	cartRepo    repositories.CartRepositoryInterface
	productRepo repositories.ProductRepositoryInterface
}

func NewCartService(cartRepo repositories.CartRepositoryInterface, productRepo repositories.ProductRepositoryInterface) CartServiceInterface {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *CartService) snapshot(ctx context.Context, cartID uuid.UUID) (*response_models.CartResponse, error) {
	lines, err := s.cartRepo.Lines(ctx, cartID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	items := make([]response_models.CartItemResponse, 0, len(lines))
	var total int64
	for _, line := range lines {
		lineTotal := line.Quantity * line.PriceCents
		total += lineTotal
		items = append(items, response_models.CartItemResponse{
			ID:             line.ItemID.String(),
			ProductID:      line.ProductID.String(),
			Name:           line.Name,
			ImageURL:       line.ImageURL,
			Unit:           line.Unit,
			Category:       line.Category,
			IsVeg:          line.IsVeg,
			PriceCents:     line.PriceCents,
			Quantity:       line.Quantity,
			LineTotalCents: lineTotal,
		})
	}

	return &response_models.CartResponse{Items: items, TotalCents: total}, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*response_models.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreateOpen(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return s.snapshot(ctx, cart.ID)
}

// AddItem upserts the cart line, summing quantities on repeats. Stock is not
// checked here; checkout is where stock gets validated.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*response_models.CartResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if product == nil || !product.IsActive {
		return nil, utils.ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreateOpen(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if err := s.cartRepo.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return s.snapshot(ctx, cart.ID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int64) (*response_models.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreateOpen(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	ok, err := s.cartRepo.SetItemQuantity(ctx, cart.ID, itemID, quantity)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !ok {
		return nil, utils.ErrCartItemNotFound
	}
	return s.snapshot(ctx, cart.ID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*response_models.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreateOpen(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	ok, err := s.cartRepo.RemoveItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !ok {
		return nil, utils.ErrCartItemNotFound
	}
	return s.snapshot(ctx, cart.ID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*response_models.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreateOpen(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return s.snapshot(ctx, cart.ID)
}
