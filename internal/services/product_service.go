package services

import (
	"context"

	"github.com/google/uuid"

	"grocart/internal/models/db_models"
	"grocart/internal/models/request_models"
	"grocart/internal/models/response_models"
	"grocart/internal/repositories"
	"grocart/pkg/utils"
)

type ProductServiceInterface interface {
	List(ctx context.Context, page, pageSize int, includeInactive bool) (*response_models.PagedResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*db_models.Product, error)
	Create(ctx context.Context, req request_models.CreateProductRequest) (*db_models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req request_models.UpdateProductRequest) (*db_models.Product, error)
	// Delete is a soft delete: the product is deactivated, never removed,
	// so historical order items keep a valid reference.
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductService struct {
	productRepo repositories.ProductRepositoryInterface
}

func NewProductService(productRepo repositories.ProductRepositoryInterface) ProductServiceInterface {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, includeInactive bool) (*response_models.PagedResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	products, total, err := s.productRepo.List(ctx, page, pageSize, !includeInactive)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.PagedResponse{
		Items: products,
		Page:  page,
		Limit: pageSize,
		Total: total,
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*db_models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if product == nil || !product.IsActive {
		return nil, utils.ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, req request_models.CreateProductRequest) (*db_models.Product, error) {
	category := req.Category
	if category == "" {
		category = "General"
	}

	product := &db_models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    category,
		PriceCents:  *req.PriceCents,
		MRPCents:    req.MRPCents,
		ImageURL:    req.ImageURL,
		Stock:       *req.Stock,
		Unit:        req.Unit,
		Brand:       req.Brand,
		IsVeg:       req.IsVeg,
		Origin:      req.Origin,
		Tags:        req.Tags,
		IsActive:    true,
	}
	if err := s.productRepo.Insert(ctx, product); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req request_models.UpdateProductRequest) (*db_models.Product, error) {
	if req.Empty() {
		return nil, utils.ErrNoFieldsToUpdate
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if product == nil {
		return nil, utils.ErrProductNotFound
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.MRPCents != nil {
		product.MRPCents = req.MRPCents
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.IsVeg != nil {
		product.IsVeg = req.IsVeg
	}
	if req.Origin != nil {
		product.Origin = *req.Origin
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.productRepo.Deactivate(ctx, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrProductNotFound
	}
	return nil
}
