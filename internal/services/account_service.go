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

type AccountServiceInterface interface {
	Me(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]db_models.Address, error)
	AddAddress(ctx context.Context, userID uuid.UUID, req request_models.CreateAddressRequest) (*db_models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req request_models.UpdateAddressRequest) (*db_models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

type AccountService struct {
	userRepo    repositories.UserRepositoryInterface
	addressRepo repositories.AddressRepositoryInterface
}

func NewAccountService(userRepo repositories.UserRepositoryInterface, addressRepo repositories.AddressRepositoryInterface) AccountServiceInterface {
	return &AccountService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
	}
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	resp := response_models.NewUserResponse(user)
	return &resp, nil
}

func (a *AccountService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]db_models.Address, error) {
	addresses, err := a.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return addresses, nil
}

func (a *AccountService) AddAddress(ctx context.Context, userID uuid.UUID, req request_models.CreateAddressRequest) (*db_models.Address, error) {
	addrType := req.Type
	if addrType == "" {
		addrType = db_models.AddressTypeShipping
	}
	country := req.Country
	if country == "" {
		country = "India"
	}

	address := &db_models.Address{
		UserID:     userID,
		Type:       addrType,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    country,
		IsDefault:  req.IsDefault,
	}
	if err := a.addressRepo.InsertWithDefault(ctx, address); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return address, nil
}

func (a *AccountService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req request_models.UpdateAddressRequest) (*db_models.Address, error) {
	address, err := a.addressRepo.FindOwned(ctx, addressID, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if address == nil {
		return nil, utils.ErrAddressNotFound
	}

	if req.Type != nil {
		address.Type = *req.Type
	}
	if req.Line1 != nil {
		address.Line1 = *req.Line1
	}
	if req.Line2 != nil {
		address.Line2 = *req.Line2
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := a.addressRepo.SaveWithDefault(ctx, address); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return address, nil
}

func (a *AccountService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	ok, err := a.addressRepo.Delete(ctx, addressID, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrAddressNotFound
	}
	return nil
}
