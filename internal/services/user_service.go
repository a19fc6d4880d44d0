package services

import (
	"context"

	"github.com/google/uuid"

	"grocart/internal/models/request_models"
	"grocart/internal/models/response_models"
	"grocart/internal/repositories"
	"grocart/pkg/utils"
)

type UserServiceInterface interface {
	AdminList(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, req request_models.AdminUpdateUserRequest) (*response_models.UserResponse, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
}

func NewUserService(userRepo repositories.UserRepositoryInterface) UserServiceInterface {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) AdminList(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, response_models.NewUserResponse(&users[i]))
	}

	return &response_models.PagedResponse{
		Items: responses,
		Page:  page,
		Limit: pageSize,
		Total: total,
	}, nil
}

func (s *UserService) AdminUpdate(ctx context.Context, id uuid.UUID, req request_models.AdminUpdateUserRequest) (*response_models.UserResponse, error) {
	if req.Role == nil && req.IsActive == nil {
		return nil, utils.ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}

	resp := response_models.NewUserResponse(user)
	return &resp, nil
}
