package services

import (
	"context"

	"grocart/internal/models/db_models"
	"grocart/internal/models/request_models"
	"grocart/internal/models/response_models"
	"grocart/internal/repositories"
	"grocart/pkg/realtime"
	"grocart/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error)
}

type AuthService struct {
	userRepo repositories.UserRepositoryInterface
	hub      *realtime.Hub
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, hub *realtime.Hub) AuthServiceInterface {
	return &AuthService{
		userRepo: userRepo,
		hub:      hub,
	}
}

func (a *AuthService) Register(ctx context.Context, req request_models.RegisterRequest) (*response_models.AuthResponse, error) {
	existing, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	user := &db_models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         db_models.RoleCustomer,
		IsActive:     true,
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}

	token, err := utils.CreateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	a.hub.Publish("user:created", map[string]interface{}{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"email":   user.Email,
	})

	return &response_models.AuthResponse{
		User:  response_models.NewUserResponse(user),
		Token: token,
	}, nil
}

func (a *AuthService) Login(ctx context.Context, req request_models.LoginRequest) (*response_models.AuthResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, utils.ErrAccountDisabled
	}

	if err := utils.ComparePasswords(user.PasswordHash, req.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.AuthResponse{
		User:  response_models.NewUserResponse(user),
		Token: token,
	}, nil
}
