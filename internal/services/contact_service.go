package services

import (
	"context"

	"github.com/google/uuid"

	"grocart/internal/models/db_models"
	"grocart/internal/models/request_models"
	"grocart/internal/models/response_models"
	"grocart/internal/repositories"
	"grocart/pkg/realtime"
	"grocart/pkg/utils"
)

type ContactServiceInterface interface {
	Create(ctx context.Context, req request_models.CreateContactRequest) (*db_models.Contact, error)
	List(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*db_models.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactService struct {
	contactRepo repositories.ContactRepositoryInterface
	hub         *realtime.Hub
}

func NewContactService(contactRepo repositories.ContactRepositoryInterface, hub *realtime.Hub) ContactServiceInterface {
	return &ContactService{
		contactRepo: contactRepo,
		hub:         hub,
	}
}

func (s *ContactService) Create(ctx context.Context, req request_models.CreateContactRequest) (*db_models.Contact, error) {
	contact := &db_models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Category: req.Category,
		Message:  req.Message,
		Status:   db_models.ContactStatusNew,
	}
	if err := s.contactRepo.Insert(ctx, contact); err != nil {
		return nil, utils.ErrDatabaseError
	}

	s.hub.Publish("contact:created", map[string]interface{}{
		"contact_id": contact.ID.String(),
		"name":       contact.Name,
		"subject":    contact.Subject,
	})

	return contact, nil
}

func (s *ContactService) List(ctx context.Context, page, pageSize int) (*response_models.PagedResponse, error) {
	contacts, total, err := s.contactRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return &response_models.PagedResponse{
		Items: contacts,
		Page:  page,
		Limit: pageSize,
		Total: total,
	}, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*db_models.Contact, error) {
	if !db_models.ValidContactStatus(status) {
		return nil, utils.ErrInvalidStatus
	}

	ok, err := s.contactRepo.UpdateStatus(ctx, id, db_models.ContactStatus(status))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !ok {
		return nil, utils.ErrContactNotFound
	}

	contact, err := s.contactRepo.FindByID(ctx, id)
	if err != nil || contact == nil {
		return nil, utils.ErrDatabaseError
	}
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !ok {
		return utils.ErrContactNotFound
	}
	return nil
}
