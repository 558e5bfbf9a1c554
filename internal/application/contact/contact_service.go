package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/contact"
	"github.com/shopfront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactService manages the caller's delivery contacts. Every operation is
// scoped to the caller, so another user's contact is reported as not found.
type ContactService struct {
	repo   contact.ContactRepository
	logger *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo contact.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

// Create adds a contact owned by the caller
func (s *ContactService) Create(ctx context.Context, caller shared.Caller, req ContactRequest) (*ContactResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	c, err := contact.NewContact(caller.UserID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("contact created",
		zap.String("contact_id", c.ID.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	resp := ToContactResponse(c)
	return &resp, nil
}

// List returns a page of the caller's contacts
func (s *ContactService) List(ctx context.Context, caller shared.Caller, filter ContactListFilter) (*ContactListResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	f := shared.Filter{Page: filter.Page, PageSize: filter.PageSize, OrderBy: "created_at"}.Normalize()

	contacts, total, err := s.repo.FindAllForOwner(ctx, caller.UserID, f)
	if err != nil {
		return nil, err
	}
	resp := &ContactListResponse{
		Items:      make([]ContactResponse, len(contacts)),
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: shared.PageCount(total, f.PageSize),
	}
	for i := range contacts {
		resp.Items[i] = ToContactResponse(&contacts[i])
	}
	return resp, nil
}

// Get returns one of the caller's contacts
func (s *ContactService) Get(ctx context.Context, caller shared.Caller, id uuid.UUID) (*ContactResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetContact(ctx, id, caller.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// Update replaces the details of one of the caller's contacts
func (s *ContactService) Update(ctx context.Context, caller shared.Caller, id uuid.UUID, req ContactRequest) (*ContactResponse, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetContact(ctx, id, caller.UserID)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContactResponse(c)
	return &resp, nil
}

// Delete removes one of the caller's contacts. Orders that reference it keep
// their contact_id.
func (s *ContactService) Delete(ctx context.Context, caller shared.Caller, id uuid.UUID) error {
	if err := caller.Validate(); err != nil {
		return err
	}
	if err := s.repo.DeleteForOwner(ctx, id, caller.UserID); err != nil {
		return err
	}
	s.logger.Info("contact deleted",
		zap.String("contact_id", id.String()),
		zap.String("user_id", caller.UserID.String()),
	)
	return nil
}
