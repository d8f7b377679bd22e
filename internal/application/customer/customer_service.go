// Package customer holds the application service for the contact registry.
package customer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/customer"
	"github.com/invois/backend/internal/domain/shared"
)

// Input carries the editable customer fields
type Input struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Service manages the organization's saved customers
type Service struct {
	customers customer.Repository
	logger    *zap.Logger
}

// NewService creates a new customer service
func NewService(customers customer.Repository, logger *zap.Logger) *Service {
	return &Service{
		customers: customers,
		logger:    logger,
	}
}

// Create adds a customer to the caller's organization
func (s *Service) Create(ctx context.Context, authCtx authz.AuthContext, input Input) (*customer.Customer, error) {
	if err := authz.Decide(authz.ActionCreate, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	c, err := customer.NewCustomer(authCtx.OrganizationID, authCtx.UserID,
		input.Name, input.Email, input.Phone, input.Address, input.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pelanggan")
	}

	s.logger.Info("Customer created",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("customer_id", c.ID.String()))

	return c, nil
}

// Get returns a single customer
func (s *Service) Get(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*customer.Customer, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	c, err := s.customers.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

// List returns the organization's customers, paginated and searchable by name
func (s *Service) List(ctx context.Context, authCtx authz.AuthContext, filter shared.Filter) (*shared.Paginated[customer.Customer], error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	result, err := s.customers.List(ctx, authCtx.OrganizationID, filter)
	if err != nil {
		s.logger.Error("Failed to list customers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat daftar pelanggan")
	}
	return result, nil
}

// Update edits a customer. Members may only edit customers they created.
func (s *Service) Update(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID, input Input) (*customer.Customer, error) {
	c, err := s.customers.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionEdit, authz.Resource{OrganizationID: c.OrganizationID, CreatedBy: c.CreatedBy}, authCtx); err != nil {
		return nil, err
	}

	if err := c.Update(input.Name, input.Email, input.Phone, input.Address, input.Notes); err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, c); err != nil {
		s.logger.Error("Failed to update customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pelanggan")
	}
	return c, nil
}

// Delete removes a customer. Issued documents keep their snapshot of the
// customer, so deletion never touches them.
func (s *Service) Delete(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) error {
	c, err := s.customers.FindByID(ctx, authCtx.OrganizationID, id)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionDelete, authz.Resource{OrganizationID: c.OrganizationID, CreatedBy: c.CreatedBy}, authCtx); err != nil {
		return err
	}

	if err := s.customers.Delete(ctx, authCtx.OrganizationID, id); err != nil {
		s.logger.Error("Failed to delete customer", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus pelanggan")
	}

	s.logger.Info("Customer deleted",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("customer_id", id.String()))

	return nil
}
