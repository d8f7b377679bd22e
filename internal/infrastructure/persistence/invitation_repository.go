package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
)

// GormInvitationRepository implements identity.InvitationRepository using GORM
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewGormInvitationRepository creates a new GormInvitationRepository
func NewGormInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{db: db}
}

// FindByID finds an invitation by its ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Invitation, error) {
	var invitation identity.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its opaque token
func (r *GormInvitationRepository) FindByToken(ctx context.Context, token string) (*identity.Invitation, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var invitation identity.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// FindPendingForOrg lists unaccepted, unexpired invitations of an organization
func (r *GormInvitationRepository) FindPendingForOrg(ctx context.Context, organizationID uuid.UUID) ([]identity.Invitation, error) {
	var invitations []identity.Invitation
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND accepted_at IS NULL AND expires_at > ?", organizationID, time.Now()).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// Save creates or updates an invitation
func (r *GormInvitationRepository) Save(ctx context.Context, invitation *identity.Invitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// Delete revokes an invitation
func (r *GormInvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Invitation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormInvitationRepository implements InvitationRepository
var _ identity.InvitationRepository = (*GormInvitationRepository)(nil)
