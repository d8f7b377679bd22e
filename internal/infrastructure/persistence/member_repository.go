package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
)

// GormMemberRepository implements identity.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByUser finds the membership of a user. A user belongs to at most one
// organization, so this is a point lookup.
func (r *GormMemberRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.Member, error) {
	var member identity.Member
	if err := r.db.WithContext(ctx).First(&member, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByOrgAndUser finds a membership within a specific organization
func (r *GormMemberRepository) FindByOrgAndUser(ctx context.Context, organizationID, userID uuid.UUID) (*identity.Member, error) {
	var member identity.Member
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindAllForOrg lists the members of an organization, owners first
func (r *GormMemberRepository) FindAllForOrg(ctx context.Context, organizationID uuid.UUID) ([]identity.Member, error) {
	var members []identity.Member
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountByOrg counts the members of an organization
func (r *GormMemberRepository) CountByOrg(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Member{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a membership
func (r *GormMemberRepository) Save(ctx context.Context, member *identity.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// Delete removes a membership row
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Replace deletes any existing membership of the user and inserts the new one
// in a single transaction. The unique index on user_id backs the same
// invariant at the storage level.
func (r *GormMemberRepository) Replace(ctx context.Context, member *identity.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.Member{}, "user_id = ?", member.UserID).Error; err != nil {
			return err
		}
		return tx.Create(member).Error
	})
}

// Ensure GormMemberRepository implements MemberRepository
var _ identity.MemberRepository = (*GormMemberRepository)(nil)
