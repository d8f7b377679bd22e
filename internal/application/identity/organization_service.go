package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/storage"
)

// Presigned URL lifetimes for branding uploads and downloads
const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = time.Hour
)

// Branding asset kinds accepted by the upload endpoint
var brandingKinds = map[string]bool{
	"logo":      true,
	"signature": true,
	"stamp":     true,
	"avatar":    true,
}

// OrganizationService manages the organization profile, document number
// prefixes, SMTP credentials and branding assets
type OrganizationService struct {
	orgs    identity.OrganizationRepository
	members identity.MemberRepository
	storage storage.ObjectStorage
	logger  *zap.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgs identity.OrganizationRepository,
	members identity.MemberRepository,
	objectStorage storage.ObjectStorage,
	logger *zap.Logger,
) *OrganizationService {
	return &OrganizationService{
		orgs:    orgs,
		members: members,
		storage: objectStorage,
		logger:  logger,
	}
}

// Create creates an organization and makes the creator its owner. A user
// already in an organization cannot create another one.
func (s *OrganizationService) Create(ctx context.Context, userID uuid.UUID, name string) (*identity.Organization, error) {
	if _, err := s.members.FindByUser(ctx, userID); err == nil {
		return nil, shared.NewDomainError("ALREADY_IN_ORGANIZATION", "Anda sudah tergabung dalam organisasi")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check existing membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat organisasi")
	}

	org, err := identity.NewOrganization(name)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		s.logger.Error("Failed to save organization", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat organisasi")
	}

	owner, err := identity.NewOwnerMember(org.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, owner); err != nil {
		s.logger.Error("Failed to save founding membership",
			zap.String("organization_id", org.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat organisasi")
	}

	s.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("owner_id", userID.String()))

	return org, nil
}

// Get returns the caller's organization with resolved branding URLs
func (s *OrganizationService) Get(ctx context.Context, authCtx authz.AuthContext) (*OrganizationResult, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	result := &OrganizationResult{Organization: org}
	result.LogoURL = s.resolveAssetURL(ctx, org.LogoFileID)
	result.SignatureURL = s.resolveAssetURL(ctx, org.SignatureFileID)
	result.StampURL = s.resolveAssetURL(ctx, org.StampFileID)

	return result, nil
}

// Update edits the organization profile. Owner or admin only.
func (s *OrganizationService) Update(ctx context.Context, authCtx authz.AuthContext, input UpdateOrganizationInput) (*identity.Organization, error) {
	org, err := s.loadForManage(ctx, authCtx)
	if err != nil {
		return nil, err
	}

	if err := org.Update(input.Name, input.Address, input.Phone, input.Email); err != nil {
		return nil, err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		s.logger.Error("Failed to update organization", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan organisasi")
	}

	return org, nil
}

// SetPrefixes overrides the document number prefixes. Takes effect on the next
// allocation; already issued numbers keep their prefix.
func (s *OrganizationService) SetPrefixes(ctx context.Context, authCtx authz.AuthContext, input SetPrefixesInput) (*identity.Organization, error) {
	org, err := s.loadForManage(ctx, authCtx)
	if err != nil {
		return nil, err
	}

	prefixes := identity.NumberPrefixes{
		Invoice:       input.Invoice,
		PurchaseOrder: input.PurchaseOrder,
		Receipt:       input.Receipt,
	}
	if err := org.SetPrefixes(prefixes); err != nil {
		return nil, err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		s.logger.Error("Failed to save prefixes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pengaturan")
	}

	return org, nil
}

// SetSMTP stores the organization's outbound mail credentials
func (s *OrganizationService) SetSMTP(ctx context.Context, authCtx authz.AuthContext, input SetSMTPInput) error {
	org, err := s.loadForManage(ctx, authCtx)
	if err != nil {
		return err
	}

	settings := identity.SMTPSettings{
		Host:        input.Host,
		Port:        input.Port,
		Username:    input.Username,
		Password:    input.Password,
		FromAddress: input.FromAddress,
		FromName:    input.FromName,
	}
	if err := org.SetSMTP(settings); err != nil {
		return err
	}
	if err := s.orgs.Save(ctx, org); err != nil {
		s.logger.Error("Failed to save SMTP settings", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pengaturan")
	}

	return nil
}

// SetBranding stores the storage keys of uploaded branding assets
func (s *OrganizationService) SetBranding(ctx context.Context, authCtx authz.AuthContext, input SetBrandingInput) error {
	org, err := s.loadForManage(ctx, authCtx)
	if err != nil {
		return err
	}

	org.SetBranding(input.LogoFileID, input.SignatureFileID, input.StampFileID)
	if err := s.orgs.Save(ctx, org); err != nil {
		s.logger.Error("Failed to save branding", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan pengaturan")
	}

	return nil
}

// GenerateUploadURL returns a presigned PUT slot for a branding asset.
// The client uploads directly to storage and then calls SetBranding with the
// returned key; the backend never touches the bytes.
func (s *OrganizationService) GenerateUploadURL(ctx context.Context, authCtx authz.AuthContext, kind, contentType string) (*UploadURLResult, error) {
	if !brandingKinds[kind] {
		return nil, shared.NewDomainError("INVALID_ASSET_KIND", "Jenis berkas tidak dikenal")
	}
	if err := authz.Decide(authz.ActionManageOrg, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("org/%s/%s/%s", authCtx.OrganizationID, kind, uuid.New())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err))
		return nil, shared.ErrExternalService
	}

	return &UploadURLResult{
		StorageKey: key,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *OrganizationService) loadForManage(ctx context.Context, authCtx authz.AuthContext) (*identity.Organization, error) {
	if err := authz.Decide(authz.ActionManageOrg, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, authCtx.OrganizationID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return org, nil
}

func (s *OrganizationService) resolveAssetURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, downloadURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign asset download", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
