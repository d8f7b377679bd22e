package document

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/mail"
)

// MockInvoiceRepository is a mock implementation of document.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *document.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *document.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.Invoice, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Invoice], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error) {
	args := m.Called(ctx, organizationID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of document.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, po *document.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Update(ctx context.Context, po *document.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.PurchaseOrder, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.PurchaseOrder], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) MarkOverdueBatch(ctx context.Context, organizationID *uuid.UUID, today string) (int64, error) {
	args := m.Called(ctx, organizationID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockReceiptRepository is a mock implementation of document.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *document.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) Update(ctx context.Context, receipt *document.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*document.Receipt, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.Receipt]), args.Error(1)
}

func (m *MockReceiptRepository) ListTrash(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.Receipt], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.Receipt]), args.Error(1)
}

func (m *MockReceiptRepository) Purge(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockReceiptRepository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizationRepository is a mock implementation of identity.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// MockCounterRepository is a mock implementation of numbering.CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) PeekNext(ctx context.Context, organizationID uuid.UUID, docType numbering.DocType, year int, prefix string) (numbering.Allocation, error) {
	args := m.Called(ctx, organizationID, docType, year, prefix)
	return args.Get(0).(numbering.Allocation), args.Error(1)
}

func (m *MockCounterRepository) AllocateNext(tx *gorm.DB, organizationID uuid.UUID, docType numbering.DocType, year int, prefix string) (numbering.Allocation, error) {
	args := m.Called(tx, organizationID, docType, year, prefix)
	return args.Get(0).(numbering.Allocation), args.Error(1)
}

// MockEmailLogRepository is a mock implementation of document.EmailLogRepository
type MockEmailLogRepository struct {
	mock.Mock
}

func (m *MockEmailLogRepository) Save(ctx context.Context, log *document.EmailLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockEmailLogRepository) FindByDocument(ctx context.Context, organizationID, documentID uuid.UUID) ([]document.EmailLog, error) {
	args := m.Called(ctx, organizationID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.EmailLog), args.Error(1)
}

func (m *MockEmailLogRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[document.EmailLog], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[document.EmailLog]), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, smtp identity.SMTPSettings, msg mail.Message) error {
	args := m.Called(ctx, smtp, msg)
	return args.Error(0)
}

// MockRenderer is a mock implementation of the renderer interface
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderInvoice(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	args := m.Called(ctx, authCtx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderedDocument), args.Error(1)
}

func (m *MockRenderer) RenderPurchaseOrder(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	args := m.Called(ctx, authCtx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderedDocument), args.Error(1)
}

func (m *MockRenderer) RenderReceipt(ctx context.Context, authCtx authz.AuthContext, id uuid.UUID) (*RenderedDocument, error) {
	args := m.Called(ctx, authCtx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderedDocument), args.Error(1)
}
