package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
)

type invoiceServiceFixture struct {
	invoices *MockInvoiceRepository
	orgs     *MockOrganizationRepository
	counters *MockCounterRepository
	service  *InvoiceService
}

func newInvoiceServiceFixture() *invoiceServiceFixture {
	f := &invoiceServiceFixture{
		invoices: new(MockInvoiceRepository),
		orgs:     new(MockOrganizationRepository),
		counters: new(MockCounterRepository),
	}
	f.service = NewInvoiceService(f.invoices, f.orgs, f.counters, zap.NewNop())
	return f
}

func memberCtx(orgID uuid.UUID) authz.AuthContext {
	return authz.AuthContext{UserID: uuid.New(), OrganizationID: orgID, Role: identity.RoleMember}
}

func adminCtx(orgID uuid.UUID) authz.AuthContext {
	return authz.AuthContext{UserID: uuid.New(), OrganizationID: orgID, Role: identity.RoleAdmin}
}

func testInvoice(t *testing.T, orgID, createdBy uuid.UUID) *document.Invoice {
	t.Helper()
	invoice, err := document.NewInvoice(orgID, createdBy,
		document.Party{Name: "PT Sinar Abadi", Email: "finance@sinarabadi.co.id"},
		"2026-08-01", "2026-08-31", decimal.NewFromInt(11), "")
	require.NoError(t, err)
	require.NoError(t, invoice.AssignNumber("INV-2026-0007"))
	return invoice
}

func TestInvoiceService_Create(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())

	f.invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *document.Invoice) bool {
		// The number is drawn by the repository inside the insert transaction
		return inv.Number == "" && inv.OrganizationID == authCtx.OrganizationID
	})).Return(nil)

	invoice, err := f.service.Create(context.Background(), authCtx, CreateInvoiceInput{
		Customer:  PartyInput{Name: "PT Sinar Abadi"},
		IssueDate: "2026-08-01",
		DueDate:   "2026-08-31",
		TaxRate:   decimal.NewFromInt(11),
		Items: []LineItemInput{
			{Description: "Jasa konsultasi", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1000000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, authCtx.UserID, invoice.CreatedBy)
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(2000000)))
	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromInt(220000)))
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(2220000)))
	f.invoices.AssertExpectations(t)
}

func TestInvoiceService_Create_DueBeforeIssue(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())

	_, err := f.service.Create(context.Background(), authCtx, CreateInvoiceInput{
		Customer:  PartyInput{Name: "PT Sinar Abadi"},
		IssueDate: "2026-08-31",
		DueDate:   "2026-08-01",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DUE_DATE", domainErr.Code)
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_Get_HidesTrashed(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, authCtx.UserID)
	require.NoError(t, invoice.Delete())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)

	_, err := f.service.Get(context.Background(), authCtx, invoice.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvoiceService_Update_MemberCannotEditOthers(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, uuid.New())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)

	_, err := f.service.Update(context.Background(), authCtx, invoice.ID, UpdateInvoiceInput{
		Customer:  PartyInput{Name: "PT Lain"},
		IssueDate: "2026-08-01",
		DueDate:   "2026-08-31",
	})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	f.invoices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, authCtx.UserID)
	require.NoError(t, invoice.MarkSent())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)
	f.invoices.On("Update", mock.Anything, invoice).Return(nil)

	updated, err := f.service.MarkPaid(context.Background(), authCtx, invoice.ID)

	require.NoError(t, err)
	assert.Equal(t, document.StatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)
}

func TestInvoiceService_MarkPaid_TerminalState(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, authCtx.UserID)
	require.NoError(t, invoice.Cancel())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)

	_, err := f.service.MarkPaid(context.Background(), authCtx, invoice.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestInvoiceService_DeleteAndRestore(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := adminCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, uuid.New())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)
	f.invoices.On("Update", mock.Anything, invoice).Return(nil)

	require.NoError(t, f.service.Delete(context.Background(), authCtx, invoice.ID))
	assert.True(t, invoice.IsDeleted())

	restored, err := f.service.Restore(context.Background(), authCtx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive())
	assert.Equal(t, "INV-2026-0007", restored.Number)
}

func TestInvoiceService_Restore_NotDeleted(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := adminCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, uuid.New())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)

	_, err := f.service.Restore(context.Background(), authCtx, invoice.ID)

	assert.ErrorIs(t, err, shared.ErrNotDeleted)
}

func TestInvoiceService_Purge_RequiresTrash(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := adminCtx(uuid.New())
	invoice := testInvoice(t, authCtx.OrganizationID, uuid.New())

	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, invoice.ID).Return(invoice, nil)

	err := f.service.Purge(context.Background(), authCtx, invoice.ID)

	assert.ErrorIs(t, err, shared.ErrNotDeleted)
	f.invoices.AssertNotCalled(t, "Purge", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_PreviewNumber(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	org, err := identity.NewOrganization("Toko Maju Jaya")
	require.NoError(t, err)
	require.NoError(t, org.SetPrefixes(identity.NumberPrefixes{Invoice: "FAKTUR"}))

	year := numbering.CurrentYear()
	f.orgs.On("FindByID", mock.Anything, authCtx.OrganizationID).Return(org, nil)
	f.counters.On("PeekNext", mock.Anything, authCtx.OrganizationID, numbering.DocTypeInvoice, year, "FAKTUR").
		Return(numbering.Allocation{Number: numbering.Format("FAKTUR", year, 8), Sequence: 8}, nil)

	preview, err := f.service.PreviewNumber(context.Background(), authCtx)

	require.NoError(t, err)
	assert.Equal(t, int64(8), preview.Sequence)
	assert.Equal(t, numbering.Format("FAKTUR", year, 8), preview.Number)
}

func TestInvoiceService_CrossTenantContext(t *testing.T) {
	f := newInvoiceServiceFixture()
	authCtx := memberCtx(uuid.New())
	foreign := testInvoice(t, uuid.New(), uuid.New())

	// FindByID is org-scoped, so a foreign document normally never comes back;
	// the policy still rejects it if it ever did.
	f.invoices.On("FindByID", mock.Anything, authCtx.OrganizationID, foreign.ID).Return(foreign, nil)

	_, err := f.service.Update(context.Background(), authCtx, foreign.ID, UpdateInvoiceInput{
		Customer:  PartyInput{Name: "PT Lain"},
		IssueDate: "2026-08-01",
		DueDate:   "2026-08-31",
	})

	assert.ErrorIs(t, err, shared.ErrCrossTenant)
}
