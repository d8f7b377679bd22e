package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invois/backend/internal/domain/document"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/numbering"
)

func newDraftInvoice(t *testing.T, organizationID uuid.UUID) *document.Invoice {
	t.Helper()

	today := document.Today()
	invoice, err := document.NewInvoice(
		organizationID, uuid.New(),
		document.Party{Name: "PT Maju Jaya", Email: "finance@majujaya.co.id"},
		today, today, decimal.Zero, "",
	)
	require.NoError(t, err)
	return invoice
}

func createTestOrganization(t *testing.T, repo *GormOrganizationRepository, name string) *identity.Organization {
	t.Helper()

	org, err := identity.NewOrganization(name)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), org))
	return org
}

// Concurrent invoice creations must never draw the same number and must not
// leave gaps: the ON CONFLICT upsert takes a row lock on the counter key, so
// allocations serialize even when the inserts race.
func TestInvoiceNumbering_ConcurrentAllocation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := newTestDB(t)
	ctx := context.Background()

	orgRepo := NewGormOrganizationRepository(tdb.DB)
	counterRepo := NewGormCounterRepository(tdb.DB)
	invoiceRepo := NewGormInvoiceRepository(tdb.DB, counterRepo, orgRepo)

	org := createTestOrganization(t, orgRepo, "PT Sumber Rejeki")

	const workers = 20
	invoices := make([]*document.Invoice, workers)
	for i := range invoices {
		invoices[i] = newDraftInvoice(t, org.ID)
	}

	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for _, invoice := range invoices {
		wg.Add(1)
		go func(invoice *document.Invoice) {
			defer wg.Done()
			errs <- invoiceRepo.Create(ctx, invoice)
		}(invoice)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	year := numbering.CurrentYear()
	expected := make([]string, 0, workers)
	for seq := int64(1); seq <= workers; seq++ {
		expected = append(expected, numbering.Format("INV", year, seq))
	}
	drawn := make([]string, 0, workers)
	for _, invoice := range invoices {
		drawn = append(drawn, invoice.Number)
	}
	assert.ElementsMatch(t, expected, drawn, "drawn numbers must be distinct and gap-free")

	// The counter landed exactly on the number of documents created
	alloc, err := counterRepo.PeekNext(ctx, org.ID, numbering.DocTypeInvoice, year, "")
	require.NoError(t, err)
	assert.Equal(t, int64(workers+1), alloc.Sequence)
}

func TestInvoiceNumbering_PerOrganizationSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := newTestDB(t)
	ctx := context.Background()

	orgRepo := NewGormOrganizationRepository(tdb.DB)
	counterRepo := NewGormCounterRepository(tdb.DB)
	invoiceRepo := NewGormInvoiceRepository(tdb.DB, counterRepo, orgRepo)

	orgA := createTestOrganization(t, orgRepo, "PT Sinar Abadi")
	orgB := createTestOrganization(t, orgRepo, "CV Karya Mandiri")
	year := numbering.CurrentYear()

	first := newDraftInvoice(t, orgA.ID)
	require.NoError(t, invoiceRepo.Create(ctx, first))
	assert.Equal(t, numbering.Format("INV", year, 1), first.Number)

	second := newDraftInvoice(t, orgA.ID)
	require.NoError(t, invoiceRepo.Create(ctx, second))
	assert.Equal(t, numbering.Format("INV", year, 2), second.Number)

	// Another organization starts its own sequence from 1
	other := newDraftInvoice(t, orgB.ID)
	require.NoError(t, invoiceRepo.Create(ctx, other))
	assert.Equal(t, numbering.Format("INV", year, 1), other.Number)

	// Peeking reports the next number without consuming it
	alloc, err := counterRepo.PeekNext(ctx, orgA.ID, numbering.DocTypeInvoice, year, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), alloc.Sequence)

	alloc, err = counterRepo.PeekNext(ctx, orgA.ID, numbering.DocTypeInvoice, year, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), alloc.Sequence)
}
