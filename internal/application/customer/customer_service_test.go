package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/customer"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
)

// MockRepository is a mock implementation of customer.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[customer.Customer], error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[customer.Customer]), args.Error(1)
}

func newFixture() (*MockRepository, *Service) {
	repo := new(MockRepository)
	return repo, NewService(repo, zap.NewNop())
}

func memberCtx(orgID uuid.UUID) authz.AuthContext {
	return authz.AuthContext{UserID: uuid.New(), OrganizationID: orgID, Role: identity.RoleMember}
}

func adminCtx(orgID uuid.UUID) authz.AuthContext {
	return authz.AuthContext{UserID: uuid.New(), OrganizationID: orgID, Role: identity.RoleAdmin}
}

func TestService_Create(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

	c, err := svc.Create(context.Background(), authCtx, Input{
		Name:  "PT Sinar Abadi",
		Email: "finance@sinarabadi.co.id",
		Phone: "+62-21-5551234",
	})

	require.NoError(t, err)
	assert.Equal(t, "PT Sinar Abadi", c.Name)
	assert.Equal(t, authCtx.OrganizationID, c.OrganizationID)
	assert.Equal(t, authCtx.UserID, c.CreatedBy)
	repo.AssertExpectations(t)
}

func TestService_Create_InvalidName(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())

	_, err := svc.Create(context.Background(), authCtx, Input{Name: "   "})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_NAME", domainErr.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_Unauthenticated(t *testing.T) {
	_, svc := newFixture()

	_, err := svc.Create(context.Background(), authz.AuthContext{}, Input{Name: "PT Sinar Abadi"})

	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestService_Get_NotFound(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())
	id := uuid.New()
	repo.On("FindByID", mock.Anything, authCtx.OrganizationID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Get(context.Background(), authCtx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_List(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())
	filter := shared.DefaultFilter()
	filter.Search = "sinar"

	page := shared.NewPaginated([]customer.Customer{}, 0, 1, 20)
	repo.On("List", mock.Anything, authCtx.OrganizationID, filter).Return(&page, nil)

	result, err := svc.List(context.Background(), authCtx, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
}

func TestService_Update_CreatorMayEdit(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())
	c, err := customer.NewCustomer(authCtx.OrganizationID, authCtx.UserID, "PT Sinar Abadi", "", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, authCtx.OrganizationID, c.ID).Return(c, nil)
	repo.On("Update", mock.Anything, c).Return(nil)

	updated, err := svc.Update(context.Background(), authCtx, c.ID, Input{Name: "PT Sinar Abadi Sejahtera"})

	require.NoError(t, err)
	assert.Equal(t, "PT Sinar Abadi Sejahtera", updated.Name)
}

func TestService_Update_MemberCannotEditOthers(t *testing.T) {
	repo, svc := newFixture()
	authCtx := memberCtx(uuid.New())
	c, err := customer.NewCustomer(authCtx.OrganizationID, uuid.New(), "PT Sinar Abadi", "", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, authCtx.OrganizationID, c.ID).Return(c, nil)

	_, err = svc.Update(context.Background(), authCtx, c.ID, Input{Name: "Nama Baru"})

	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Delete_AdminMayDeleteOthers(t *testing.T) {
	repo, svc := newFixture()
	authCtx := adminCtx(uuid.New())
	c, err := customer.NewCustomer(authCtx.OrganizationID, uuid.New(), "PT Sinar Abadi", "", "", "", "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, authCtx.OrganizationID, c.ID).Return(c, nil)
	repo.On("Delete", mock.Anything, authCtx.OrganizationID, c.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), authCtx, c.ID))
	repo.AssertExpectations(t)
}
