package customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// Repository handles customer persistence. All reads are scoped to the
// organization.
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[Customer], error)
}
