// Package customer is the per-organization contact registry. Documents take a
// snapshot of a customer at issue time, so edits here never rewrite issued
// documents.
package customer

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer is a saved billing contact
type Customer struct {
	shared.OrgAggregateRoot

	Name    string `gorm:"type:varchar(200);not null;index"`
	Email   string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(organizationID, createdBy uuid.UUID, name, email, phone, address, notes string) (*Customer, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if err := validate(name, email); err != nil {
		return nil, err
	}

	return &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID, createdBy),
		Name:             strings.TrimSpace(name),
		Email:            strings.TrimSpace(email),
		Phone:            strings.TrimSpace(phone),
		Address:          address,
		Notes:            notes,
	}, nil
}

// Update edits the customer details
func (c *Customer) Update(name, email, phone, address, notes string) error {
	if err := validate(name, email); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Address = address
	c.Notes = notes
	c.Touch()
	return nil
}

func validate(name, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Nama pelanggan tidak boleh kosong")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nama pelanggan tidak boleh melebihi 200 karakter")
	}
	if email != "" && !emailPattern.MatchString(strings.TrimSpace(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Format email tidak valid")
	}
	return nil
}
