package identity

import (
	"strings"

	"github.com/invois/backend/internal/domain/shared"
)

// NumberPrefixes holds the per-organization document number prefixes.
// Zero values fall back to the system defaults (INV, PO, KWT).
type NumberPrefixes struct {
	Invoice       string `json:"invoice"`
	PurchaseOrder string `json:"purchase_order"`
	Receipt       string `json:"receipt"`
}

// SMTPSettings holds the per-organization outbound mail credentials.
// The relay itself is an opaque external service.
type SMTPSettings struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"from_address"`
	FromName    string `json:"from_name"`
}

// IsConfigured returns true when the settings are complete enough to send
func (s SMTPSettings) IsConfigured() bool {
	return s.Host != "" && s.Port > 0 && s.FromAddress != ""
}

// Organization is the unit of data isolation. Every document, counter and
// member belongs to exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	Name            string         `gorm:"type:varchar(200);not null"`
	Address         string         `gorm:"type:text"`
	Phone           string         `gorm:"type:varchar(50)"`
	Email           string         `gorm:"type:varchar(200)"`
	LogoFileID      string         `gorm:"type:varchar(200)"` // object storage keys, opaque
	SignatureFileID string         `gorm:"type:varchar(200)"`
	StampFileID     string         `gorm:"type:varchar(200)"`
	Prefixes        NumberPrefixes `gorm:"embedded;embeddedPrefix:prefix_"`
	SMTP            SMTPSettings   `gorm:"embedded;embeddedPrefix:smtp_"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new organization
func NewOrganization(name string) (*Organization, error) {
	if err := validateOrgName(name); err != nil {
		return nil, err
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))

	return org, nil
}

// Update updates the organization's profile
func (o *Organization) Update(name, address, phone, email string) error {
	if err := validateOrgName(name); err != nil {
		return err
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Nomor telepon tidak boleh melebihi 50 karakter")
	}
	if email != "" {
		if err := validateUserEmail(email); err != nil {
			return err
		}
	}

	o.Name = strings.TrimSpace(name)
	o.Address = address
	o.Phone = strings.TrimSpace(phone)
	o.Email = strings.ToLower(strings.TrimSpace(email))
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetBranding sets the opaque storage keys for logo, signature and stamp.
// Empty strings clear the corresponding asset.
func (o *Organization) SetBranding(logoFileID, signatureFileID, stampFileID string) {
	o.LogoFileID = logoFileID
	o.SignatureFileID = signatureFileID
	o.StampFileID = stampFileID
	o.Touch()
	o.IncrementVersion()
}

// SetPrefixes overrides the document number prefixes. Prefixes are upper-cased
// and limited to 10 characters; empty values fall back to defaults.
func (o *Organization) SetPrefixes(p NumberPrefixes) error {
	for _, prefix := range []string{p.Invoice, p.PurchaseOrder, p.Receipt} {
		if len(prefix) > 10 {
			return shared.NewDomainError("INVALID_PREFIX", "Prefix nomor maksimal 10 karakter")
		}
	}
	o.Prefixes = NumberPrefixes{
		Invoice:       strings.ToUpper(strings.TrimSpace(p.Invoice)),
		PurchaseOrder: strings.ToUpper(strings.TrimSpace(p.PurchaseOrder)),
		Receipt:       strings.ToUpper(strings.TrimSpace(p.Receipt)),
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetSMTP stores the outbound mail credentials
func (o *Organization) SetSMTP(s SMTPSettings) error {
	if s.Host != "" && (s.Port <= 0 || s.Port > 65535) {
		return shared.NewDomainError("INVALID_SMTP_PORT", "Port SMTP tidak valid")
	}
	o.SMTP = s
	o.Touch()
	o.IncrementVersion()
	return nil
}

func validateOrgName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Nama organisasi tidak boleh kosong")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nama organisasi tidak boleh melebihi 200 karakter")
	}
	return nil
}
