package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Messages are user-facing; several are localized to
// Indonesian because they surface directly in the UI.
var (
	ErrUnauthenticated = NewDomainError("UNAUTHENTICATED", "Anda harus login terlebih dahulu")
	ErrNoOrganization  = NewDomainError("NO_ORGANIZATION", "Anda belum tergabung dalam organisasi")
	ErrNotFound        = NewDomainError("NOT_FOUND", "Data tidak ditemukan")
	ErrCrossTenant     = NewDomainError("CROSS_TENANT", "Data ini milik organisasi lain")
	ErrForbidden       = NewDomainError("FORBIDDEN", "Anda tidak memiliki izin untuk aksi ini")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Data sudah ada")
	ErrNotDeleted      = NewDomainError("NOT_DELETED", "Dokumen tidak berada di tempat sampah")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Input tidak valid")
	ErrInvalidState    = NewDomainError("INVALID_STATE", "Operasi tidak diizinkan pada status saat ini")
	ErrExternalService = NewDomainError("EXTERNAL_SERVICE_FAILURE", "Layanan eksternal gagal")
)
