package shared

import "time"

// LifecycleState is the explicit soft-delete state of a document.
// Rather than overloading an optional timestamp as a boolean, the state is
// tagged: Active, Deleted (restorable, carries the deletion time) or Purged
// (hard-deleted, terminal — a purged row no longer exists).
type LifecycleState string

const (
	LifecycleActive  LifecycleState = "active"
	LifecycleDeleted LifecycleState = "deleted"
)

// Lifecycle tracks the soft-delete state of a document row.
// Embedded by document aggregates; DeletedAt is only set while state is
// "deleted".
type Lifecycle struct {
	State     LifecycleState `gorm:"type:varchar(20);not null;default:'active';index"`
	DeletedAt *time.Time     `gorm:"index"`
}

// NewLifecycle returns an active lifecycle
func NewLifecycle() Lifecycle {
	return Lifecycle{State: LifecycleActive}
}

// IsActive returns true if the row has not been soft-deleted
func (l *Lifecycle) IsActive() bool {
	return l.State == LifecycleActive
}

// IsDeleted returns true if the row is in the trash
func (l *Lifecycle) IsDeleted() bool {
	return l.State == LifecycleDeleted
}

// MarkDeleted moves the row into the trash
func (l *Lifecycle) MarkDeleted() error {
	if l.State == LifecycleDeleted {
		return ErrInvalidState
	}
	now := time.Now()
	l.State = LifecycleDeleted
	l.DeletedAt = &now
	return nil
}

// Restore brings the row back from the trash. Fails with NotDeleted when the
// row is already active.
func (l *Lifecycle) Restore() error {
	if l.State != LifecycleDeleted {
		return ErrNotDeleted
	}
	l.State = LifecycleActive
	l.DeletedAt = nil
	return nil
}
