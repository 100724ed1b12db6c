package port

import (
	"context"
	"time"

	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// BillRepository defines persistence operations for the Bill aggregate
type BillRepository interface {
	// Create persists a new bill with its items. History entries are written
	// through HistoryRepository so creation and transitions share one append path.
	Create(ctx context.Context, bill *entity.Bill) error

	// GetByID loads the full aggregate (items and history), or nil when absent
	GetByID(ctx context.Context, id string) (*entity.Bill, error)

	// List returns all bills with items and history, newest first
	List(ctx context.Context) ([]*entity.Bill, error)

	// UpdateStatus moves a bill from one status to another. The update is
	// guarded on the expected current status; no row updated means the bill
	// is gone or was concurrently moved.
	UpdateStatus(ctx context.Context, id string, from, to workflow.Status, updatedAt time.Time) error
}

// HistoryRepository defines persistence operations for the audit trail.
// Entries are append-only; there is no update or delete.
type HistoryRepository interface {
	Append(ctx context.Context, billID string, entry *entity.HistoryEntry) error
	ListByBillID(ctx context.Context, billID string) ([]entity.HistoryEntry, error)
}

// UserRepository defines persistence operations for the identity directory
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns users, optionally filtered by role (empty role = all)
	List(ctx context.Context, role workflow.Role) ([]*entity.User, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
