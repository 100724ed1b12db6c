package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// HistoryRepository implements port.HistoryRepository on SQLite.
// The bill_history table is append-only; rows are never updated or deleted.
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append adds one event to a bill's audit trail
func (r *HistoryRepository) Append(ctx context.Context, billID string, entry *entity.HistoryEntry) error {
	query := `
		INSERT INTO bill_history (bill_id, status, actor_id, comment, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		billID,
		entry.Status.String(),
		entry.ActorID,
		entry.Comment,
		entry.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append history", zap.String("bill_id", billID), zap.Error(err))
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// ListByBillID returns the audit trail in append order
func (r *HistoryRepository) ListByBillID(ctx context.Context, billID string) ([]entity.HistoryEntry, error) {
	query := `
		SELECT status, actor_id, comment, timestamp
		FROM bill_history
		WHERE bill_id = ?
		ORDER BY id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, billID)
	if err != nil {
		r.logger.Error("Failed to list history", zap.String("bill_id", billID), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []entity.HistoryEntry
	for rows.Next() {
		var entry entity.HistoryEntry
		var status string
		if err := rows.Scan(&status, &entry.ActorID, &entry.Comment, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Status = workflow.Status(status)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
