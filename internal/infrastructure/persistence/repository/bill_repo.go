package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// BillRepository implements port.BillRepository on SQLite
type BillRepository struct {
	db      *sql.DB
	history port.HistoryRepository
	logger  *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, history port.HistoryRepository, logger *zap.Logger) port.BillRepository {
	return &BillRepository{
		db:      db,
		history: history,
		logger:  logger,
	}
}

// Create persists a new bill with its items
func (r *BillRepository) Create(ctx context.Context, bill *entity.Bill) error {
	query := `
		INSERT INTO bills (
			id, company_name, company_address, employee_id,
			amount, amount_in_words, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ex := getExecutor(ctx, r.db)
	_, err := ex.ExecContext(ctx, query,
		bill.ID,
		bill.CompanyName,
		bill.CompanyAddress,
		bill.EmployeeID,
		bill.Amount,
		bill.AmountInWords,
		bill.Status.String(),
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.String("bill_id", bill.ID), zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}

	itemQuery := `
		INSERT INTO bill_items (
			id, bill_id, travel_date, from_location, to_location,
			transport, purpose, amount, seq
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, item := range bill.Items {
		_, err := ex.ExecContext(ctx, itemQuery,
			item.ID,
			bill.ID,
			item.Date,
			item.From,
			item.To,
			item.Transport,
			item.Purpose,
			item.Amount,
			i,
		)
		if err != nil {
			r.logger.Error("Failed to create bill item", zap.String("bill_id", bill.ID), zap.Error(err))
			return fmt.Errorf("failed to create bill item: %w", err)
		}
	}

	return nil
}

// GetByID loads the full aggregate, or nil when absent
func (r *BillRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	query := `
		SELECT id, company_name, company_address, employee_id,
			amount, amount_in_words, status, created_at, updated_at
		FROM bills
		WHERE id = ?
	`

	var bill entity.Bill
	var status string

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&bill.ID,
		&bill.CompanyName,
		&bill.CompanyAddress,
		&bill.EmployeeID,
		&bill.Amount,
		&bill.AmountInWords,
		&status,
		&bill.CreatedAt,
		&bill.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.String("bill_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Status = workflow.Status(status)

	if err := r.loadItems(ctx, &bill); err != nil {
		return nil, err
	}
	history, err := r.history.ListByBillID(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	bill.History = history

	return &bill, nil
}

// List returns all bills with items and history, newest first
func (r *BillRepository) List(ctx context.Context) ([]*entity.Bill, error) {
	query := `
		SELECT id, company_name, company_address, employee_id,
			amount, amount_in_words, status, created_at, updated_at
		FROM bills
		ORDER BY created_at DESC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*entity.Bill
	for rows.Next() {
		var bill entity.Bill
		var status string
		err := rows.Scan(
			&bill.ID,
			&bill.CompanyName,
			&bill.CompanyAddress,
			&bill.EmployeeID,
			&bill.Amount,
			&bill.AmountInWords,
			&status,
			&bill.CreatedAt,
			&bill.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.Status = workflow.Status(status)
		bills = append(bills, &bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bill := range bills {
		if err := r.loadItems(ctx, bill); err != nil {
			return nil, err
		}
		history, err := r.history.ListByBillID(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		bill.History = history
	}

	return bills, nil
}

// UpdateStatus moves a bill from one status to another. The WHERE clause
// guards on the expected current status so a concurrent writer cannot both
// win from the same prior state.
func (r *BillRepository) UpdateStatus(ctx context.Context, id string, from, to workflow.Status, updatedAt time.Time) error {
	query := `UPDATE bills SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to.String(), updatedAt, id, from.String())
	if err != nil {
		r.logger.Error("Failed to update bill status", zap.String("bill_id", id), zap.Error(err))
		return fmt.Errorf("failed to update bill status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bill %s is no longer in status %s: %w", id, from, workflow.ErrInvalidTransition)
	}

	return nil
}

// loadItems fills the bill's items in submission order
func (r *BillRepository) loadItems(ctx context.Context, bill *entity.Bill) error {
	query := `
		SELECT id, travel_date, from_location, to_location, transport, purpose, amount
		FROM bill_items
		WHERE bill_id = ?
		ORDER BY seq ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, bill.ID)
	if err != nil {
		r.logger.Error("Failed to load bill items", zap.String("bill_id", bill.ID), zap.Error(err))
		return fmt.Errorf("failed to load bill items: %w", err)
	}
	defer rows.Close()

	bill.Items = nil
	for rows.Next() {
		var item entity.BillItem
		err := rows.Scan(
			&item.ID,
			&item.Date,
			&item.From,
			&item.To,
			&item.Transport,
			&item.Purpose,
			&item.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to scan bill item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	return rows.Err()
}

// Verify interface compliance
var _ port.BillRepository = (*BillRepository)(nil)
