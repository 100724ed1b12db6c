package service

import (
	"context"
	"time"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// MonthlyTotal aggregates the bills created in one month
type MonthlyTotal struct {
	Month  string  `json:"month"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// ReportService serves read-only dashboard aggregations. Reads work from a
// store snapshot and need no locking.
type ReportService interface {
	// StatusSummary returns the number of bills per status
	StatusSummary(ctx context.Context) (map[workflow.Status]int, error)

	// MonthlyTotals returns per-month bill counts and amounts for a year
	MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error)

	// ListBills returns all bills, newest first
	ListBills(ctx context.Context) ([]*entity.Bill, error)

	// GetBill returns one bill with items and history
	GetBill(ctx context.Context, id string) (*entity.Bill, error)
}

type reportServiceImpl struct {
	billRepo port.BillRepository
	logger   Logger
}

// NewReportService creates a new ReportService
func NewReportService(billRepo port.BillRepository, logger Logger) ReportService {
	return &reportServiceImpl{
		billRepo: billRepo,
		logger:   logger,
	}
}

// StatusSummary returns the number of bills per status
func (s *reportServiceImpl) StatusSummary(ctx context.Context) (map[workflow.Status]int, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := make(map[workflow.Status]int)
	for _, bill := range bills {
		summary[bill.Status]++
	}
	return summary, nil
}

// MonthlyTotals returns per-month bill counts and amounts for a year
func (s *reportServiceImpl) MonthlyTotals(ctx context.Context, year int) ([]MonthlyTotal, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	totals := make([]MonthlyTotal, 12)
	for i := range totals {
		totals[i].Month = time.Month(i + 1).String()
	}
	for _, bill := range bills {
		created := bill.CreatedAt.UTC()
		if created.Year() != year {
			continue
		}
		idx := int(created.Month()) - 1
		totals[idx].Count++
		totals[idx].Amount += bill.Amount
	}
	return totals, nil
}

// ListBills returns all bills, newest first
func (s *reportServiceImpl) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	return s.billRepo.List(ctx)
}

// GetBill returns one bill with items and history
func (s *reportServiceImpl) GetBill(ctx context.Context, id string) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, workflow.ErrNotFound
	}
	return bill, nil
}
