package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// autoApproveComment is recorded on supervisor self-submissions
const autoApproveComment = "Auto-approved for supervisor"

// BillHeader carries the immutable header fields of a new bill
type BillHeader struct {
	CompanyName    string
	CompanyAddress string
	EmployeeID     string
	AmountInWords  string
	TotalAmount    float64
}

// BillItemInput is one expense line of a new bill
type BillItemInput struct {
	Date      time.Time
	From      string
	To        string
	Transport string
	Purpose   string
	Amount    float64
}

// SubmissionService validates and assembles new bills. Resubmission after a
// rejection goes through here too: it creates a brand-new bill and never
// touches the rejected one.
type SubmissionService interface {
	Submit(ctx context.Context, header BillHeader, items []BillItemInput, submitterRole workflow.Role) (*entity.Bill, error)
}

type submissionServiceImpl struct {
	billRepo    port.BillRepository
	historyRepo port.HistoryRepository
	userRepo    port.UserRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	billRepo port.BillRepository,
	historyRepo port.HistoryRepository,
	userRepo port.UserRepository,
	txManager port.TransactionManager,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		billRepo:    billRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Submit validates the header and items and persists the new bill.
// A supervisor's own submission is created already approved, with the
// SUBMITTED and APPROVED_BY_SUPERVISOR history entries both stamped at
// creation and attributed to the bill's subject.
func (s *submissionServiceImpl) Submit(ctx context.Context, header BillHeader, items []BillItemInput, submitterRole workflow.Role) (*entity.Bill, error) {
	// The caller boundary authorizes submitters; reject unexpected roles anyway.
	if !submitterRole.CanSubmit() {
		return nil, fmt.Errorf("role %q cannot submit bills: %w", submitterRole, workflow.ErrUnauthorized)
	}

	if err := validateHeader(header); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	// The caller supplies the total; verify it server-side instead of
	// trusting it. Mismatch is a hard reject for auditability.
	var itemTotal float64
	for _, item := range items {
		itemTotal += item.Amount
	}
	if entity.AmountCents(itemTotal) != entity.AmountCents(header.TotalAmount) {
		return nil, fmt.Errorf("total amount %.2f does not match item sum %.2f: %w",
			header.TotalAmount, itemTotal, workflow.ErrValidation)
	}

	employee, err := s.userRepo.GetByID(ctx, header.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("employee %s: %w", header.EmployeeID, workflow.ErrNotFound)
	}

	now := time.Now().UTC()
	bill := &entity.Bill{
		ID:             uuid.NewString(),
		CompanyName:    header.CompanyName,
		CompanyAddress: header.CompanyAddress,
		EmployeeID:     header.EmployeeID,
		Amount:         header.TotalAmount,
		AmountInWords:  header.AmountInWords,
		Status:         workflow.StatusSubmitted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, item := range items {
		bill.Items = append(bill.Items, entity.BillItem{
			ID:        uuid.NewString(),
			Date:      item.Date,
			From:      item.From,
			To:        item.To,
			Transport: item.Transport,
			Purpose:   item.Purpose,
			Amount:    item.Amount,
		})
	}

	bill.History = []entity.HistoryEntry{
		{Status: workflow.StatusSubmitted, Timestamp: now, ActorID: header.EmployeeID},
	}
	if submitterRole == workflow.RoleSupervisor {
		bill.Status = workflow.StatusApprovedBySupervisor
		bill.History = append(bill.History, entity.HistoryEntry{
			Status:    workflow.StatusApprovedBySupervisor,
			Timestamp: now,
			ActorID:   header.EmployeeID,
			Comment:   autoApproveComment,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.billRepo.Create(txCtx, bill); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		for i := range bill.History {
			if err := s.historyRepo.Append(txCtx, bill.ID, &bill.History[i]); err != nil {
				return fmt.Errorf("append history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create bill", "employee_id", header.EmployeeID, "error", err)
		return nil, err
	}

	s.logger.Info("Bill submitted",
		"bill_id", bill.ID,
		"employee_id", bill.EmployeeID,
		"status", bill.Status.String(),
		"amount", bill.Amount,
	)
	return bill, nil
}

func validateHeader(header BillHeader) error {
	switch {
	case header.CompanyName == "":
		return fmt.Errorf("company name is required: %w", workflow.ErrValidation)
	case header.CompanyAddress == "":
		return fmt.Errorf("company address is required: %w", workflow.ErrValidation)
	case header.EmployeeID == "":
		return fmt.Errorf("employee id is required: %w", workflow.ErrValidation)
	case header.AmountInWords == "":
		return fmt.Errorf("amount in words is required: %w", workflow.ErrValidation)
	}
	return nil
}

func validateItems(items []BillItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one bill item is required: %w", workflow.ErrValidation)
	}
	for i, item := range items {
		if item.Amount <= 0 {
			return fmt.Errorf("item %d amount must be positive: %w", i, workflow.ErrValidation)
		}
	}
	return nil
}
