package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// receiptComment is recorded when the owning employee confirms payment
const receiptComment = "Payment confirmed by employee"

// TransitionService is the sole authority for changing a bill's status.
// Every accepted transition atomically replaces status and updatedAt and
// appends exactly one history entry; a rejected transition leaves the bill
// completely unchanged.
type TransitionService interface {
	// ApplyAction attempts an approve/reject transition on behalf of the actor.
	// Reject requires a non-empty comment; an approve comment is optional and
	// stored verbatim.
	ApplyAction(ctx context.Context, billID string, actor *entity.User, action workflow.Action, comment string) (*entity.Bill, error)

	// ConfirmReceipt is the employee "receive money" entry point. It performs
	// the same APPROVED_BY_MANAGEMENT -> PAID transition as an accounts
	// payment, authorized only for the bill's owner, with a fixed comment.
	ConfirmReceipt(ctx context.Context, billID string, actor *entity.User) (*entity.Bill, error)

	// CanAct reports whether the actor has any legal move on the bill,
	// including resubmission of the actor's own rejected bill. It is a
	// projection of the transition table, not an independent policy.
	CanAct(bill *entity.Bill, actor *entity.User) bool

	// PermittedActions returns the actions the actor may take on the bill
	PermittedActions(bill *entity.Bill, actor *entity.User) []workflow.Action
}

type transitionServiceImpl struct {
	billRepo    port.BillRepository
	historyRepo port.HistoryRepository
	txManager   port.TransactionManager
	rules       workflow.RuleSet
	logger      Logger

	// Per-bill locks serialize mutations so two simultaneous approvals never
	// both succeed from the same prior state.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTransitionService creates a new TransitionService
func NewTransitionService(
	billRepo port.BillRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	rules workflow.RuleSet,
	logger Logger,
) TransitionService {
	return &transitionServiceImpl{
		billRepo:    billRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		rules:       rules,
		logger:      logger,
		locks:       make(map[string]*sync.Mutex),
	}
}

// ApplyAction attempts an approve/reject transition on behalf of the actor
func (s *transitionServiceImpl) ApplyAction(ctx context.Context, billID string, actor *entity.User, action workflow.Action, comment string) (*entity.Bill, error) {
	if !action.IsValid() {
		return nil, fmt.Errorf("unknown action %q: %w", action, workflow.ErrValidation)
	}
	if action == workflow.ActionReject && comment == "" {
		return nil, fmt.Errorf("reject requires a comment: %w", workflow.ErrValidation)
	}

	lock := s.lockFor(billID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; the rule lookup must see the serialized state.
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("bill %s: %w", billID, workflow.ErrNotFound)
	}

	next, ok := s.rules.Next(bill.Status, actor.Role, action)
	if !ok {
		return nil, fmt.Errorf("%s by %s from %s: %w", action, actor.Role, bill.Status, workflow.ErrInvalidTransition)
	}

	// The employee rule (receipt confirmation) is valid only for the owner.
	if actor.Role == workflow.RoleEmployee && actor.ID != bill.EmployeeID {
		return nil, fmt.Errorf("bill %s belongs to another employee: %w", billID, workflow.ErrUnauthorized)
	}

	return s.commit(ctx, bill, next, actor.ID, comment)
}

// ConfirmReceipt is the employee "receive money" entry point
func (s *transitionServiceImpl) ConfirmReceipt(ctx context.Context, billID string, actor *entity.User) (*entity.Bill, error) {
	lock := s.lockFor(billID)
	lock.Lock()
	defer lock.Unlock()

	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("bill %s: %w", billID, workflow.ErrNotFound)
	}

	if actor.ID != bill.EmployeeID {
		return nil, fmt.Errorf("bill %s belongs to another employee: %w", billID, workflow.ErrUnauthorized)
	}
	if bill.Status != workflow.StatusApprovedByManagement {
		return nil, fmt.Errorf("receipt confirmation from %s: %w", bill.Status, workflow.ErrInvalidTransition)
	}

	return s.commit(ctx, bill, workflow.StatusPaid, actor.ID, receiptComment)
}

// commit applies the decided transition: status, updatedAt and one history
// entry change together or not at all. Callers hold the per-bill lock.
func (s *transitionServiceImpl) commit(ctx context.Context, bill *entity.Bill, next workflow.Status, actorID, comment string) (*entity.Bill, error) {
	now := time.Now().UTC()
	entry := entity.HistoryEntry{
		Status:    next,
		Timestamp: now,
		ActorID:   actorID,
		Comment:   comment,
	}

	previous := bill.Status
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.billRepo.UpdateStatus(txCtx, bill.ID, previous, next, now); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if err := s.historyRepo.Append(txCtx, bill.ID, &entry); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Bill transition failed",
			"bill_id", bill.ID,
			"from", previous.String(),
			"to", next.String(),
			"error", err,
		)
		return nil, err
	}

	bill.Status = next
	bill.UpdatedAt = now
	bill.History = append(bill.History, entry)

	s.logger.Info("Bill transitioned",
		"bill_id", bill.ID,
		"from", previous.String(),
		"to", next.String(),
		"actor_id", actorID,
	)
	return bill, nil
}

// CanAct reports whether the actor has any legal move on the bill. The
// bill's owner is projected through the employee rules whatever role the
// owner holds, matching ConfirmReceipt's ownership-only authorization.
func (s *transitionServiceImpl) CanAct(bill *entity.Bill, actor *entity.User) bool {
	if bill.Status.IsRejected() {
		// The owner may resubmit, which creates a new bill.
		return actor.ID == bill.EmployeeID
	}
	if bill.Status.IsTerminal() {
		return false
	}
	if actor.ID == bill.EmployeeID {
		return s.rules.RolePermitted(bill.Status, workflow.RoleEmployee)
	}
	if actor.Role == workflow.RoleEmployee {
		return false
	}
	return s.rules.RolePermitted(bill.Status, actor.Role)
}

// PermittedActions returns the actions the actor may take on the bill
func (s *transitionServiceImpl) PermittedActions(bill *entity.Bill, actor *entity.User) []workflow.Action {
	if actor.ID == bill.EmployeeID {
		return s.rules.PermittedActions(bill.Status, workflow.RoleEmployee)
	}
	if actor.Role == workflow.RoleEmployee {
		return nil
	}
	return s.rules.PermittedActions(bill.Status, actor.Role)
}

// lockFor returns the mutex serializing mutations of the given bill
func (s *transitionServiceImpl) lockFor(billID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[billID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[billID] = lock
	}
	return lock
}
