package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// memoryStore backs the bill and history repositories for tests. It returns
// copies so assertions about stored state are not fooled by aliasing.
type memoryStore struct {
	mu    sync.Mutex
	bills map[string]*entity.Bill
}

func newMemoryStore() *memoryStore {
	return &memoryStore{bills: make(map[string]*entity.Bill)}
}

func cloneBill(bill *entity.Bill) *entity.Bill {
	clone := *bill
	clone.Items = append([]entity.BillItem(nil), bill.Items...)
	clone.History = append([]entity.HistoryEntry(nil), bill.History...)
	return &clone
}

// memoryBillRepo implements port.BillRepository
type memoryBillRepo struct {
	store *memoryStore
}

func (m *memoryBillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	stored := cloneBill(bill)
	stored.History = nil // history arrives through the history repo
	m.store.bills[bill.ID] = stored
	return nil
}

func (m *memoryBillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	bill, exists := m.store.bills[id]
	if !exists {
		return nil, nil
	}
	return cloneBill(bill), nil
}

func (m *memoryBillRepo) List(ctx context.Context) ([]*entity.Bill, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	var bills []*entity.Bill
	for _, bill := range m.store.bills {
		bills = append(bills, cloneBill(bill))
	}
	return bills, nil
}

func (m *memoryBillRepo) UpdateStatus(ctx context.Context, id string, from, to workflow.Status, updatedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	bill, exists := m.store.bills[id]
	if !exists || bill.Status != from {
		return fmt.Errorf("bill %s is no longer in status %s: %w", id, from, workflow.ErrInvalidTransition)
	}
	bill.Status = to
	bill.UpdatedAt = updatedAt
	return nil
}

// memoryHistoryRepo implements port.HistoryRepository
type memoryHistoryRepo struct {
	store *memoryStore
}

func (m *memoryHistoryRepo) Append(ctx context.Context, billID string, entry *entity.HistoryEntry) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	bill, exists := m.store.bills[billID]
	if !exists {
		return fmt.Errorf("bill %s: %w", billID, workflow.ErrNotFound)
	}
	bill.History = append(bill.History, *entry)
	return nil
}

func (m *memoryHistoryRepo) ListByBillID(ctx context.Context, billID string) ([]entity.HistoryEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	bill, exists := m.store.bills[billID]
	if !exists {
		return nil, nil
	}
	return append([]entity.HistoryEntry(nil), bill.History...), nil
}

// memoryUserRepo implements port.UserRepository
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*entity.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[id]
	if !exists {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryUserRepo) List(ctx context.Context, role workflow.Role) ([]*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []*entity.User
	for _, user := range m.users {
		if role != "" && user.Role != role {
			continue
		}
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// nopTxManager runs the function without a real transaction
type nopTxManager struct{}

func (nopTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// nopLogger discards all log output
type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// seedBill stores a bill with the given status and a matching history tail
func seedBill(store *memoryStore, id, employeeID string, status workflow.Status) *entity.Bill {
	now := time.Now().UTC()
	bill := &entity.Bill{
		ID:             id,
		CompanyName:    "Client Corp",
		CompanyAddress: "123 Tech Avenue",
		EmployeeID:     employeeID,
		Amount:         150.75,
		AmountInWords:  "One Hundred Fifty Taka and Seventy Five Poisha",
		Items: []entity.BillItem{
			{ID: id + "-item-1", Date: now, From: "Office", To: "Client Site A", Transport: "Ride Share", Purpose: "Client meeting", Amount: 150.75},
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		History: []entity.HistoryEntry{
			{Status: workflow.StatusSubmitted, Timestamp: now, ActorID: employeeID},
		},
	}
	if status != workflow.StatusSubmitted {
		bill.History = append(bill.History, entity.HistoryEntry{Status: status, Timestamp: now, ActorID: "seed-actor"})
	}

	store.mu.Lock()
	store.bills[id] = bill
	store.mu.Unlock()
	return bill
}

func actor(id string, role workflow.Role) *entity.User {
	return &entity.User{ID: id, Name: "Test " + string(role), Email: id + "@example.com", Role: role}
}
