package entity

import (
	"math"
	"time"

	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// BillItem represents a single conveyance expense line, owned exclusively by
// its parent bill
type BillItem struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Transport string    `json:"transport"`
	Purpose   string    `json:"purpose"`
	Amount    float64   `json:"amount"`
}

// HistoryEntry is one event in a bill's append-only audit trail
type HistoryEntry struct {
	Status    workflow.Status `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	ActorID   string          `json:"actor_id"`
	Comment   string          `json:"comment,omitempty"`
}

// Bill is the aggregate root of a conveyance reimbursement request.
// Header fields and items are immutable after creation; only the transition
// engine changes Status and UpdatedAt, appending one history entry per call.
type Bill struct {
	ID             string          `json:"id"`
	CompanyName    string          `json:"company_name"`
	CompanyAddress string          `json:"company_address"`
	EmployeeID     string          `json:"employee_id"`
	Amount         float64         `json:"amount"`
	AmountInWords  string          `json:"amount_in_words"`
	Items          []BillItem      `json:"items"`
	Status         workflow.Status `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	History        []HistoryEntry  `json:"history"`
}

// ItemTotal returns the sum of the item amounts
func (b *Bill) ItemTotal() float64 {
	var total float64
	for _, item := range b.Items {
		total += item.Amount
	}
	return total
}

// AmountCents rounds a monetary amount to the smallest currency unit.
// Amount invariants compare cents so float representation noise never
// fails an otherwise exact total.
func AmountCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
