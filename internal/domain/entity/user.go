package entity

import (
	"time"

	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// User represents a registered user in the identity directory.
// Users are immutable after registration; no update operations exist.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Role         workflow.Role `json:"role"`
	SupervisorID string        `json:"supervisor_id,omitempty"`
	Designation  string        `json:"designation,omitempty"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}
