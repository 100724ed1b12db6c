package workflow

// Action represents a request that can cause a status transition
type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
)

// IsValid returns true if the action is a known action
func (a Action) IsValid() bool {
	return a == ActionApprove || a == ActionReject
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
