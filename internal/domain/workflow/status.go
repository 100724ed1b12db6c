package workflow

// Status represents a bill status in the approval lifecycle
type Status string

const (
	StatusDraft                Status = "DRAFT" // reserved, no transition produces or consumes it
	StatusSubmitted            Status = "SUBMITTED"
	StatusApprovedBySupervisor Status = "APPROVED_BY_SUPERVISOR"
	StatusApprovedByAccounts   Status = "APPROVED_BY_ACCOUNTS"
	StatusApprovedByManagement Status = "APPROVED_BY_MANAGEMENT"
	StatusRejectedBySupervisor Status = "REJECTED_BY_SUPERVISOR"
	StatusRejectedByAccounts   Status = "REJECTED_BY_ACCOUNTS"
	StatusRejectedByManagement Status = "REJECTED_BY_MANAGEMENT"
	StatusPaid                 Status = "PAID"
)

var validStatuses = map[Status]bool{
	StatusDraft:                true,
	StatusSubmitted:            true,
	StatusApprovedBySupervisor: true,
	StatusApprovedByAccounts:   true,
	StatusApprovedByManagement: true,
	StatusRejectedBySupervisor: true,
	StatusRejectedByAccounts:   true,
	StatusRejectedByManagement: true,
	StatusPaid:                 true,
}

var rejectedStatuses = map[Status]bool{
	StatusRejectedBySupervisor: true,
	StatusRejectedByAccounts:   true,
	StatusRejectedByManagement: true,
}

// IsValid returns true if the status is a known bill status
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsRejected returns true for any of the rejection statuses. A rejected bill
// never transitions again; the owner resubmits by creating a new bill.
func (s Status) IsRejected() bool {
	return rejectedStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s Status) IsTerminal() bool {
	return rejectedStatuses[s] || s == StatusPaid
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
