package workflow

// ApprovalRules builds the rule set for the conveyance bill approval chain:
// supervisor review, accounts review, management review, then payment by
// accounts or receipt confirmation by the owning employee.
//
// The employee rule from APPROVED_BY_MANAGEMENT additionally requires the
// actor to own the bill; ownership is an identity check, not a role check,
// so it is enforced by the transition engine rather than the table.
func ApprovalRules() RuleSet {
	builder := NewBuilder()

	builder.Configure(StatusSubmitted).
		Permit(RoleSupervisor, ActionApprove, StatusApprovedBySupervisor).
		Permit(RoleSupervisor, ActionReject, StatusRejectedBySupervisor)

	builder.Configure(StatusApprovedBySupervisor).
		Permit(RoleAccounts, ActionApprove, StatusApprovedByAccounts).
		Permit(RoleAccounts, ActionReject, StatusRejectedByAccounts)

	builder.Configure(StatusApprovedByAccounts).
		Permit(RoleManagement, ActionApprove, StatusApprovedByManagement).
		Permit(RoleManagement, ActionReject, StatusRejectedByManagement)

	// No reject path once management has approved: accounts pays out, or the
	// owning employee confirms receipt.
	builder.Configure(StatusApprovedByManagement).
		Permit(RoleAccounts, ActionApprove, StatusPaid).
		Permit(RoleEmployee, ActionApprove, StatusPaid)

	// Rejected statuses and PAID are terminal.

	return builder.Build()
}
