package workflow

import "testing"

func TestApprovalRules_LegalTransitions(t *testing.T) {
	rules := ApprovalRules()

	tests := []struct {
		from   Status
		role   Role
		action Action
		to     Status
	}{
		{StatusSubmitted, RoleSupervisor, ActionApprove, StatusApprovedBySupervisor},
		{StatusSubmitted, RoleSupervisor, ActionReject, StatusRejectedBySupervisor},
		{StatusApprovedBySupervisor, RoleAccounts, ActionApprove, StatusApprovedByAccounts},
		{StatusApprovedBySupervisor, RoleAccounts, ActionReject, StatusRejectedByAccounts},
		{StatusApprovedByAccounts, RoleManagement, ActionApprove, StatusApprovedByManagement},
		{StatusApprovedByAccounts, RoleManagement, ActionReject, StatusRejectedByManagement},
		{StatusApprovedByManagement, RoleAccounts, ActionApprove, StatusPaid},
		{StatusApprovedByManagement, RoleEmployee, ActionApprove, StatusPaid},
	}

	for _, tt := range tests {
		name := string(tt.from) + "/" + string(tt.role) + "/" + string(tt.action)
		t.Run(name, func(t *testing.T) {
			to, ok := rules.Next(tt.from, tt.role, tt.action)
			if !ok {
				t.Fatalf("Next() = not permitted, want %s", tt.to)
			}
			if to != tt.to {
				t.Errorf("Next() = %s, want %s", to, tt.to)
			}
		})
	}
}

func TestApprovalRules_IllegalTransitions(t *testing.T) {
	rules := ApprovalRules()

	tests := []struct {
		name   string
		from   Status
		role   Role
		action Action
	}{
		{"employee cannot approve a fresh submission", StatusSubmitted, RoleEmployee, ActionApprove},
		{"accounts cannot act before the supervisor", StatusSubmitted, RoleAccounts, ActionApprove},
		{"management cannot act before accounts", StatusApprovedBySupervisor, RoleManagement, ActionApprove},
		{"supervisor cannot act twice", StatusApprovedBySupervisor, RoleSupervisor, ActionApprove},
		{"no reject path after management approval", StatusApprovedByManagement, RoleAccounts, ActionReject},
		{"employee cannot reject at payment", StatusApprovedByManagement, RoleEmployee, ActionReject},
		{"paid is terminal", StatusPaid, RoleAccounts, ActionApprove},
		{"rejected is terminal", StatusRejectedByManagement, RoleManagement, ActionApprove},
		{"rejected is terminal for supervisor", StatusRejectedBySupervisor, RoleSupervisor, ActionApprove},
		{"draft is never reachable", StatusDraft, RoleSupervisor, ActionApprove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if to, ok := rules.Next(tt.from, tt.role, tt.action); ok {
				t.Errorf("Next() = %s, want not permitted", to)
			}
		})
	}
}

func TestApprovalRules_PermittedActions(t *testing.T) {
	rules := ApprovalRules()

	actions := rules.PermittedActions(StatusSubmitted, RoleSupervisor)
	if len(actions) != 2 {
		t.Fatalf("PermittedActions() = %v, want approve and reject", actions)
	}

	actions = rules.PermittedActions(StatusApprovedByManagement, RoleAccounts)
	if len(actions) != 1 || actions[0] != ActionApprove {
		t.Fatalf("PermittedActions() = %v, want approve only", actions)
	}

	if actions := rules.PermittedActions(StatusSubmitted, RoleManagement); len(actions) != 0 {
		t.Fatalf("PermittedActions() = %v, want none", actions)
	}
}

func TestApprovalRules_RolePermitted(t *testing.T) {
	rules := ApprovalRules()

	if !rules.RolePermitted(StatusSubmitted, RoleSupervisor) {
		t.Error("supervisor should be permitted on SUBMITTED")
	}
	if rules.RolePermitted(StatusSubmitted, RoleAccounts) {
		t.Error("accounts should not be permitted on SUBMITTED")
	}
	if rules.RolePermitted(StatusPaid, RoleAccounts) {
		t.Error("nothing is permitted on PAID")
	}
}

func TestBuilder_PanicsOnInvalidStatus(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid status")
		}
	}()

	NewBuilder().Configure(Status("BOGUS"))
}

func TestBuilder_PanicsOnInvalidTarget(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target status")
		}
	}()

	NewBuilder().Configure(StatusSubmitted).Permit(RoleSupervisor, ActionApprove, Status("BOGUS"))
}

func TestBuilder_BuildIsImmutable(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatusSubmitted).Permit(RoleSupervisor, ActionApprove, StatusApprovedBySupervisor)
	rules := builder.Build()

	// Later configuration must not leak into the built rule set.
	builder.Configure(StatusSubmitted).Permit(RoleAccounts, ActionApprove, StatusPaid)

	if _, ok := rules.Next(StatusSubmitted, RoleAccounts, ActionApprove); ok {
		t.Error("Build() result should be frozen against later configuration")
	}
}
