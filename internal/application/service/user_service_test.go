package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officeflow/conveyance/internal/domain/workflow"
)

func newUserFixture(t *testing.T) (UserService, *memoryUserRepo) {
	t.Helper()
	users := newMemoryUserRepo()
	return NewUserService(users, nopLogger{}), users
}

func registerSupervisor(t *testing.T, svc UserService) string {
	t.Helper()
	supervisor, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Sonia Ahmed",
		Email:    "sonia@example.com",
		Password: "supervisor-pass",
		Role:     workflow.RoleSupervisor,
	})
	require.NoError(t, err)
	return supervisor.ID
}

func TestRegister_EmployeeWithSupervisor(t *testing.T) {
	svc, _ := newUserFixture(t)
	supervisorID := registerSupervisor(t, svc)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:         "Rahim Uddin",
		Email:        "rahim@example.com",
		Password:     "secret-pass",
		Role:         workflow.RoleEmployee,
		SupervisorID: supervisorID,
		Designation:  "Field Engineer",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, supervisorID, user.SupervisorID)
	assert.NotEqual(t, "secret-pass", user.PasswordHash, "password must be stored hashed")
	assert.NotEmpty(t, user.PasswordHash)
}

func TestRegister_EmployeeWithoutSupervisor(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Rahim Uddin",
		Email:    "rahim@example.com",
		Password: "secret-pass",
		Role:     workflow.RoleEmployee,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestRegister_SupervisorMustHoldSupervisorRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	accountant, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Karim Hasan",
		Email:    "karim@example.com",
		Password: "accounts-pass",
		Role:     workflow.RoleAccounts,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Name:         "Rahim Uddin",
		Email:        "rahim@example.com",
		Password:     "secret-pass",
		Role:         workflow.RoleEmployee,
		SupervisorID: accountant.ID,
	})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestRegister_UnknownSupervisor(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:         "Rahim Uddin",
		Email:        "rahim@example.com",
		Password:     "secret-pass",
		Role:         workflow.RoleEmployee,
		SupervisorID: "no-such-user",
	})
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerSupervisor(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Another Sonia",
		Email:    "sonia@example.com",
		Password: "other-pass",
		Role:     workflow.RoleManagement,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestRegister_NonEmployeeDropsSupervisorLink(t *testing.T) {
	svc, _ := newUserFixture(t)
	supervisorID := registerSupervisor(t, svc)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:         "Karim Hasan",
		Email:        "karim@example.com",
		Password:     "accounts-pass",
		Role:         workflow.RoleAccounts,
		SupervisorID: supervisorID,
	})
	require.NoError(t, err)
	assert.Empty(t, user.SupervisorID)
}

func TestRegister_FieldValidation(t *testing.T) {
	svc, _ := newUserFixture(t)

	base := RegisterInput{
		Name:     "Rahim Uddin",
		Email:    "rahim@example.com",
		Password: "secret-pass",
		Role:     workflow.RoleManagement,
	}

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"unknown role", func(in *RegisterInput) { in.Role = workflow.Role("auditor") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, workflow.ErrValidation)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newUserFixture(t)
	registerSupervisor(t, svc)

	user, err := svc.Authenticate(context.Background(), "sonia@example.com", "supervisor-pass")
	require.NoError(t, err)
	assert.Equal(t, workflow.RoleSupervisor, user.Role)

	_, err = svc.Authenticate(context.Background(), "sonia@example.com", "wrong-pass")
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "supervisor-pass")
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	svc, _ := newUserFixture(t)
	supervisorID := registerSupervisor(t, svc)

	user, err := svc.GetUser(context.Background(), supervisorID)
	require.NoError(t, err)
	assert.Equal(t, "sonia@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestListUsers_RoleFilter(t *testing.T) {
	svc, _ := newUserFixture(t)
	supervisorID := registerSupervisor(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:         "Rahim Uddin",
		Email:        "rahim@example.com",
		Password:     "secret-pass",
		Role:         workflow.RoleEmployee,
		SupervisorID: supervisorID,
	})
	require.NoError(t, err)

	supervisors, err := svc.ListUsers(context.Background(), workflow.RoleSupervisor)
	require.NoError(t, err)
	require.Len(t, supervisors, 1)
	assert.Equal(t, supervisorID, supervisors[0].ID)

	all, err := svc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
