package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// RegisterInput carries the fields of a registration request
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         workflow.Role
	SupervisorID string
	Designation  string
}

// UserService implements the identity directory and registration
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	ListUsers(ctx context.Context, role workflow.Role) ([]*entity.User, error)
}

type userServiceImpl struct {
	userRepo port.UserRepository
	logger   Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo port.UserRepository, logger Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new user. Employees must name a supervisor; the
// supervisor link is dropped for other roles.
func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	switch {
	case input.Name == "":
		return nil, fmt.Errorf("name is required: %w", workflow.ErrValidation)
	case input.Email == "":
		return nil, fmt.Errorf("email is required: %w", workflow.ErrValidation)
	case input.Password == "":
		return nil, fmt.Errorf("password is required: %w", workflow.ErrValidation)
	case !input.Role.IsValid():
		return nil, fmt.Errorf("unknown role %q: %w", input.Role, workflow.ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("a user with this email already exists: %w", workflow.ErrValidation)
	}

	supervisorID := ""
	if input.Role == workflow.RoleEmployee {
		if input.SupervisorID == "" {
			return nil, fmt.Errorf("an employee must select a supervisor: %w", workflow.ErrValidation)
		}
		supervisor, err := s.userRepo.GetByID(ctx, input.SupervisorID)
		if err != nil {
			return nil, err
		}
		if supervisor == nil || supervisor.Role != workflow.RoleSupervisor {
			return nil, fmt.Errorf("supervisor %s: %w", input.SupervisorID, workflow.ErrNotFound)
		}
		supervisorID = input.SupervisorID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Role:         input.Role,
		SupervisorID: supervisorID,
		Designation:  input.Designation,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "email", input.Email, "error", err)
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role.String())
	return user, nil
}

// Authenticate verifies credentials and returns the user
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password: %w", workflow.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", workflow.ErrUnauthorized)
	}
	return user, nil
}

// GetUser retrieves a user by id
func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, workflow.ErrNotFound)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", email, workflow.ErrNotFound)
	}
	return user, nil
}

// ListUsers returns users, optionally filtered by role
func (s *userServiceImpl) ListUsers(ctx context.Context, role workflow.Role) ([]*entity.User, error) {
	return s.userRepo.List(ctx, role)
}
