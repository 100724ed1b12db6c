package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/officeflow/conveyance/internal/application/port"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
)

// UserRepository implements port.UserRepository on SQLite
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (
			id, name, email, role, supervisor_id, designation, password_hash, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var supervisorID sql.NullString
	if user.SupervisorID != "" {
		supervisorID = sql.NullString{String: user.SupervisorID, Valid: true}
	}

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role.String(),
		supervisorID,
		user.Designation,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id, or nil when absent
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email, or nil when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

// List returns users, optionally filtered by role
func (r *UserRepository) List(ctx context.Context, role workflow.Role) ([]*entity.User, error) {
	query := `
		SELECT id, name, email, role, supervisor_id, designation, password_hash, created_at
		FROM users
	`
	var args []interface{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role.String())
	}
	query += ` ORDER BY name ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*entity.User, error) {
	query := `
		SELECT id, name, email, role, supervisor_id, designation, password_hash, created_at
		FROM users ` + where

	user, err := scanUser(getExecutor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// scanUser maps one row to a User using the given scan function
func scanUser(scan func(dest ...interface{}) error) (*entity.User, error) {
	var user entity.User
	var role string
	var supervisorID sql.NullString

	err := scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&supervisorID,
		&user.Designation,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = workflow.Role(role)
	if supervisorID.Valid {
		user.SupervisorID = supervisorID.String
	}
	return &user, nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
