package repository

import (
	"database/sql"
	"fmt"

	"github.com/Dan9191/task-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the users and tasks tables if they do not exist yet.
func (r *Repository) EnsureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(30) UNIQUE NOT NULL,
			email VARCHAR(254) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS tasks (
			id SERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL DEFAULT '',
			description VARCHAR(500) NOT NULL,
			status BOOLEAN NOT NULL DEFAULT FALSE,
			owner_id INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("username or email %w", ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return tx.Commit()
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users
func (r *Repository) ListUsers() ([]models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		ORDER BY id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates username and email of an existing user
func (r *Repository) UpdateUser(id int64, username, email string) (*models.User, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	user := &models.User{}
	query := `
		UPDATE users
		SET username = $1, email = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, username, email, password_hash, created_at, updated_at`
	err = tx.QueryRow(query, username, email, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("username or email %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return user, nil
}

// DeleteUser deletes a user and all of the user's tasks in one transaction.
// Tasks go first so no orphaned task can outlive its owner.
func (r *Repository) DeleteUser(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks WHERE owner_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user tasks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	return tx.Commit()
}

// CreateTask creates a new task bound to its owner
func (r *Repository) CreateTask(task *models.Task) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (name, description, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(query, task.Name, task.Description, bool(task.Status), task.OwnerID).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return tx.Commit()
}

// ListTasksByOwner retrieves all tasks of one user
func (r *Repository) ListTasksByOwner(ownerID int64) ([]models.Task, error) {
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		var status bool
		if err := rows.Scan(&task.ID, &task.Name, &task.Description, &status, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Status = models.TaskStatus(status)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindTaskByID retrieves a task by id and owner. Ownership is part of the
// lookup predicate, so a task owned by someone else is indistinguishable
// from a missing one.
func (r *Repository) FindTaskByID(ownerID, taskID int64) (*models.Task, error) {
	task := &models.Task{}
	var status bool
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2`
	err := r.db.QueryRow(query, taskID, ownerID).
		Scan(&task.ID, &task.Name, &task.Description, &status, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	task.Status = models.TaskStatus(status)
	return task, nil
}

// UpdateTask updates a task by id and owner
func (r *Repository) UpdateTask(ownerID, taskID int64, name, description string, status models.TaskStatus) (*models.Task, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	task := &models.Task{}
	var stored bool
	query := `
		UPDATE tasks
		SET name = $1, description = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND owner_id = $5
		RETURNING id, name, description, status, owner_id, created_at, updated_at`
	err = tx.QueryRow(query, name, description, bool(status), taskID, ownerID).
		Scan(&task.ID, &task.Name, &task.Description, &stored, &task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	task.Status = models.TaskStatus(stored)
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task by id and owner
func (r *Repository) DeleteTask(ownerID, taskID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %w", ErrNotFound)
	}
	return tx.Commit()
}
