package service

import (
	"errors"
	"fmt"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/token"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for every authentication failure.
// Unknown username and wrong password are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// dummyHash is a bcrypt hash compared against when the username does not
// exist, so both failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Store is the persistence contract the service needs. *repository.Repository
// satisfies it; tests use an in-memory fake.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id int64, username, email string) (*models.User, error)
	DeleteUser(id int64) error

	CreateTask(task *models.Task) error
	ListTasksByOwner(ownerID int64) ([]models.Task, error)
	FindTaskByID(ownerID, taskID int64) (*models.Task, error)
	UpdateTask(ownerID, taskID int64, name, description string, status models.TaskStatus) (*models.Task, error)
	DeleteTask(ownerID, taskID int64) error
}

// Mailer sends the registration welcome message. May be absent.
type Mailer interface {
	SendWelcome(to, username string) error
}

// Service handles business logic
type Service struct {
	store  Store
	tokens *token.Manager
	mail   Mailer
	log    *logrus.Logger
}

// NewService initializes a new service. mail may be nil when no SMTP host
// is configured.
func NewService(store Store, tokens *token.Manager, mail Mailer, log *logrus.Logger) *Service {
	return &Service{store: store, tokens: tokens, mail: mail, log: log}
}

// Register creates a new user with a hashed password and issues a token
// for the fresh session.
func (s *Service) Register(username, email, password string) (*models.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, "", err
	}

	tokenString, err := s.tokens.Issue(user.Username, nil, 0)
	if err != nil {
		return nil, "", err
	}

	if s.mail != nil {
		go func() {
			if err := s.mail.SendWelcome(user.Email, user.Username); err != nil {
				s.log.Warnf("Failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, tokenString, nil
}

// Authenticate verifies a username/password pair. Every failure comes back
// as ErrInvalidCredentials.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	user, err := s.store.FindUserByUsername(username)
	if err != nil {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and issues a token with the username as subject
func (s *Service) Login(username, password string) (*models.User, string, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		s.log.Warnf("Invalid login attempt for username: %s", username)
		return nil, "", err
	}

	tokenString, err := s.tokens.Issue(user.Username, nil, 0)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return user, tokenString, nil
}

// GetUser retrieves a user by id
func (s *Service) GetUser(id int64) (*models.User, error) {
	return s.store.FindUserByID(id)
}

// GetUserByUsername retrieves a user by username
func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	return s.store.FindUserByUsername(username)
}

// ListUsers retrieves all users
func (s *Service) ListUsers() ([]models.User, error) {
	return s.store.ListUsers()
}

// UpdateUser updates username and email of an existing user
func (s *Service) UpdateUser(id int64, username, email string) (*models.User, error) {
	user, err := s.store.UpdateUser(id, username, email)
	if err != nil {
		return nil, err
	}
	s.log.Infof("User updated: %s", user.Username)
	return user, nil
}

// DeleteUser deletes a user together with the user's tasks
func (s *Service) DeleteUser(id int64) error {
	if err := s.store.DeleteUser(id); err != nil {
		return err
	}
	s.log.Infof("User deleted: %d", id)
	return nil
}

// CreateTask creates a task bound to its owner
func (s *Service) CreateTask(ownerID int64, name, description string, status models.TaskStatus) (*models.Task, error) {
	task := &models.Task{
		Name:        name,
		Description: description,
		Status:      status,
		OwnerID:     ownerID,
	}
	if err := s.store.CreateTask(task); err != nil {
		return nil, err
	}
	s.log.Infof("Task %d created for user %d", task.ID, ownerID)
	return task, nil
}

// Tasks retrieves all tasks of one user
func (s *Service) Tasks(ownerID int64) ([]models.Task, error) {
	return s.store.ListTasksByOwner(ownerID)
}

// GetTask retrieves a single task owned by the given user
func (s *Service) GetTask(ownerID, taskID int64) (*models.Task, error) {
	return s.store.FindTaskByID(ownerID, taskID)
}

// UpdateTask updates a task owned by the given user
func (s *Service) UpdateTask(ownerID, taskID int64, name, description string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.store.UpdateTask(ownerID, taskID, name, description, status)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Task %d updated for user %d", taskID, ownerID)
	return task, nil
}

// DeleteTask deletes a task owned by the given user
func (s *Service) DeleteTask(ownerID, taskID int64) error {
	if err := s.store.DeleteTask(ownerID, taskID); err != nil {
		return err
	}
	s.log.Infof("Task %d deleted for user %d", taskID, ownerID)
	return nil
}
