package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
)

// FakeStore is an in-memory implementation of the service store contract.
// It mirrors the repository semantics: conflict on duplicate username or
// email, not-found sentinels, owner-scoped task lookups, and cascade delete
// of a user's tasks.
type FakeStore struct {
	mu         sync.Mutex
	users      map[int64]models.User
	tasks      map[int64]models.Task
	nextUserID int64
	nextTaskID int64
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		users: make(map[int64]models.User),
		tasks: make(map[int64]models.Task),
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (f *FakeStore) CreateUser(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("username or email %w", repository.ErrConflict)
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *FakeStore) FindUserByUsername(username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (f *FakeStore) FindUserByID(id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	u := user
	return &u, nil
}

func (f *FakeStore) ListUsers() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]models.User, 0, len(f.users))
	for id := int64(1); id <= f.nextUserID; id++ {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *FakeStore) UpdateUser(id int64, username, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	for otherID, other := range f.users {
		if otherID != id && (other.Username == username || other.Email == email) {
			return nil, fmt.Errorf("username or email %w", repository.ErrConflict)
		}
	}
	user.Username = username
	user.Email = email
	user.UpdatedAt = now()
	f.users[id] = user
	u := user
	return &u, nil
}

func (f *FakeStore) DeleteUser(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	for taskID, task := range f.tasks {
		if task.OwnerID == id {
			delete(f.tasks, taskID)
		}
	}
	delete(f.users, id)
	return nil
}

func (f *FakeStore) CreateTask(task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextTaskID++
	task.ID = f.nextTaskID
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt
	f.tasks[task.ID] = *task
	return nil
}

func (f *FakeStore) ListTasksByOwner(ownerID int64) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := make([]models.Task, 0)
	for id := int64(1); id <= f.nextTaskID; id++ {
		if task, ok := f.tasks[id]; ok && task.OwnerID == ownerID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (f *FakeStore) FindTaskByID(ownerID, taskID int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, fmt.Errorf("task %w", repository.ErrNotFound)
	}
	t := task
	return &t, nil
}

func (f *FakeStore) UpdateTask(ownerID, taskID int64, name, description string, status models.TaskStatus) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, fmt.Errorf("task %w", repository.ErrNotFound)
	}
	task.Name = name
	task.Description = description
	task.Status = status
	task.UpdatedAt = now()
	f.tasks[taskID] = task
	t := task
	return &t, nil
}

func (f *FakeStore) DeleteTask(ownerID, taskID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	task, ok := f.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return fmt.Errorf("task %w", repository.ErrNotFound)
	}
	delete(f.tasks, taskID)
	return nil
}
