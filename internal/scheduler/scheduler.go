package scheduler

import (
	"fmt"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the slice of the persistence layer the digest job reads from.
type Store interface {
	ListUsers() ([]models.User, error)
	ListTasksByOwner(ownerID int64) ([]models.Task, error)
}

// Mailer delivers the digest messages.
type Mailer interface {
	SendTaskDigest(to, username string, open []models.Task) error
}

// Scheduler runs the periodic open-task digest.
type Scheduler struct {
	c     *cron.Cron
	store Store
	mail  Mailer
	log   *logrus.Logger
}

// New creates a scheduler that mails every user a digest of their unfinished
// tasks on the given cron spec.
func New(spec string, store Store, mail Mailer, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		c:     cron.New(),
		store: store,
		mail:  mail,
		log:   log,
	}
	if _, err := s.c.AddFunc(spec, s.RunDigest); err != nil {
		return nil, fmt.Errorf("invalid digest cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
	s.log.Info("Task digest scheduler started")
}

// Stop stops the scheduler without interrupting a running job.
func (s *Scheduler) Stop() {
	s.c.Stop()
}

// RunDigest mails every user the list of their tasks still in process.
// Users with no open tasks are skipped.
func (s *Scheduler) RunDigest() {
	users, err := s.store.ListUsers()
	if err != nil {
		s.log.Errorf("Digest run failed to list users: %v", err)
		return
	}

	for i := range users {
		user := &users[i]
		tasks, err := s.store.ListTasksByOwner(user.ID)
		if err != nil {
			s.log.Errorf("Digest run failed to list tasks for user %d: %v", user.ID, err)
			continue
		}

		open := make([]models.Task, 0, len(tasks))
		for _, task := range tasks {
			if task.Status == models.StatusInProcess {
				open = append(open, task)
			}
		}
		if len(open) == 0 {
			continue
		}

		if err := s.mail.SendTaskDigest(user.Email, user.Username, open); err != nil {
			s.log.Errorf("Digest delivery failed for user %d: %v", user.ID, err)
		}
	}
}
