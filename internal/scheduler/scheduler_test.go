package scheduler_test

import (
	"io"
	"testing"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/scheduler"
	"github.com/Dan9191/task-service/internal/testutils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	digests map[string][]models.Task
}

func (m *recordingMailer) SendTaskDigest(to, username string, open []models.Task) error {
	if m.digests == nil {
		m.digests = make(map[string][]models.Task)
	}
	m.digests[to] = open
	return nil
}

func TestRunDigestMailsOnlyOpenTasks(t *testing.T) {
	store := testutils.NewFakeStore()

	alice := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(alice))
	bob := &models.User{Username: "bob", Email: "b@x.com", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(bob))

	require.NoError(t, store.CreateTask(&models.Task{Description: "buy milk", OwnerID: alice.ID}))
	require.NoError(t, store.CreateTask(&models.Task{Description: "walk dog", Status: models.StatusFinished, OwnerID: alice.ID}))
	require.NoError(t, store.CreateTask(&models.Task{Description: "all done", Status: models.StatusFinished, OwnerID: bob.ID}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	mailer := &recordingMailer{}
	sched, err := scheduler.New("0 8 * * *", store, mailer, log)
	require.NoError(t, err)

	sched.RunDigest()

	// Alice gets her single open task, Bob has nothing open and gets no mail
	require.Contains(t, mailer.digests, "a@x.com")
	require.Len(t, mailer.digests["a@x.com"], 1)
	assert.Equal(t, "buy milk", mailer.digests["a@x.com"][0].Description)
	assert.NotContains(t, mailer.digests, "b@x.com")
}

func TestNewRejectsBadCronSpec(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	_, err := scheduler.New("not a cron spec", testutils.NewFakeStore(), &recordingMailer{}, log)
	assert.Error(t, err)
}
