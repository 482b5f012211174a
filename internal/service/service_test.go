package service_test

import (
	"io"
	"testing"

	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/service"
	"github.com/Dan9191/task-service/internal/testutils"
	"github.com/Dan9191/task-service/internal/token"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*service.Service, *testutils.FakeStore, *token.Manager) {
	t.Helper()

	store := testutils.NewFakeStore()
	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", 0)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return service.NewService(store, tokens, nil, log), store, tokens
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, store, _ := newTestService(t)

	user, tokenString, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	assert.NotEqual(t, "longenough1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough1")))

	byName, err := store.FindUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byID, err := store.FindUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestRegisterDuplicateDoesNotMutateStore(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)

	_, _, err = svc.Register("alice", "other@x.com", "longenough1")
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, _, err = svc.Register("other", "a@x.com", "longenough1")
	assert.ErrorIs(t, err, repository.ErrConflict)

	users, err := store.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)

	_, err = svc.Authenticate("alice", "wrongpassword")
	wrongPassword := err
	_, err = svc.Authenticate("nobody", "wrongpassword")
	unknownUser := err

	assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, service.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginIssuesTokenForSubject(t *testing.T) {
	svc, _, tokens := newTestService(t)

	_, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)

	user, tokenString, err := svc.Login("alice", "longenough1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	claims, err := tokens.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestTaskOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)

	alice, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)
	bob, _, err := svc.Register("bob", "b@x.com", "longenough1")
	require.NoError(t, err)

	task, err := svc.CreateTask(alice.ID, "", "buy milk", models.StatusInProcess)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, task.OwnerID)

	// Bob cannot see, update or delete Alice's task even with the right id
	_, err = svc.GetTask(bob.ID, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.UpdateTask(bob.ID, task.ID, "stolen", "stolen", models.StatusFinished)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = svc.DeleteTask(bob.ID, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := svc.GetTask(alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Description)
}

func TestUpdateTaskChangesStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	alice, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)

	task, err := svc.CreateTask(alice.ID, "chores", "buy milk", models.StatusInProcess)
	require.NoError(t, err)

	updated, err := svc.UpdateTask(alice.ID, task.ID, "chores", "buy milk", models.StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, updated.Status)
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	svc, store, _ := newTestService(t)

	alice, _, err := svc.Register("alice", "a@x.com", "longenough1")
	require.NoError(t, err)
	_, err = svc.CreateTask(alice.ID, "", "buy milk", models.StatusInProcess)
	require.NoError(t, err)
	_, err = svc.CreateTask(alice.ID, "", "walk dog", models.StatusInProcess)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(alice.ID))

	tasks, err := store.ListTasksByOwner(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	err = svc.DeleteUser(alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
