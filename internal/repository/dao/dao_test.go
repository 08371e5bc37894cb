package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB starts a throwaway Postgres container and runs the
// migrations against it. Skipped with -short.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping dockertest-backed test in short mode")
	}

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=checkin_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	require.NoError(t, resource.Expire(180))
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("postgres://test:secret@%v/checkin_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 120 * time.Second
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}

		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	return db
}

func TestUserDAO(t *testing.T) {
	db := setupTestDB(t)
	d := NewUserDAO(db)
	ctx := context.Background()

	user, err := d.Insert(ctx, User{
		Email:    "alice@example.com",
		Password: "hashed",
		Name:     "Alice",
		Role:     "participant",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	_, err = d.Insert(ctx, User{
		Email:    "alice@example.com",
		Password: "hashed",
		Name:     "Alice Again",
		Role:     "participant",
	})
	require.ErrorIs(t, err, ErrUserEmailExists)

	found, err := d.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = d.FindByID(ctx, 404)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegistrationDAO(t *testing.T) {
	db := setupTestDB(t)
	d := NewRegistrationDAO(db)
	ctx := context.Background()

	reg, err := d.Insert(ctx, Registration{
		EventID:       1,
		ParticipantID: 10,
		Status:        "pending",
	})
	require.NoError(t, err)
	require.NotZero(t, reg.ID)

	// Duplicate (event, participant) pair violates the composite index.
	_, err = d.Insert(ctx, Registration{
		EventID:       1,
		ParticipantID: 10,
		Status:        "pending",
	})
	require.ErrorIs(t, err, ErrRegistrationExists)

	cred := "vp1.payload.signature"
	reg.Status = "approved"
	reg.Credential = &cred
	updated, err := d.UpdateStatus(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, "approved", updated.Status)
	require.NotNil(t, updated.Credential)

	found, err := d.FindByCredential(ctx, 1, cred)
	require.NoError(t, err)
	require.Equal(t, reg.ID, found.ID)

	_, err = d.FindByCredential(ctx, 2, cred)
	require.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRegistrationDAOVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	d := NewRegistrationDAO(db)
	ctx := context.Background()

	cred := "vp1.payload.signature"
	reg, err := d.Insert(ctx, Registration{
		EventID:       1,
		ParticipantID: 10,
		Status:        "approved",
		Credential:    &cred,
	})
	require.NoError(t, err)

	checkIns := []CheckIn{{Checkpoint: "Registration", OperatorID: 20, Timestamp: time.Now().UTC()}}

	// First writer at version 0 wins.
	require.NoError(t, d.UpdateCheckIns(ctx, reg.ID, 0, checkIns, "checked_in"))

	// A second writer still holding version 0 must conflict.
	err = d.UpdateCheckIns(ctx, reg.ID, 0, checkIns, "checked_in")
	require.ErrorIs(t, err, ErrVersionConflict)

	found, err := d.FindByID(ctx, reg.ID)
	require.NoError(t, err)
	require.Equal(t, 1, found.Version)
	require.Equal(t, "checked_in", found.Status)
	require.Len(t, found.CheckIns, 1)
}

func TestEventDAOCheckpointRegistry(t *testing.T) {
	db := setupTestDB(t)
	d := NewEventDAO(db)
	ctx := context.Background()

	event, err := d.Insert(ctx, Event{
		Name:                "Spring Gala",
		Checkpoints:         []string{"Registration", "Lunch", "Dinner"},
		UnlockedCheckpoints: []string{"Registration"},
	})
	require.NoError(t, err)

	// Unlocking Lunch keeps Registration unlocked.
	updated, err := d.UnlockCheckpoint(ctx, event.ID, "Lunch")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Registration", "Lunch"}, updated.UnlockedCheckpoints)

	// Unlocking Dinner displaces Lunch, not Registration.
	updated, err = d.UnlockCheckpoint(ctx, event.ID, "Dinner")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Registration", "Dinner"}, updated.UnlockedCheckpoints)

	updated, err = d.LockCheckpoint(ctx, event.ID, "Dinner")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Registration"}, updated.UnlockedCheckpoints)

	// Registration itself can be locked and re-unlocked.
	updated, err = d.LockCheckpoint(ctx, event.ID, "Registration")
	require.NoError(t, err)
	require.Empty(t, updated.UnlockedCheckpoints)

	updated, err = d.UnlockCheckpoint(ctx, event.ID, "Registration")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Registration"}, updated.UnlockedCheckpoints)

	_, err = d.UnlockCheckpoint(ctx, event.ID, "Afterparty")
	require.ErrorIs(t, err, ErrUnknownCheckpoint)

	_, err = d.UnlockCheckpoint(ctx, 404, "Lunch")
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestScanLogDAO(t *testing.T) {
	db := setupTestDB(t)
	d := NewScanLogDAO(db)
	ctx := context.Background()

	outcomes := []string{"success", "invalid_credential", "success"}
	for i, outcome := range outcomes {
		_, err := d.Insert(ctx, ScanLog{
			EventID:    1,
			OperatorID: 20,
			Credential: fmt.Sprintf("cred-%v", i),
			Checkpoint: "Registration",
			Outcome:    outcome,
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	logs, err := d.FindByEvent(ctx, 1, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Newest first.
	require.Equal(t, "cred-2", logs[0].Credential)

	logs, err = d.FindByEvent(ctx, 1, "invalid_credential", 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	logs, err = d.FindByEvent(ctx, 1, "", 1, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "cred-1", logs[0].Credential)
}
