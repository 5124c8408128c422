package distlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisLock_ExclusiveUntilReleased(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "report-scheduler", time.Minute)
	b := NewRedisLock(client, "report-scheduler", time.Minute)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("adlens:lock:report-scheduler"))

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Releasing a lock we don't own is a no-op.
	require.NoError(t, b.Release(ctx))
	assert.True(t, mr.Exists(a.Key()))

	require.NoError(t, a.Release(ctx))
	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "job", 10*time.Second)
	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, mr.TTL(a.Key()))

	mr.FastForward(11 * time.Second)
	b := NewRedisLock(client, "job", 10*time.Second)
	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// The expired holder must not delete the new owner's key.
	require.NoError(t, a.Release(ctx))
	assert.True(t, mr.Exists(a.Key()))
}

func TestRun(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	holder := NewRedisLock(client, "run", time.Minute)
	called := false
	err := Run(ctx, NewLock(client, nil, "run", time.Minute), func(context.Context) error {
		called = true
		ok, err := holder.Acquire(ctx)
		require.NoError(t, err)
		assert.False(t, ok, "lock must be held during fn")
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.True(t, called)

	// Released after fn.
	ok, err := holder.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	err = Run(ctx, NewRedisLock(client, "run", time.Minute), func(context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestPGAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPGAdvisoryLock(db, "report-scheduler")

	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WithArgs(l.lockID).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec("SELECT pg_advisory_unlock").
		WithArgs(l.lockID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = l.Acquire(context.Background())
	assert.Error(t, err)

	require.NoError(t, l.Release(context.Background()))
	require.NoError(t, l.Release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAdvisoryLock_NotAcquired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPGAdvisoryLock(db, "report-scheduler")
	mock.ExpectQuery("SELECT pg_try_advisory_lock").
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	ok, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, l.conn)
}
