package mailqueue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baustructura/notifier/pkg/mail"
	"github.com/baustructura/notifier/pkg/mailqueue"
)

// brokenStore rejects every enqueue, simulating an unreachable database at
// submission time.
type brokenStore struct {
	*mailqueue.MemoryStore
}

func (s *brokenStore) Enqueue(ctx context.Context, entry mailqueue.Entry) (uuid.UUID, error) {
	return uuid.Nil, errors.New("connection refused")
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()

		_, err := mailqueue.NewService(nil, &fakeCascade{}, nil, testLogger())
		assert.ErrorIs(t, err, mailqueue.ErrStoreNil)
	})

	t.Run("nil cascade", func(t *testing.T) {
		t.Parallel()

		_, err := mailqueue.NewService(mailqueue.NewMemoryStore(), nil, nil, testLogger())
		assert.ErrorIs(t, err, mailqueue.ErrCascadeNil)
	})
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	t.Run("normal priority queues without sending", func(t *testing.T) {
		t.Parallel()

		store := mailqueue.NewMemoryStore()
		cascade := &fakeCascade{provider: "postmark"}
		svc, err := mailqueue.NewService(store, cascade, nil, testLogger())
		require.NoError(t, err)

		ok := svc.Submit(context.Background(), queuedMessage("later"))
		assert.True(t, ok)
		assert.Equal(t, 1, store.Len())
		assert.Zero(t, cascade.callCount())

		// The row waits for the processor in pending state.
		entry, err := store.NextPending(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, mailqueue.StatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
	})

	t.Run("high priority is delivered before submit returns", func(t *testing.T) {
		t.Parallel()

		store := mailqueue.NewMemoryStore()
		cascade := &fakeCascade{provider: "postmark"}
		proc, err := mailqueue.NewProcessor(store, cascade, mailqueue.WithLogger(testLogger()))
		require.NoError(t, err)
		svc, err := mailqueue.NewService(store, cascade, proc, testLogger())
		require.NoError(t, err)

		msg := queuedMessage("urgent")
		msg.Priority = mail.PriorityHigh

		ok := svc.Submit(context.Background(), msg)
		assert.True(t, ok)
		assert.Equal(t, 1, cascade.callCount())

		// The entry is already sent when Submit returns.
		_, err = store.NextPending(context.Background(), 3)
		assert.ErrorIs(t, err, mailqueue.ErrNoPendingEntries)
	})

	t.Run("validation failure rejects synchronously", func(t *testing.T) {
		t.Parallel()

		store := mailqueue.NewMemoryStore()
		cascade := &fakeCascade{provider: "postmark"}
		svc, err := mailqueue.NewService(store, cascade, nil, testLogger())
		require.NoError(t, err)

		ok := svc.Submit(context.Background(), mail.Message{Subject: "no recipient"})
		assert.False(t, ok)
		assert.Zero(t, store.Len(), "nothing may be persisted for invalid messages")
		assert.Zero(t, cascade.callCount())
	})

	t.Run("unreachable store falls back to direct send", func(t *testing.T) {
		t.Parallel()

		store := &brokenStore{MemoryStore: mailqueue.NewMemoryStore()}
		cascade := &fakeCascade{provider: "console"}
		svc, err := mailqueue.NewService(store, cascade, nil, testLogger())
		require.NoError(t, err)

		ok := svc.Submit(context.Background(), queuedMessage("last resort"))
		assert.True(t, ok)
		assert.Equal(t, 1, cascade.callCount())
	})

	t.Run("store and direct send both down", func(t *testing.T) {
		t.Parallel()

		store := &brokenStore{MemoryStore: mailqueue.NewMemoryStore()}
		cascade := &fakeCascade{provider: "console", errs: []error{errors.New("offline")}}
		svc, err := mailqueue.NewService(store, cascade, nil, testLogger())
		require.NoError(t, err)

		ok := svc.Submit(context.Background(), queuedMessage("doomed"))
		assert.False(t, ok)
	})

	t.Run("high priority without processor still queues", func(t *testing.T) {
		t.Parallel()

		store := mailqueue.NewMemoryStore()
		svc, err := mailqueue.NewService(store, &fakeCascade{provider: "postmark"}, nil, testLogger())
		require.NoError(t, err)

		msg := queuedMessage("urgent-ish")
		msg.Priority = mail.PriorityHigh

		assert.True(t, svc.Submit(context.Background(), msg))
		assert.Equal(t, 1, store.Len())
	})
}
