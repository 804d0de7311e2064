package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/valet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Turn = 3
		state.Pending = &domain.Clarification{
			Intent:     "set_brightness",
			Entities:   map[string]any{"level": nil},
			MissingKey: "level",
			AskedTurn:  3,
		}
		state.Remember(domain.Exchange{Turn: 2, Utterance: "hello", Response: "hi"}, 0)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, int64(3), loaded.Turn)
		require.NotNil(t, loaded.Pending)
		assert.Equal(t, "level", loaded.Pending.MissingKey)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "hello", loaded.History[0].Utterance)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		state := domain.NewState(sessionID)
		state.Turn = 1
		require.NoError(t, store.Save(ctx, sessionID, state))

		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Turn = 99
		first.Remember(domain.Exchange{Turn: 99}, 0)

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), second.Turn, "mutating a loaded state must not leak into the store")
		assert.Empty(t, second.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1))
		_ = store.Save(ctx, id2, domain.NewState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
