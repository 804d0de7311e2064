package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/valet/pkg/adapters/memory"
	"github.com/aretw0/valet/pkg/domain"
	"github.com/aretw0/valet/pkg/middleware"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func sampleState(sessionID string) *domain.State {
	state := domain.NewState(sessionID)
	state.Turn = 3
	state.Pending = &domain.Clarification{
		Intent:     "move_path",
		Entities:   map[string]any{"source_path": "notes.txt"},
		MissingKey: "destination_path",
		AskedTurn:  3,
	}
	state.Remember(domain.Exchange{
		Turn:      3,
		Utterance: "move notes.txt",
		Kind:      domain.FailureNeedsClarification,
		Response:  "I need both a source and a destination path to move.",
		At:        time.Now().UTC(),
	}, 0)
	return state
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	key := generateKey(t)
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "test-session"
	originalState := sampleState(sessionID)

	// 1. Save
	if err := secureStore.Save(ctx, sessionID, originalState); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Verify underlying store directly (should hold only the envelope)
	storedState, err := underlyingStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if storedState.Pending != nil {
		t.Fatalf("Expected pending clarification to be hidden, found: %+v", storedState.Pending)
	}
	if len(storedState.History) != 0 {
		t.Fatalf("Expected history to be hidden, found %d exchanges", len(storedState.History))
	}
	if storedState.Sealed == "" {
		t.Fatal("Expected sealed envelope in stored state")
	}
	if storedState.Turn != 3 {
		t.Errorf("Expected turn to stay readable, got %d", storedState.Turn)
	}

	// 3. Load via middleware (should be decrypted)
	loadedState, err := secureStore.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if loadedState.Pending == nil || loadedState.Pending.Intent != "move_path" {
		t.Fatalf("Expected pending move_path after decryption, got %+v", loadedState.Pending)
	}
	if loadedState.Pending.Entities["source_path"] != "notes.txt" {
		t.Errorf("Expected 'notes.txt', got %v", loadedState.Pending.Entities["source_path"])
	}
	if len(loadedState.History) != 1 || loadedState.History[0].Utterance != "move notes.txt" {
		t.Errorf("Expected history to survive the roundtrip, got %+v", loadedState.History)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	// Setup
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	// Create middleware with OLD key to save initial state
	mwOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	secureStoreOld := mwOld(underlyingStore)

	ctx := context.Background()
	sessionID := "rotation-session"
	originalState := sampleState(sessionID)

	// 1. Save with OLD key
	if err := secureStoreOld.Save(ctx, sessionID, originalState); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 2. Load with NEW key (active) + OLD key (fallback)
	mwNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	secureStoreNew := mwNew(underlyingStore)

	loadedState, err := secureStoreNew.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loadedState.Pending.Entities["source_path"] != "notes.txt" {
		t.Error("Decryption with fallback key failed")
	}

	// 3. Save again (should now seal with NEW key)
	loadedState.Pending.Entities["source_path"] = "journal.txt"
	if err := secureStoreNew.Save(ctx, sessionID, loadedState); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	// 4. Verify we CANNOT load with just the OLD key anymore
	_, err = secureStoreOld.Load(ctx, sessionID)
	if err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainStateFailsSecure(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	sessionID := "plain-session"

	// Write a plain state behind the middleware's back.
	if err := underlyingStore.Save(ctx, sessionID, sampleState(sessionID)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := secureStore.Load(ctx, sessionID); err == nil {
		t.Error("Expected failure when loading a state without a sealed envelope")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
