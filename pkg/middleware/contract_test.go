package middleware_test

import (
	"testing"

	"github.com/aretw0/valet/pkg/adapters/memory"
	"github.com/aretw0/valet/pkg/middleware"
	"github.com/aretw0/valet/pkg/ports"
)

// Wrapped stores must still honor the full StateStore contract.

func TestEncryptedStore_Contract(t *testing.T) {
	encrypt := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: generateKey(t),
	})
	ports.RunStateStoreContract(t, encrypt(memory.NewStore()))
}

func TestRedactedStore_Contract(t *testing.T) {
	redact := middleware.NewRedactionMiddleware(middleware.RedactionConfig{
		KeyPatterns:   []string{"password", "token"},
		ValuePatterns: []string{`\d{3}-\d{2}-\d{4}`},
	})
	ports.RunStateStoreContract(t, redact(memory.NewStore()))
}

func TestChainedStore_Contract(t *testing.T) {
	encrypt := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: generateKey(t),
	})
	redact := middleware.NewRedactionMiddleware(middleware.RedactionConfig{
		KeyPatterns: []string{"password"},
	})
	ports.RunStateStoreContract(t, middleware.Chain(memory.NewStore(), redact, encrypt))
}
