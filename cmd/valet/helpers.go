package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/valet"
	"github.com/aretw0/valet/internal/config"
	"github.com/aretw0/valet/internal/logging"
	"github.com/aretw0/valet/internal/providers"
	loamadapter "github.com/aretw0/valet/pkg/adapters/loam"
	"github.com/aretw0/valet/pkg/adapters/memory"
	"github.com/aretw0/valet/pkg/adapters/openai"
	redisadapter "github.com/aretw0/valet/pkg/adapters/redis"
	"github.com/aretw0/valet/pkg/middleware"
	"github.com/aretw0/valet/pkg/ports"
)

// loadConfig reads the configuration honoring the persistent --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newLogger builds the config-driven logger for long-running commands.
// Plain text output upgrades to a colorized handler on interactive terminals.
func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level := parseLevel(cfg.Log.Level)
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}

	switch cfg.Log.Format {
	case "json":
		return logging.NewJSON(level)
	case "pretty":
		return logging.NewPretty(level)
	default:
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return logging.NewPretty(level)
		}
		return logging.New(level)
	}
}

// createLogger configures the logger for interactive commands.
// In debug mode, it writes to Stderr (to separate from the Stdout chat flow).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildStateStore creates the configured session backend wrapped with the
// security middleware, plus a distributed locker when the backend supports one.
// The returned func releases the backend's connections.
func buildStateStore(cfg config.Config) (ports.StateStore, ports.DistributedLocker, func(), error) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
		closer = func() {}
	)

	switch cfg.Session.Backend {
	case "redis":
		var opts []redisadapter.Option
		if cfg.Session.TTL > 0 {
			opts = append(opts, redisadapter.WithTTL(cfg.Session.TTL))
		}
		rs := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		store = rs
		locker = redisadapter.NewLocker(rs.Client(), redisadapter.DefaultPrefix)
		closer = func() { _ = rs.Close() }
	default:
		store = memory.NewStore()
	}

	wrapped, err := wrapStateStore(cfg, store)
	if err != nil {
		closer()
		return nil, nil, nil, err
	}
	return wrapped, locker, closer, nil
}

// wrapStateStore applies the security middleware. Redaction runs before
// encryption, so the sealed envelope only ever contains masked state.
func wrapStateStore(cfg config.Config, store ports.StateStore) (ports.StateStore, error) {
	var mws []middleware.Middleware

	if len(cfg.Security.RedactKeys) > 0 || len(cfg.Security.RedactValues) > 0 {
		mws = append(mws, middleware.NewRedactionMiddleware(middleware.RedactionConfig{
			KeyPatterns:   cfg.Security.RedactKeys,
			ValuePatterns: cfg.Security.RedactValues,
		}))
	}

	if cfg.Security.EncryptionKey != "" {
		active, err := decodeKey(cfg.Security.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("security.encryption_key: %w", err)
		}
		var fallbacks [][]byte
		for i, raw := range cfg.Security.FallbackKeys {
			key, err := decodeKey(raw)
			if err != nil {
				return nil, fmt.Errorf("security.fallback_keys[%d]: %w", i, err)
			}
			fallbacks = append(fallbacks, key)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}

	if len(mws) == 0 {
		return store, nil
	}
	return middleware.Chain(store, mws...), nil
}

func decodeKey(raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want 32 bytes after decoding, got %d", len(key))
	}
	return key, nil
}

// openAssistant assembles the assistant from the configuration: session store,
// security middleware, language model, and intent packs. The returned func
// releases backend connections and must be called when done.
func openAssistant(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...valet.Option) (*valet.Assistant, func(), error) {
	store, locker, closer, err := buildStateStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []valet.Option{
		valet.WithStore(store),
		valet.WithLogger(logger),
		valet.WithLLMTimeout(cfg.LLM.Timeout),
		valet.WithHistoryLimit(cfg.Session.HistoryLimit),
		valet.WithDefaultSession(cfg.Session.DefaultID),
		valet.WithRoot(cfg.Files.Root),
	}
	if locker != nil {
		opts = append(opts, valet.WithLocker(locker))
	}
	if cfg.LLM.APIKey != "" {
		var clientOpts []openai.Option
		if cfg.LLM.Model != "" {
			clientOpts = append(clientOpts, openai.WithModel(cfg.LLM.Model))
		}
		if cfg.LLM.BaseURL != "" {
			clientOpts = append(clientOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}
		opts = append(opts, valet.WithCompleter(openai.New(cfg.LLM.APIKey, clientOpts...)))
	}

	var pack *loamadapter.Pack
	if cfg.Packs.Dir != "" {
		loader, err := loamadapter.Open(cfg.Packs.Dir, providers.NewExecRunner(providers.DefaultCommandTimeout))
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("opening intent pack %q: %w", cfg.Packs.Dir, err)
		}
		pack, err = loader.Load(ctx)
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("loading intent pack %q: %w", cfg.Packs.Dir, err)
		}
		opts = append(opts, valet.WithIntents(pack.Definitions...))
	}

	assistant, err := valet.New(append(opts, extra...)...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	if pack != nil {
		for name, provider := range pack.Providers {
			assistant.Register(name, provider)
		}
		logger.Info("Intent pack loaded", "dir", cfg.Packs.Dir, "intents", len(pack.Definitions))
	}

	return assistant, closer, nil
}
