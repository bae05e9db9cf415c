package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/nuex"
	"github.com/aretw0/nuex/internal/config"
	"github.com/aretw0/nuex/internal/demo"
	"github.com/aretw0/nuex/internal/logging"
	"github.com/aretw0/nuex/pkg/adapters/memory"
	"github.com/aretw0/nuex/pkg/adapters/redis"
	"github.com/aretw0/nuex/pkg/persistence/middleware"
	"github.com/aretw0/nuex/pkg/ports"
	"github.com/spf13/cobra"
)

// session is the demo store with everything the commands wire around it.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	journal ports.Journal
	store   *nuex.Store[demo.App]
	closers []io.Closer
}

func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logging.New(logging.ParseLevel(cfg.LogLevel)), nil
}

// openSession builds the demo store from the configuration of cmd.
func openSession(cmd *cobra.Command, opts ...nuex.Option) (*session, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger}

	if cfg.Redis.Addr != "" {
		j := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithStream(cfg.Redis.Stream),
			redis.WithMaxLen(cfg.Redis.MaxLen, true),
		)
		s.journal = j
		s.closers = append(s.closers, j)
		logger.Info("Journaling commits to redis", "addr", cfg.Redis.Addr, "stream", cfg.Redis.Stream)
	} else {
		s.journal = memory.NewJournal()
	}
	if s.journal, err = wrapJournal(s.journal, cfg.Journal); err != nil {
		s.Close()
		return nil, err
	}

	// commands without a --delay flag get synchronous counter actions
	delay, _ := cmd.Flags().GetDuration("delay")

	opts = append([]nuex.Option{nuex.WithLogger(logger), nuex.WithJournal(s.journal)}, opts...)
	store, err := demo.New(demo.Options{Strict: cfg.Strict, State: cfg.State, Delay: delay}, opts...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	s.store = store
	return s, nil
}

// wrapJournal applies the redaction and encryption middlewares configured in cfg.
func wrapJournal(j ports.Journal, cfg config.JournalConfig) (ports.Journal, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid journal encryption key: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(j, mws...), nil
}

func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("Close failed", "error", err)
		}
	}
}
