package ops

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hpungsan/aas/internal/config"
	"github.com/hpungsan/aas/internal/errors"
	"github.com/hpungsan/aas/internal/raster"
	"github.com/hpungsan/aas/internal/session"
	"github.com/hpungsan/aas/internal/studio"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Env owns the live studio and the collaborators ops need. All studio
// access goes through its mutex, so one Env may back concurrent front ends.
type Env struct {
	DB      *sql.DB
	Config  *config.Config
	Logger  *slog.Logger
	Decoder studio.Decoder

	filter raster.Filter

	mu     sync.Mutex
	studio *studio.Studio
}

// NewEnv builds an Env with an empty studio. A nil logger discards output.
// Decoder defaults to a raster.Decoder honouring cfg.MaxSourcePixels.
func NewEnv(database *sql.DB, cfg *config.Config, logger *slog.Logger) (*Env, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	filter, err := raster.ParseFilter(cfg.ResampleFilter)
	if err != nil {
		return nil, err
	}

	return &Env{
		DB:      database,
		Config:  cfg,
		Logger:  logger,
		Decoder: raster.Decoder{MaxPixels: cfg.MaxSourcePixels},
		filter:  filter,
		studio:  studio.New(studio.WithFilter(filter)),
	}, nil
}

// codec returns the session codec matching this Env's filter.
func (e *Env) codec() session.Codec {
	return session.Codec{Filter: e.filter, MaxPixels: e.Config.MaxSourcePixels}
}

// swap replaces the live studio. Callers must hold e.mu.
func (e *Env) swap(s *studio.Studio) {
	e.studio = s
}

func (e *Env) requireDB() error {
	if e.DB == nil {
		return errors.NewInternal(fmt.Errorf("session store is not configured"))
	}
	return nil
}

func checkContext(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
