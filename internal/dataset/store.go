package dataset

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "palantir/internal/errors"
)

// Store holds the current snapshot and reloads it lazily once the TTL has
// passed. A TTL of zero disables expiry.
type Store struct {
	mu     sync.RWMutex
	loader Loader
	ttl    time.Duration
	logger *zap.Logger
	frames *Frames
}

func NewStore(loader Loader, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

// Frames returns the current snapshot, loading it on first use or after
// expiry.
func (s *Store) Frames(ctx context.Context) (*Frames, error) {
	s.mu.RLock()
	f := s.frames
	s.mu.RUnlock()

	if f != nil && !s.expired(f) {
		return f, nil
	}
	return s.load(ctx, false)
}

// Refresh reloads the snapshot regardless of its age.
func (s *Store) Refresh(ctx context.Context) (*Frames, error) {
	return s.load(ctx, true)
}

func (s *Store) load(ctx context.Context, force bool) (*Frames, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && s.frames != nil && !s.expired(s.frames) {
		return s.frames, nil
	}

	f, err := s.loader.Load(ctx)
	if err != nil {
		if s.frames != nil {
			// A stale snapshot beats an empty dashboard.
			s.logger.Warn("dataset reload failed, keeping previous snapshot", zap.Error(err))
			return s.frames, nil
		}
		return nil, apperrors.NewDataUnavailableError("dataset not loaded", err)
	}

	s.frames = f
	s.logger.Info("dataset snapshot swapped",
		zap.String("snapshot_id", f.SnapshotID.String()),
		zap.String("source", f.Source),
	)
	return f, nil
}

func (s *Store) expired(f *Frames) bool {
	return s.ttl > 0 && time.Since(f.LoadedAt) > s.ttl
}

// Status describes the store without triggering a load.
type Status struct {
	Loaded     bool
	SnapshotID string
	Source     string
	LoadedAt   time.Time
	Orders     int
	Items      int
	Products   int
	Warnings   []string
	TTL        time.Duration
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{TTL: s.ttl}
	if s.frames == nil {
		return st
	}
	st.Loaded = true
	st.SnapshotID = s.frames.SnapshotID.String()
	st.Source = s.frames.Source
	st.LoadedAt = s.frames.LoadedAt
	st.Orders = len(s.frames.Orders)
	st.Items = len(s.frames.Items)
	st.Products = len(s.frames.Products)
	st.Warnings = s.frames.Warnings
	return st
}
