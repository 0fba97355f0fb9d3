package mode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/flowstate/flowstate-backend/internal/entity"
	redisservice "github.com/flowstate/flowstate-backend/internal/service/redis"
)

const modeKey = "tracker:mode"

// Source holds the current tracker mode as an explicit dependency
// instead of a process-global. Backed by redis when available so the
// flag survives restarts; the in-memory value is the fallback and the
// fast path.
type Source struct {
	cache *redisservice.Service

	mu      sync.RWMutex
	current entity.TrackerMode
}

func NewSource(ctx context.Context, cache *redisservice.Service, fallback entity.TrackerMode) *Source {
	if !fallback.Valid() {
		fallback = entity.ModeFocus
	}

	s := &Source{cache: cache, current: fallback}

	if cache != nil {
		var stored entity.TrackerMode
		if err := cache.Get(ctx, modeKey, &stored); err == nil && stored.Valid() {
			s.current = stored
		}
	}

	return s
}

func (s *Source) Current(_ context.Context) entity.TrackerMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Source) Set(ctx context.Context, m entity.TrackerMode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid tracker mode: %s", m)
	}

	s.mu.Lock()
	s.current = m
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, modeKey, m, 0); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to persist mode: %w", err)
		}
	}

	return nil
}
