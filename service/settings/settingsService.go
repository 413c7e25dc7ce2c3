package settingssvc

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/apple00071/onnrides-sub005/model"
)

// CacheTTL bounds how stale a cached setting may be.
const CacheTTL = 5 * time.Minute

type Repo interface {
	Get(ctx context.Context, key string) (string, error)
	CreateDefault(ctx context.Context, key, value string) error
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.Setting, error)
}

type Service interface {
	// Get returns the setting value, serving from a TTL cache. A missing key
	// is created with the default on first read.
	Get(ctx context.Context, key, defaultValue string) (string, error)
	// Set writes the value and busts the cache entry immediately.
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.Setting, error)

	MaintenanceOn(ctx context.Context) (bool, error)
	SetMaintenance(ctx context.Context, enabled bool) error
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

type service struct {
	r Repo

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

func New(r Repo) Service {
	return &service{r: r, cache: make(map[string]cacheEntry), now: time.Now}
}

func (s *service) Get(ctx context.Context, key, defaultValue string) (string, error) {
	s.mu.Lock()
	if e, ok := s.cache[key]; ok && e.expiresAt.After(s.now()) {
		s.mu.Unlock()
		return e.value, nil
	}
	s.mu.Unlock()

	v, err := s.r.Get(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		if cerr := s.r.CreateDefault(ctx, key, defaultValue); cerr != nil {
			return "", cerr
		}
		v, err = defaultValue, nil
	}
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{value: v, expiresAt: s.now().Add(CacheTTL)}
	s.mu.Unlock()
	return v, nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	if err := s.r.Set(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

func (s *service) List(ctx context.Context) ([]model.Setting, error) {
	return s.r.List(ctx)
}

func (s *service) MaintenanceOn(ctx context.Context) (bool, error) {
	v, err := s.Get(ctx, model.SettingMaintenanceMode, "false")
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *service) SetMaintenance(ctx context.Context, enabled bool) error {
	v := "false"
	if enabled {
		v = "true"
	}
	return s.Set(ctx, model.SettingMaintenanceMode, v)
}
