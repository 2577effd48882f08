package services

import (
	"context"
	"github.com/google/uuid"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context, filter models.PipelineFilter) (*models.PipelineSnapshot, error)
}

// PipelineSessions keeps one pipeline snapshot per viewing session for a short TTL.
// The store stays the source of truth; a snapshot is never written back.
type PipelineSessions struct {
	loader snapshotLoader
	cache  *gocache.Cache
}

func NewPipelineSessions(loader snapshotLoader, ttl time.Duration) *PipelineSessions {
	return &PipelineSessions{
		loader: loader,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (s *PipelineSessions) NewSessionKey() string {
	return uuid.NewString()
}

// Populate loads a fresh snapshot for the filter and stores it under the session key.
func (s *PipelineSessions) Populate(ctx context.Context, key string, filter models.PipelineFilter) (*models.PipelineSnapshot, error) {
	snapshot, err := s.loader.LoadSnapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, snapshot, gocache.DefaultExpiration)
	return snapshot, nil
}

func (s *PipelineSessions) Get(key string) (*models.PipelineSnapshot, bool) {
	cached, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	return cached.(*models.PipelineSnapshot), true
}

// GetOrPopulate returns the session's snapshot when it was loaded for the same filter.
func (s *PipelineSessions) GetOrPopulate(ctx context.Context, key string, filter models.PipelineFilter) (*models.PipelineSnapshot, error) {
	if snapshot, found := s.Get(key); found && sameFilter(snapshot.Filter, filter) {
		return snapshot, nil
	}
	return s.Populate(ctx, key, filter)
}

func (s *PipelineSessions) Evict(key string) {
	s.cache.Delete(key)
}

func sameFilter(a, b models.PipelineFilter) bool {
	if a.Search != b.Search || a.IncludeClosed != b.IncludeClosed || len(a.RecruitmentIDs) != len(b.RecruitmentIDs) {
		return false
	}
	for i := range a.RecruitmentIDs {
		if a.RecruitmentIDs[i] != b.RecruitmentIDs[i] {
			return false
		}
	}
	return true
}
