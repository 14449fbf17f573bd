package portfolio

import (
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
	"github.com/mtlprog/sipplan/internal/growth"
)

// Service runs aggregations, memoizing per-stream projections for ttl.
// A zero ttl disables the cache.
type Service struct {
	cache *projectionCache
}

// NewService creates a new portfolio Service.
func NewService(ttl time.Duration) *Service {
	s := &Service{}
	if ttl > 0 {
		s.cache = newProjectionCache(ttl)
	}
	return s
}

// Project aggregates streams over horizonYears. Results are identical to Aggregate.
func (s *Service) Project(streams []domain.ContributionStream, policy domain.StepUpPolicy, horizonYears int) (domain.Portfolio, error) {
	if s.cache == nil {
		return Aggregate(streams, policy, horizonYears)
	}
	return aggregate(s.cachedProject, streams, policy, horizonYears)
}

// PruneCache removes expired memoized projections and reports how many were dropped.
func (s *Service) PruneCache() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.prune(time.Now())
}

func (s *Service) cachedProject(stream domain.ContributionStream, policy domain.StepUpPolicy, months int) (domain.ProjectionResult, error) {
	key := cacheKey(stream, policy, months)
	if r, ok := s.cache.get(key); ok {
		return r, nil
	}
	r, err := growth.ProjectStepUpSIP(stream, policy, months)
	if err != nil {
		return domain.ProjectionResult{}, err
	}
	s.cache.set(key, r)
	return r, nil
}
