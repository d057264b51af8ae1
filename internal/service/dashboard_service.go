package service

import (
	"context"
	"errors"
	"nihongo_backend/internal/aggregate"
	"nihongo_backend/internal/repository"
	"nihongo_backend/pkg/logger"
	"nihongo_backend/pkg/monitoring"
	"nihongo_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService builds the aggregate snapshot from the store, the same
// view a client computes after loading every collection.
type DashboardService struct {
	LessonRepo   *repository.LessonRepository
	UserRepo     *repository.UserRepository
	ResultRepo   *repository.ResultRepository
	Activities   *ActivityService
	BookmarkRepo *repository.BookmarkRepository
	Cache        *repository.DashboardCacheRepository

	now func() time.Time
}

func NewDashboardService(
	lessonRepo *repository.LessonRepository,
	userRepo *repository.UserRepository,
	resultRepo *repository.ResultRepository,
	activities *ActivityService,
	bookmarkRepo *repository.BookmarkRepository,
	cache *repository.DashboardCacheRepository,
) *DashboardService {
	return &DashboardService{
		LessonRepo:   lessonRepo,
		UserRepo:     userRepo,
		ResultRepo:   resultRepo,
		Activities:   activities,
		BookmarkRepo: bookmarkRepo,
		Cache:        cache,
		now:          time.Now,
	}
}

// Snapshot returns the cached snapshot for the current cache generation,
// otherwise builds and caches a new one. The generation is read before the
// build, so a write that lands mid-build leaves this snapshot unreachable.
// Cache failures only cost a rebuild.
func (s *DashboardService) Snapshot(ctx context.Context) (*aggregate.Snapshot, error) {
	gen, err := s.Cache.Generation(ctx)
	if err != nil {
		monitoring.DashboardCache.WithLabelValues("error").Inc()
		logger.Log.Warn("Dashboard cache generation read failed", zap.Error(err))
		return s.Build(ctx)
	}

	var cached aggregate.Snapshot
	err = s.Cache.Get(ctx, gen, &cached)
	switch {
	case err == nil:
		monitoring.DashboardCache.WithLabelValues("hit").Inc()
		return &cached, nil
	case errors.Is(err, repository.ErrCacheMiss):
		monitoring.DashboardCache.WithLabelValues("miss").Inc()
	default:
		monitoring.DashboardCache.WithLabelValues("error").Inc()
		logger.Log.Warn("Dashboard cache read failed", zap.Error(err))
	}

	snap, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Set(ctx, gen, snap); err != nil {
		logger.Log.Warn("Dashboard cache write failed", zap.Error(err))
	}
	return snap, nil
}

// Build loads all five collections concurrently and aggregates them. The
// activity feed is the same bounded list clients see.
func (s *DashboardService) Build(ctx context.Context) (*aggregate.Snapshot, error) {
	ctx, span := tracing.Tracer.Start(ctx, "dashboard.build")
	defer span.End()

	var c aggregate.Collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Lessons, err = s.LessonRepo.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.Users, err = s.UserRepo.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.Results, err = s.ResultRepo.FindAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.Activities, err = s.Activities.Recent(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.Bookmarks, err = s.BookmarkRepo.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	snap := aggregate.Build(c, s.now())
	span.SetAttributes(
		attribute.Int("lessons", len(snap.Lessons)),
		attribute.Int("results", len(snap.Results)),
	)
	return &snap, nil
}

// Invalidate drops the cached snapshot after a write.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		logger.Log.Warn("Dashboard cache invalidation failed", zap.Error(err))
	}
}
