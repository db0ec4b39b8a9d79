package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lotusroom/enroll-backend/internal/config"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ClassStore is the data access the catalog needs.
type ClassStore interface {
	Create(ctx context.Context, c *model.Class) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	Update(ctx context.Context, id uuid.UUID, instructorEmail, name string, priceCents int64, availableSeats int) error
	SetApproval(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
	SetFeedback(ctx context.Context, id uuid.UUID, feedback string) error
	ListAll(ctx context.Context) ([]model.Class, error)
	ListApproved(ctx context.Context) ([]model.Class, error)
	ListByInstructor(ctx context.Context, instructorEmail string) ([]model.Class, error)
	ListPopular(ctx context.Context, limit int) ([]model.PopularClass, error)
}

// ClassService handles catalog business logic: instructor submissions,
// admin review, and the public listings. Public listings are cached in
// Redis with a short TTL; review actions invalidate the cache.
type ClassService struct {
	classes  ClassStore
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewClassService creates a new ClassService. rdb may be nil, in which case
// listings always hit the database.
func NewClassService(classes ClassStore, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes:  classes,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "class_service").Logger(),
	}
}

// Create submits a new class for review. It always starts Pending.
func (s *ClassService) Create(ctx context.Context, instructorEmail string, req *model.CreateClassRequest) (*model.Class, error) {
	c := &model.Class{
		ID:              uuid.New(),
		Name:            req.Name,
		InstructorEmail: instructorEmail,
		PriceCents:      req.PriceCents,
		AvailableSeats:  req.AvailableSeats,
		ApprovalStatus:  model.ApprovalPending,
	}
	if err := s.classes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a single class.
func (s *ClassService) GetByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	return s.classes.GetByID(ctx, id)
}

// Update edits a class owned by instructorEmail. The ownership predicate is
// part of the UPDATE itself, so a non-owner gets not-found rather than a
// write.
func (s *ClassService) Update(ctx context.Context, id uuid.UUID, instructorEmail string, req *model.UpdateClassRequest) (*model.Class, error) {
	if err := s.classes.Update(ctx, id, instructorEmail, req.Name, req.PriceCents, req.AvailableSeats); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)
	return s.classes.GetByID(ctx, id)
}

// Approve marks a class as approved for enrollment.
func (s *ClassService) Approve(ctx context.Context, id uuid.UUID) error {
	if err := s.classes.SetApproval(ctx, id, model.ApprovalApproved); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// Deny marks a class as denied.
func (s *ClassService) Deny(ctx context.Context, id uuid.UUID) error {
	if err := s.classes.SetApproval(ctx, id, model.ApprovalDenied); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	return nil
}

// SetFeedback records admin review feedback.
func (s *ClassService) SetFeedback(ctx context.Context, id uuid.UUID, feedback string) error {
	return s.classes.SetFeedback(ctx, id, feedback)
}

// ListAll retrieves every class for the admin review queue.
func (s *ClassService) ListAll(ctx context.Context) ([]model.Class, error) {
	return s.classes.ListAll(ctx)
}

// ListByInstructor retrieves an instructor's own classes.
func (s *ClassService) ListByInstructor(ctx context.Context, instructorEmail string) ([]model.Class, error) {
	return s.classes.ListByInstructor(ctx, instructorEmail)
}

// ListApproved retrieves the public catalog, served from cache when warm.
func (s *ClassService) ListApproved(ctx context.Context) ([]model.Class, error) {
	key := config.CacheKey.ApprovedClassesKey()
	var cached []model.Class
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	classes, err := s.classes.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, classes)
	return classes, nil
}

// ListPopular retrieves approved classes ranked by confirmed enrollments.
func (s *ClassService) ListPopular(ctx context.Context, limit int) ([]model.PopularClass, error) {
	key := config.CacheKey.PopularClassesKey()
	var cached []model.PopularClass
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	classes, err := s.classes.ListPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, classes)
	return classes, nil
}

func (s *ClassService) cacheGet(ctx context.Context, key string, dst interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *ClassService) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

// invalidateListings drops both cached listings. Seat counts also change at
// settlement time; the short TTL bounds that staleness.
func (s *ClassService) invalidateListings(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ApprovedClassesKey(), config.CacheKey.PopularClassesKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}
