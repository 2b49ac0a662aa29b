package trips

import (
	"context"
	"errors"

	"denchetravel/internal/shared/constants"
	"denchetravel/pkg/cache"

	"github.com/google/uuid"
)

var ErrSlugTaken = errors.New("trip slug already in use")

type Service interface {
	Create(ctx context.Context, req CreateTripRequest) (*Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetBySlug(ctx context.Context, slug string) (*Trip, error)
	GetActive(ctx context.Context) ([]Trip, error)
	GetFeatured(ctx context.Context) ([]Trip, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a trip service. cacheService may be nil, in which case
// all reads go straight to the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) Create(ctx context.Context, req CreateTripRequest) (*Trip, error) {
	if existing, err := s.repo.GetBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, ErrSlugTaken
	}

	trip := &Trip{
		Slug:          req.Slug,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		HeroImageURL:  req.HeroImageURL,
		DescriptionMD: req.DescriptionMD,
		ItineraryMD:   req.ItineraryMD,
		Highlights:    req.Highlights,
		Difficulty:    req.Difficulty,
		Included:      req.Included,
		NotIncluded:   req.NotIncluded,
		GroupSizeMin:  req.GroupSizeMin,
		GroupSizeMax:  req.GroupSizeMax,
		Languages:     req.Languages,
		Accommodation: req.Accommodation,
		MeetingPoint:  req.MeetingPoint,
		MeetingMapURL: req.MeetingMapURL,
		VisaNotesMD:   req.VisaNotesMD,
		PackingListMD: req.PackingListMD,
		FAQ:           req.FAQ,
		Featured:      req.Featured,
		Active:        true,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx, trip.Slug)
	return trip, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug serves the trip detail page. Cached, but departures carried in the
// payload are a snapshot: live availability comes from the departures endpoint.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Trip, error) {
	if s.cache == nil {
		return s.repo.GetBySlug(ctx, slug)
	}

	var trip Trip
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_TRIP_BY_SLUG+slug, constants.TTL_TRIP_DETAIL,
		func() (interface{}, error) {
			return s.repo.GetBySlug(ctx, slug)
		}, &trip)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (s *service) GetActive(ctx context.Context) ([]Trip, error) {
	if s.cache == nil {
		return s.repo.GetActive(ctx)
	}

	var trips []Trip
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_TRIPS_LIST, constants.TTL_TRIPS_LIST,
		func() (interface{}, error) {
			return s.repo.GetActive(ctx)
		}, &trips)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *service) GetFeatured(ctx context.Context) ([]Trip, error) {
	if s.cache == nil {
		return s.repo.GetFeatured(ctx)
	}

	var trips []Trip
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_TRIPS_FEATURED, constants.TTL_TRIPS_LIST,
		func() (interface{}, error) {
			return s.repo.GetFeatured(ctx)
		}, &trips)
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyTripUpdate(trip, req)

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx, trip.Slug)
	return trip, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalogCache(ctx, trip.Slug)
	return nil
}

func (s *service) invalidateCatalogCache(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_TRIPS_LIST)
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_TRIPS_FEATURED)
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_TRIP_BY_SLUG+slug)
}

func applyTripUpdate(trip *Trip, req UpdateTripRequest) {
	if req.Title != nil {
		trip.Title = *req.Title
	}
	if req.Subtitle != nil {
		trip.Subtitle = *req.Subtitle
	}
	if req.HeroImageURL != nil {
		trip.HeroImageURL = *req.HeroImageURL
	}
	if req.DescriptionMD != nil {
		trip.DescriptionMD = *req.DescriptionMD
	}
	if req.ItineraryMD != nil {
		trip.ItineraryMD = *req.ItineraryMD
	}
	if req.Highlights != nil {
		trip.Highlights = req.Highlights
	}
	if req.Difficulty != nil {
		trip.Difficulty = *req.Difficulty
	}
	if req.Included != nil {
		trip.Included = req.Included
	}
	if req.NotIncluded != nil {
		trip.NotIncluded = req.NotIncluded
	}
	if req.Featured != nil {
		trip.Featured = *req.Featured
	}
	if req.Active != nil {
		trip.Active = *req.Active
	}
}
