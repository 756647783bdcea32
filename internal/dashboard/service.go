package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"railbook/internal/bookings"
	"railbook/internal/search"
	"railbook/internal/shared/constants"
	"railbook/internal/trains"
	"railbook/pkg/cache"
	"railbook/pkg/logger"
)

var ErrIncompleteSchedule = errors.New("incomplete train schedule")

type Service interface {
	SetCacheService(cacheService cache.Service)

	// Admin panel
	GetOverview(ctx context.Context) (*Overview, error)
	ValidateSchedule(ctx context.Context, req *ScheduleRequest) (*Acknowledgement, error)
	DeleteTrain(ctx context.Context, trainID string) (*Acknowledgement, error)

	// User dashboard
	GetUserSummary(ctx context.Context, sessionID string) (*UserSummary, error)
}

type service struct {
	bookings     bookings.Repository
	cacheService cache.Service
	validate     *validator.Validate
	now          func() time.Time
	logger       *logger.Logger
}

func NewService(repo bookings.Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		bookings: repo,
		validate: validator.New(),
		now:      now,
		logger:   logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetOverview(ctx context.Context) (*Overview, error) {
	cacheKey := constants.CACHE_KEY_DASHBOARD_OVERVIEW

	if s.cacheService != nil {
		var cached Overview
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	overview := buildOverview(trains.List("", ""))

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, overview, constants.TTL_DASHBOARD); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to cache dashboard overview", err, nil)
		}
	}
	return overview, nil
}

func buildOverview(offerings []trains.TrainOffering) *Overview {
	routes := make(map[[2]string]*RouteSummary)
	overview := &Overview{TotalTrains: len(offerings), Stations: trains.Stations()}

	for _, o := range offerings {
		overview.TotalSeats += o.Seats
		fare := trains.FareFor(o.ID)

		r, ok := routes[[2]string{o.From, o.To}]
		if !ok {
			r = &RouteSummary{From: o.From, To: o.To, MinFare: fare, MaxFare: fare}
			routes[[2]string{o.From, o.To}] = r
		}
		r.Trains++
		r.Seats += o.Seats
		if fare < r.MinFare {
			r.MinFare = fare
		}
		if fare > r.MaxFare {
			r.MaxFare = fare
		}
	}

	overview.Routes = make([]RouteSummary, 0, len(routes))
	for _, r := range routes {
		overview.Routes = append(overview.Routes, *r)
	}
	sort.Slice(overview.Routes, func(i, j int) bool {
		if overview.Routes[i].From != overview.Routes[j].From {
			return overview.Routes[i].From < overview.Routes[j].From
		}
		return overview.Routes[i].To < overview.Routes[j].To
	})
	return overview
}

// ValidateSchedule checks the schedule form. The catalog is fixed, so a
// valid schedule is acknowledged and not stored.
func (s *service) ValidateSchedule(ctx context.Context, req *ScheduleRequest) (*Acknowledgement, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteSchedule, err)
	}
	s.logger.InfoWithContext(ctx, "Train schedule acknowledged", map[string]interface{}{
		"train_no": req.TrainNo,
		"from":     req.From,
		"to":       req.To,
	})
	return &Acknowledgement{TrainID: req.TrainNo, Stored: false}, nil
}

// DeleteTrain acknowledges deletion of a known train; the catalog is unchanged
func (s *service) DeleteTrain(ctx context.Context, trainID string) (*Acknowledgement, error) {
	if _, err := trains.Lookup(trainID); err != nil {
		return nil, err
	}
	s.logger.InfoWithContext(ctx, "Train deletion acknowledged", map[string]interface{}{"train_id": trainID})
	return &Acknowledgement{TrainID: trainID, Stored: false}, nil
}

// GetUserSummary splits the session's bookings by journey date. A journey
// today counts as upcoming.
func (s *service) GetUserSummary(ctx context.Context, sessionID string) (*UserSummary, error) {
	list, err := s.bookings.ListBookings(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC().Format(search.DateLayout)
	summary := &UserSummary{
		TotalBookings: len(list),
		Upcoming:      []bookings.BookingRecord{},
		Past:          []bookings.BookingRecord{},
	}
	for _, rec := range list {
		summary.TotalPassengers += len(rec.Passengers)
		summary.TotalSpent += rec.TotalAmount
		if rec.TrainDetails.Date >= today {
			summary.Upcoming = append(summary.Upcoming, rec)
		} else {
			summary.Past = append(summary.Past, rec)
		}
	}
	return summary, nil
}
