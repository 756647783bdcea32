package trains

import (
	"context"
	"fmt"
	"time"

	"railbook/internal/search"
	"railbook/internal/shared/flow"
	"railbook/pkg/logger"
)

// Fallbacks used when a selection arrives without transfer parameters
const (
	FallbackFrom = "Mumbai"
	FallbackTo   = "Delhi"
)

type Service interface {
	ListTrains(ctx context.Context, req *ListTrainsRequest) *TrainListResponse
	GetTrain(ctx context.Context, id string) (*TrainOffering, error)
	GetFare(ctx context.Context, id string, passengers int) *FareResponse
	SelectTrain(ctx context.Context, sessionID, trainID string, query search.SearchQuery) (*Selection, flow.Continuation, error)
	GetSelection(ctx context.Context, sessionID string) (*Selection, error)
}

type service struct {
	repo   SelectionRepository
	now    func() time.Time
	logger *logger.Logger
}

func NewService(repo SelectionRepository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now, logger: logger.GetDefault()}
}

func (s *service) ListTrains(_ context.Context, req *ListTrainsRequest) *TrainListResponse {
	trains := List(req.From, req.To)
	resp := &TrainListResponse{
		From:   req.From,
		To:     req.To,
		Date:   req.Date,
		Count:  len(trains),
		Trains: make([]TrainWithFare, 0, len(trains)),
	}
	if req.Date != "" {
		resp.DisplayDate = search.FormatDisplayDate(req.Date)
	}
	resp.Summary = fmt.Sprintf("Found %d trains for your journey", len(trains))
	for _, t := range trains {
		resp.Trains = append(resp.Trains, TrainWithFare{TrainOffering: t, Fare: FareFor(t.ID)})
	}
	return resp
}

func (s *service) GetTrain(_ context.Context, id string) (*TrainOffering, error) {
	o, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *service) GetFare(_ context.Context, id string, passengers int) *FareResponse {
	fare := FareFor(id)
	_, known := fares[id]
	return &FareResponse{
		TrainID:     id,
		BaseFare:    fare,
		Passengers:  passengers,
		TotalAmount: fare * passengers,
		DefaultFare: !known,
	}
}

// SelectTrain records the chosen offering for the session. Missing search
// parameters fall back to Mumbai, Delhi and today's date.
func (s *service) SelectTrain(ctx context.Context, sessionID, trainID string, query search.SearchQuery) (*Selection, flow.Continuation, error) {
	offering, err := Lookup(trainID)
	if err != nil {
		return nil, flow.Continuation{}, err
	}

	if query.From == "" {
		query.From = FallbackFrom
	}
	if query.To == "" {
		query.To = FallbackTo
	}
	if query.Date == "" {
		query.Date = s.now().UTC().Format(search.DateLayout)
	}

	sel := Selection{
		TrainID:   offering.ID,
		TrainName: offering.Name,
		From:      query.From,
		To:        query.To,
		Date:      query.Date,
		Departure: offering.Departure,
		Arrival:   offering.Arrival,
		Duration:  offering.Duration,
		Seats:     offering.Seats,
	}
	if err := s.repo.SaveSelection(ctx, sessionID, sel); err != nil {
		s.logger.LogSessionStoreError(ctx, "save", sessionID, "selectedTrain", err)
		return nil, flow.Continuation{}, fmt.Errorf("save selection: %w", err)
	}

	s.logger.LogTrainSelected(ctx, sessionID, offering.ID)
	return &sel, flow.To(flow.StepBooking, map[string]string{flow.ParamTrainID: offering.ID}), nil
}

func (s *service) GetSelection(ctx context.Context, sessionID string) (*Selection, error) {
	return s.repo.LoadSelection(ctx, sessionID)
}
