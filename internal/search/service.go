package search

import (
	"context"
	"errors"
	"time"

	"railbook/internal/shared/metrics"
	"railbook/pkg/logger"
)

type Service interface {
	Submit(ctx context.Context, req *SubmitSearchRequest) (*SearchResponse, error)
	Swap(req *SwapRequest) *SwapResponse
	Defaults() *DefaultsResponse
}

type service struct {
	now    func() time.Time
	logger *logger.Logger
}

func NewService(now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{now: now, logger: logger.GetDefault()}
}

func (s *service) Submit(ctx context.Context, req *SubmitSearchRequest) (*SearchResponse, error) {
	query, next, err := SubmitSearch(req.From, req.To, req.Date, s.now())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			metrics.SearchesTotal.WithLabelValues(verr.Code).Inc()
		}
		return nil, err
	}

	metrics.SearchesTotal.WithLabelValues("accepted").Inc()
	s.logger.LogSearchSubmitted(ctx, query.From, query.To, query.Date)

	return &SearchResponse{
		Query:       query,
		DisplayDate: FormatDisplayDate(query.Date),
		Next:        next,
	}, nil
}

func (s *service) Swap(req *SwapRequest) *SwapResponse {
	from, to := SwapStations(req.From, req.To)
	return &SwapResponse{From: from, To: to}
}

func (s *service) Defaults() *DefaultsResponse {
	d := DefaultDate(s.now()).Format(DateLayout)
	return &DefaultsResponse{
		MinDate:     d,
		DefaultDate: d,
		DisplayDate: FormatDisplayDate(d),
	}
}
