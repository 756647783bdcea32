package search

import "railbook/internal/shared/flow"

type SearchResponse struct {
	Query       SearchQuery       `json:"query"`
	DisplayDate string            `json:"display_date"`
	Next        flow.Continuation `json:"-"`
}

type SwapResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type DefaultsResponse struct {
	MinDate     string `json:"min_date"`
	DefaultDate string `json:"default_date"`
	DisplayDate string `json:"display_date"`
}
