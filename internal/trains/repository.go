package trains

import (
	"context"
	"errors"

	"railbook/internal/session"
)

// SelectionRepository keeps the session's selected train
type SelectionRepository interface {
	SaveSelection(ctx context.Context, sessionID string, sel Selection) error
	LoadSelection(ctx context.Context, sessionID string) (*Selection, error)
	ClearSelection(ctx context.Context, sessionID string) error
}

type selectionRepository struct {
	store session.Store
}

func NewSelectionRepository(store session.Store) SelectionRepository {
	return &selectionRepository{store: store}
}

func (r *selectionRepository) SaveSelection(ctx context.Context, sessionID string, sel Selection) error {
	return r.store.Set(ctx, sessionID, session.KeySelectedTrain, sel)
}

func (r *selectionRepository) LoadSelection(ctx context.Context, sessionID string) (*Selection, error) {
	var sel Selection
	if err := r.store.Get(ctx, sessionID, session.KeySelectedTrain, &sel); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoSelection
		}
		return nil, err
	}
	return &sel, nil
}

func (r *selectionRepository) ClearSelection(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID, session.KeySelectedTrain)
}
