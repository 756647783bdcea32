package auth

import (
	"context"
	"errors"

	"railbook/internal/session"
)

// CaptchaRepository keeps the captcha last shown to a session
type CaptchaRepository interface {
	SaveCaptcha(ctx context.Context, sessionID, code string) error
	LoadCaptcha(ctx context.Context, sessionID string) (string, error)
	ClearCaptcha(ctx context.Context, sessionID string) error
}

type captchaRepository struct {
	store session.Store
}

func NewCaptchaRepository(store session.Store) CaptchaRepository {
	return &captchaRepository{store: store}
}

func (r *captchaRepository) SaveCaptcha(ctx context.Context, sessionID, code string) error {
	return r.store.Set(ctx, sessionID, session.KeyCaptcha, code)
}

func (r *captchaRepository) LoadCaptcha(ctx context.Context, sessionID string) (string, error) {
	var code string
	if err := r.store.Get(ctx, sessionID, session.KeyCaptcha, &code); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", ErrCaptchaMissing
		}
		return "", err
	}
	return code, nil
}

func (r *captchaRepository) ClearCaptcha(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID, session.KeyCaptcha)
}
