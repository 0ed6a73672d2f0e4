package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vasilestie-backend/internal/domains/newsletter"
)

type newsletterService struct {
	repo newsletter.Repository
}

func NewNewsletterService(repo newsletter.Repository) newsletter.Service {
	return &newsletterService{repo: repo}
}

// Subscribe is idempotent on email: an active subscription is returned as
// is, an unsubscribed one is reactivated with a fresh token, and a new
// email gets a new row.
func (s *newsletterService) Subscribe(ctx context.Context, req newsletter.SubscribeRequest) (*newsletter.Subscription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		if existing.Subscribed {
			return existing, nil
		}

		token, err := generateToken()
		if err != nil {
			return nil, err
		}

		existing.Subscribed = true
		existing.UnsubscribeToken = token
		existing.UnsubscribedAt = nil

		if err := s.repo.Resubscribe(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	sub := &newsletter.Subscription{
		ID:               uuid.New(),
		Email:            req.Email,
		Subscribed:       true,
		UnsubscribeToken: token,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// Unsubscribe consumes the single-use token. A spent token and a token
// that never existed produce the same error.
func (s *newsletterService) Unsubscribe(ctx context.Context, token string) error {
	if token == "" {
		return newsletter.ErrInvalidToken
	}

	flipped, err := s.repo.UnsubscribeByToken(ctx, token)
	if err != nil {
		return err
	}
	if !flipped {
		return newsletter.ErrInvalidToken
	}
	return nil
}

func (s *newsletterService) List(ctx context.Context, filter *newsletter.ListFilter) ([]newsletter.Subscription, int64, error) {
	filter.SetDefaults()
	return s.repo.List(ctx, filter)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate unsubscribe token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
