package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fooddash/food-delivery-service/internal/domain"
)

// PasswordResetRepository manages single-use password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	// Consume returns the token and removes it so it cannot be used twice.
	Consume(ctx context.Context, token string) (*domain.PasswordResetToken, error)
}

type redisPasswordResetRepository struct {
	client *redis.Client
	prefix string
}

// NewPasswordResetRepository returns a Redis-backed implementation. Entries
// expire on their own once the token's ExpiresAt passes.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &redisPasswordResetRepository{client: client, prefix: "password_reset:"}
}

type resetRecord struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (r *redisPasswordResetRepository) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("reset token already expired")
	}
	payload, err := json.Marshal(resetRecord{UserID: token.UserID, ExpiresAt: token.ExpiresAt})
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.prefix+token.Token, payload, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (r *redisPasswordResetRepository) Consume(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	raw, err := r.client.GetDel(ctx, r.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var record resetRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}
	return &domain.PasswordResetToken{Token: token, UserID: record.UserID, ExpiresAt: record.ExpiresAt}, nil
}
