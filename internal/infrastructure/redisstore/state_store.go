package redisstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// StateStore holds pending OAuth2 authorization states as JSON values
type StateStore struct {
	rdb redis.Cmdable
}

func NewStateStore(rdb redis.Cmdable) *StateStore {
	return &StateStore{rdb: rdb}
}

func (s *StateStore) Create(ctx context.Context, st application.OAuthState, ttl time.Duration) (string, error) {
	state := uuid.NewString()
	if err := helpers.RedisSetJSON(ctx, s.rdb, helpers.KeyOAuthState(state), st, ttl); err != nil {
		return "", err
	}
	return state, nil
}

func (s *StateStore) Consume(ctx context.Context, state string) (application.OAuthState, bool, error) {
	var st application.OAuthState
	if state == "" {
		return st, false, nil
	}
	ok, err := helpers.RedisGetDelJSON(ctx, s.rdb, helpers.KeyOAuthState(state), &st)
	return st, ok, err
}

var _ application.StateStore = (*StateStore)(nil)
