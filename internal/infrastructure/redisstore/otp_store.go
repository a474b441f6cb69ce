package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

// OTPStore keeps password reset codes as plain string keys with a TTL
type OTPStore struct {
	rdb redis.Cmdable
}

func NewOTPStore(rdb redis.Cmdable) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func (s *OTPStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, helpers.KeyPasswordResetOTP(email), code, ttl).Err()
}

func (s *OTPStore) Get(ctx context.Context, email string) (string, bool, error) {
	return helpers.RedisGetString(ctx, s.rdb, helpers.KeyPasswordResetOTP(email))
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	return helpers.RedisDel(ctx, s.rdb, helpers.KeyPasswordResetOTP(email))
}

var _ application.OTPStore = (*OTPStore)(nil)
