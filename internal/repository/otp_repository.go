package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sfinpay/backoffice/internal/domain"
)

// OTPRepository stores one outstanding code per admin identity.
// Consume reports domain.ErrOTPNotActive, domain.ErrOTPExpired or
// domain.ErrOTPMismatch; a matching or expired code is removed atomically.
type OTPRepository interface {
	Save(ctx context.Context, key string, code domain.OneTimeCode) error
	Consume(ctx context.Context, key, code string, now time.Time) error
	Delete(ctx context.Context, key string) error
}

// expired records stay readable this long past expiry so a late attempt
// reports "expired" rather than "no active code".
const expiredGrace = 10 * time.Minute

// consumeScript returns 0 no record, 1 expired, 2 mismatch, 3 accepted.
var consumeScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'code', 'expires_at')
if not v[1] then
  return 0
end
if tonumber(ARGV[2]) > tonumber(v[2]) then
  redis.call('DEL', KEYS[1])
  return 1
end
if v[1] ~= ARGV[1] then
  local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
  local max = tonumber(ARGV[3])
  if max > 0 and attempts >= max then
    redis.call('DEL', KEYS[1])
  end
  return 2
end
redis.call('DEL', KEYS[1])
return 3
`)

type redisOTPRepository struct {
	client      redis.UniversalClient
	prefix      string
	maxAttempts int
}

// NewRedisOTPRepository stores codes as Redis hashes under prefix+key.
// maxAttempts <= 0 disables the mismatch limit.
func NewRedisOTPRepository(client redis.UniversalClient, prefix string, maxAttempts int) OTPRepository {
	return &redisOTPRepository{client: client, prefix: prefix, maxAttempts: maxAttempts}
}

func (r *redisOTPRepository) Save(ctx context.Context, key string, code domain.OneTimeCode) error {
	k := r.prefix + key
	ttl := time.Until(code.ExpiresAt) + expiredGrace
	if ttl <= 0 {
		ttl = expiredGrace
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "code", code.Code, "expires_at", code.ExpiresAt.UnixMilli(), "attempts", 0)
		pipe.Expire(ctx, k, ttl)
		return nil
	})
	return err
}

func (r *redisOTPRepository) Consume(ctx context.Context, key, code string, now time.Time) error {
	result, err := consumeScript.Run(ctx, r.client, []string{r.prefix + key},
		code, strconv.FormatInt(now.UnixMilli(), 10), r.maxAttempts).Int()
	if err != nil {
		return err
	}
	return consumeOutcome(result)
}

func (r *redisOTPRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func consumeOutcome(result int) error {
	switch result {
	case 0:
		return domain.ErrOTPNotActive
	case 1:
		return domain.ErrOTPExpired
	case 2:
		return domain.ErrOTPMismatch
	case 3:
		return nil
	default:
		return errors.New("unexpected otp script result")
	}
}

// MemoryOTPRepository is a single-process OTPRepository.
type MemoryOTPRepository struct {
	mu          sync.Mutex
	codes       map[string]domain.OneTimeCode
	maxAttempts int
}

// NewMemoryOTPRepository constructs an empty store.
func NewMemoryOTPRepository(maxAttempts int) *MemoryOTPRepository {
	return &MemoryOTPRepository{codes: make(map[string]domain.OneTimeCode), maxAttempts: maxAttempts}
}

func (r *MemoryOTPRepository) Save(_ context.Context, key string, code domain.OneTimeCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code.Attempts = 0
	r.codes[key] = code
	return nil
}

func (r *MemoryOTPRepository) Consume(_ context.Context, key, code string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.codes[key]
	if !ok {
		return domain.ErrOTPNotActive
	}
	if now.After(stored.ExpiresAt) {
		delete(r.codes, key)
		return domain.ErrOTPExpired
	}
	if stored.Code != code {
		stored.Attempts++
		if r.maxAttempts > 0 && stored.Attempts >= r.maxAttempts {
			delete(r.codes, key)
		} else {
			r.codes[key] = stored
		}
		return domain.ErrOTPMismatch
	}
	delete(r.codes, key)
	return nil
}

func (r *MemoryOTPRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, key)
	return nil
}
