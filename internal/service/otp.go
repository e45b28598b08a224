package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	otpLength   = 6
	otpAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	otpPrefix   = "otp:"
)

// consumeScript deletes KEYS[1] only if it holds ARGV[1].
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOTPStore keeps codes as otp:<code> -> email with a TTL.
type RedisOTPStore struct {
	client *redis.Client
}

var _ OTPStore = (*RedisOTPStore)(nil)

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (s *RedisOTPStore) Save(ctx context.Context, code, email string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, otpPrefix+code, email, ttl).Result()
}

func (s *RedisOTPStore) Consume(ctx context.Context, code, email string) error {
	deleted, err := consumeScript.Run(ctx, s.client, []string{otpPrefix + code}, email).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrInvalidOTP
	}
	return nil
}

// generateOTP returns otpLength characters drawn uniformly from otpAlphabet.
func generateOTP() (string, error) {
	max := big.NewInt(int64(len(otpAlphabet)))
	buf := make([]byte, otpLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = otpAlphabet[n.Int64()]
	}
	return string(buf), nil
}
