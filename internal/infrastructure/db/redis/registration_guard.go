package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultReservationTTL = 30 * time.Second
	reservationPrefix     = "registration:"
)

// releaseScript deletes KEYS[1] only while it still holds the token ARGV[1].
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// reservationStore is the subset of *redis.Client the guard needs.
type reservationStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RegistrationGuard holds short-lived reservations on identifiers being
// registered. Key format: registration:<kind>:<value>
// Each reservation stores a per-request token, so a request whose hold has
// expired cannot drop a newer request's reservation.
type RegistrationGuard struct {
	client   reservationStore
	ttl      time.Duration
	newToken func() string
}

// NewRegistrationGuard wraps client. Reservations expire after ttl so a
// crashed request cannot block an identifier forever.
func NewRegistrationGuard(client *redis.Client, ttl time.Duration) *RegistrationGuard {
	return newRegistrationGuard(client, ttl)
}

func newRegistrationGuard(client reservationStore, ttl time.Duration) *RegistrationGuard {
	if ttl <= 0 {
		ttl = defaultReservationTTL
	}
	return &RegistrationGuard{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Reserve claims key and returns the token that owns the claim. ok is false
// when another request already holds it.
func (g *RegistrationGuard) Reserve(ctx context.Context, key string) (string, bool, error) {
	token := g.newToken()
	ok, err := g.client.SetNX(ctx, g.key(key), token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("reserve %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the reservation on key if token still owns it. A reservation
// that expired and was claimed again is left alone.
func (g *RegistrationGuard) Release(ctx context.Context, key, token string) error {
	if err := g.client.Eval(ctx, releaseScript, []string{g.key(key)}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (g *RegistrationGuard) key(k string) string {
	return reservationPrefix + k
}
