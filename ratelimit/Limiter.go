// Package ratelimit implements a sliding-window request counter on top of
// Redis sorted sets.
//
// Every admitted request adds its timestamp (in microseconds) to a sorted set
// keyed by rule and identifier. Before deciding, entries that fell out of the
// window are pruned and the remainder counted. Rejected requests are not
// recorded, so a client that keeps hammering is admitted again as soon as its
// oldest admitted request leaves the window.
package ratelimit

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

var (
	General           = Rule{Name: "general", Limit: 100, Window: time.Minute}
	Login             = Rule{Name: "login", Limit: 5, Window: 15 * time.Minute}
	EmailVerification = Rule{Name: "email-verification", Limit: 3, Window: time.Hour}
)

type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewLimiter(client redis.Cmdable) *Limiter {
	return &Limiter{
		client: client,
		prefix: "ratelimit",
		now:    time.Now,
	}
}

func (l *Limiter) key(rule Rule, identifier string) string {
	return l.prefix + ":" + rule.Name + ":" + identifier
}

// Allow decides whether one more request for identifier fits in rule's
// window. It never fails: if Redis cannot be reached the request is allowed.
func (l *Limiter) Allow(ctx context.Context, identifier string, rule Rule) Result {
	key := l.key(rule, identifier)
	now := l.now()
	nowMicros := now.UnixMicro()
	windowStart := now.Add(-rule.Window).UnixMicro()

	var (
		card   *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart, 10))
		card = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil {
		log.Printf("ratelimit: %s unavailable, allowing request: %v", key, err)
		return Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}
	}

	count := int(card.Val())
	if count >= rule.Limit {
		retryAfter := rule.Window
		if z := oldest.Val(); len(z) > 0 {
			oldestAt := time.UnixMicro(int64(z[0].Score))
			retryAfter = oldestAt.Add(rule.Window).Sub(now)
		}
		return Result{Allowed: false, Limit: rule.Limit, Remaining: 0, RetryAfter: retryAfter}
	}

	member := strconv.FormatInt(nowMicros, 10) + "-" + uuid.NewString()
	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(nowMicros), Member: member})
		pipe.PExpire(ctx, key, rule.Window)
		return nil
	})
	if err != nil {
		log.Printf("ratelimit: recording %s failed: %v", key, err)
	}
	return Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit - count - 1}
}

// Reset forgets every request recorded for identifier under rule.
func (l *Limiter) Reset(ctx context.Context, identifier string, rule Rule) error {
	return l.client.Del(ctx, l.key(rule, identifier)).Err()
}
