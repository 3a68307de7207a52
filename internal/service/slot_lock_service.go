package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrSlotLocked is returned when another request is booking the same slot
var ErrSlotLocked = errors.New("slot is being booked by another request")

const (
	// RedisSlotLockKeyPrefix namespaces slot reservations in Redis
	RedisSlotLockKeyPrefix = "slot:lock:"

	defaultSlotLockTTL = 10 * time.Second

	// Timeout for releasing a reservation after the request is done
	slotReleaseTimeout = 3 * time.Second

	// Interval for cleaning up stale in-process mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// releaseSlotScript deletes the reservation only if it still holds our token,
// so a request whose TTL expired never releases someone else's reservation.
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// SlotKey identifies one bookable (doctor, date, time) slot
type SlotKey struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotLockKeyPrefix, k.DoctorID, k.Date, k.Time)
}

// SlotLocker reserves a slot for the duration of a check-then-write sequence.
// Reserve returns ErrSlotLocked when the slot is already reserved; the
// returned release func must be called once the write has finished.
type SlotLocker interface {
	Reserve(ctx context.Context, key SlotKey) (release func(), err error)
}

// =============================================================================
// Redis reservation (cross-instance)
// =============================================================================

type RedisSlotLocker struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisSlotLocker(client *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisSlotLocker {
	if ttl <= 0 {
		ttl = defaultSlotLockTTL
	}
	return &RedisSlotLocker{client: client, log: log, ttl: ttl}
}

func (s *RedisSlotLocker) Reserve(ctx context.Context, key SlotKey) (func(), error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, key.String(), token, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve slot %s: %w", key, err)
	}
	if !ok {
		return nil, ErrSlotLocked
	}

	s.log.Debugf("Reserved %s for %v", key, s.ttl)
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), slotReleaseTimeout)
		defer cancel()
		if err := releaseSlotScript.Run(releaseCtx, s.client, []string{key.String()}, token).Err(); err != nil {
			s.log.Warnf("Failed to release %s (expires in %v): %+v", key, s.ttl, err)
		}
	}, nil
}

// =============================================================================
// In-process reservation (same instance)
// =============================================================================

// LocalSlotLocker serializes bookings for one slot inside this process.
// A background goroutine drops mutexes that have not been used for a while;
// call Stop during graceful shutdown.
type LocalSlotLocker struct {
	log     *logrus.Logger
	slotMu  sync.Map // map[string]*mutexWithTimestamp
	stopCh  chan struct{}
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

func NewLocalSlotLocker(log *logrus.Logger) *LocalSlotLocker {
	l := &LocalSlotLocker{
		log:    log,
		stopCh: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

func (l *LocalSlotLocker) Reserve(_ context.Context, key SlotKey) (func(), error) {
	mt := l.getMutex(key.String())
	if !mt.mu.TryLock() {
		return nil, ErrSlotLocked
	}
	return func() {
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}, nil
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *LocalSlotLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopCh)
		l.wg.Wait()
		l.log.Info("LocalSlotLocker stopped")
	}
}

func (l *LocalSlotLocker) getMutex(key string) *mutexWithTimestamp {
	mt, _ := l.slotMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *LocalSlotLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStale removes mutexes last used before cutoff. TryLock skips
// mutexes that are held; lastUsed is re-checked under the lock.
func (l *LocalSlotLocker) cleanupStale(cutoff time.Time) int {
	var cleaned int
	l.slotMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff.Unix() {
				l.slotMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
	return cleaned
}

// =============================================================================
// Chaining
// =============================================================================

type chainedSlotLocker struct {
	lockers []SlotLocker
}

// NewChainedSlotLocker reserves through each locker in order and releases in
// reverse. If any locker refuses, the ones already acquired are released.
func NewChainedSlotLocker(lockers ...SlotLocker) SlotLocker {
	return &chainedSlotLocker{lockers: lockers}
}

func (c *chainedSlotLocker) Reserve(ctx context.Context, key SlotKey) (func(), error) {
	releases := make([]func(), 0, len(c.lockers))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, locker := range c.lockers {
		release, err := locker.Reserve(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
