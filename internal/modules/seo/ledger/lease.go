package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/keywordiq-backend/internal/clients/redis"
)

// Leaser serializes ledger work per user from pre-flight to settlement.
type Leaser interface {
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}

type redisLeaser struct {
	locker *redis.Locker
	ttl    time.Duration
}

// NewRedisLeaser holds a SET NX PX lease per user. ttl must outlast a full
// channel run.
func NewRedisLeaser(locker *redis.Locker, ttl time.Duration) Leaser {
	return &redisLeaser{locker: locker, ttl: ttl}
}

func (l *redisLeaser) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	return l.locker.Lock(ctx, "ledger:"+userID.String(), l.ttl)
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

// keyedMutex is the in-process lease used when Redis is not configured.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*keyedEntry
}

func NewLocalLeaser() Leaser {
	return &keyedMutex{entries: map[uuid.UUID]*keyedEntry{}}
}

func (k *keyedMutex) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[userID]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		k.entries[userID] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.drop(userID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.drop(userID, e)
		})
	}, nil
}

func (k *keyedMutex) drop(userID uuid.UUID, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, userID)
	}
}
