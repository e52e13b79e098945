package keylock

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeyLock provides per-key mutual exclusion with context-bounded
// acquisition. Locks for distinct keys never contend; acquisition of
// a held key blocks until release or ctx expiry.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

func (k *KeyLock) get(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyLock) put(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Acquire locks a single key. The returned release function must be
// called exactly once.
func (k *KeyLock) Acquire(ctx context.Context, key string) (func(), error) {
	e := k.get(key)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.put(key)
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			k.put(key)
		})
	}, nil
}

// AcquireAll locks every key in a fixed global order (sorted,
// deduplicated) so that overlapping multi-key holders cannot deadlock.
func (k *KeyLock) AcquireAll(ctx context.Context, keys []string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			sorted = append(sorted, key)
		}
	}
	sort.Strings(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		// Release in reverse acquisition order.
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range sorted {
		release, err := k.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}

var global = New()

// Acquire locks a key on the process-wide lock set.
func Acquire(ctx context.Context, key string) (func(), error) {
	return global.Acquire(ctx, key)
}

// AcquireAll locks keys on the process-wide lock set.
func AcquireAll(ctx context.Context, keys []string) (func(), error) {
	return global.AcquireAll(ctx, keys)
}
