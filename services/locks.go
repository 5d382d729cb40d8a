package services

import (
	"fmt"
	"sort"
	"sync"
)

// LockRegistry hands out one mutex per entity so state-changing
// operations on the same table or order serialize. Locks are never
// removed; the working set is bounded by live tables + orders.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

func (lr *LockRegistry) get(key string) *sync.Mutex {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	m, ok := lr.locks[key]
	if !ok {
		m = &sync.Mutex{}
		lr.locks[key] = m
	}
	return m
}

func orderKey(id uint) string { return fmt.Sprintf("order:%d", id) }
func tableKey(id uint) string { return fmt.Sprintf("table:%d", id) }

// Lock acquires the entity lock and returns its unlock func.
func (lr *LockRegistry) Lock(key string) func() {
	m := lr.get(key)
	m.Lock()
	return m.Unlock
}

// LockAll acquires several entity locks in a fixed global (lexical key)
// order so two concurrent cross-referencing transfers cannot deadlock.
// Duplicate keys are collapsed.
func (lr *LockRegistry) LockAll(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			uniq = append(uniq, k)
		}
	}
	sort.Strings(uniq)

	ms := make([]*sync.Mutex, len(uniq))
	for i, k := range uniq {
		ms[i] = lr.get(k)
		ms[i].Lock()
	}
	return func() {
		for i := len(ms) - 1; i >= 0; i-- {
			ms[i].Unlock()
		}
	}
}
