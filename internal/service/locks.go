package service

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserLocks serializes check-then-write transitions per user. Every mutation
// guarded by a per-user uniqueness invariant (one active program, one active
// session) runs its check-and-mutate sequence while holding the user's lock,
// so two concurrent starts cannot both observe "no active session".
type UserLocks struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[primitive.ObjectID]*sync.Mutex)}
}

// Lock acquires the mutex for one user, creating it on first use. Returns the
// unlock function.
func (l *UserLocks) Lock(userID primitive.ObjectID) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
