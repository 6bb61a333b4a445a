package recipestate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTransactionTimeout bounds a whole WithTransaction scope, including
// the wait for the user's lock.
const DefaultTransactionTimeout = 10 * time.Second

// Coordinator runs read-modify-write sequences for one user at a time.
//
// Serialization happens twice: an in-process lock per user keeps goroutines of
// this process from contending on the database, and the user row lock taken
// inside the transaction serializes across processes.
type Coordinator struct {
	store   *Store
	timeout time.Duration
	locks   *userLocks
}

// NewCoordinator creates a coordinator over the store. A zero timeout means
// DefaultTransactionTimeout.
func NewCoordinator(store *Store, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTransactionTimeout
	}
	return &Coordinator{
		store:   store,
		timeout: timeout,
		locks:   newUserLocks(),
	}
}

// WithTransaction runs fn with exclusive access to the user's rows. The Store
// passed to fn is bound to the transaction. If fn returns an error every write
// it made is rolled back and the error is returned as is; failures to lock,
// begin or commit are returned as ErrStorage.
func (c *Coordinator) WithTransaction(ctx context.Context, userID uuid.UUID, fn func(ctx context.Context, store *Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	release, err := c.locks.acquire(ctx, userID)
	if err != nil {
		return storageError("acquire user lock", err)
	}
	defer release()

	var fnErr error
	err = c.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := c.store.withTx(tx)
		if fnErr = txStore.LockUser(ctx, userID); fnErr != nil {
			return fnErr
		}
		fnErr = fn(ctx, txStore)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}
	return storageError("commit transaction", err)
}

// userLocks hands out one lock per user id. Entries are dropped once nobody
// holds or waits for them, so the table only grows with concurrency.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	sem  chan struct{}
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uuid.UUID]*userLock)}
}

func (l *userLocks) acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &userLock{sem: make(chan struct{}, 1)}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.sem <- struct{}{}:
		return func() {
			<-lock.sem
			l.unref(userID, lock)
		}, nil
	case <-ctx.Done():
		l.unref(userID, lock)
		return nil, ctx.Err()
	}
}

func (l *userLocks) unref(userID uuid.UUID, lock *userLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, userID)
	}
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
