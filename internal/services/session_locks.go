package services

import (
  "context"
  "sync"

  "github.com/google/uuid"
  "golang.org/x/sync/semaphore"
)

// sessionLocks serializes flow-mutating operations per session id. A weight-1
// semaphore instead of a mutex so waiting respects context cancellation.
// Entries are tiny and sessions are short-lived, so nothing is evicted.
type sessionLocks struct {
  locks sync.Map
}

func newSessionLocks() *sessionLocks {
  return &sessionLocks{}
}

func (l *sessionLocks) Acquire(ctx context.Context, sessionID uuid.UUID) (func(), error) {
  val, _ := l.locks.LoadOrStore(sessionID, semaphore.NewWeighted(1))
  sem := val.(*semaphore.Weighted)
  if err := sem.Acquire(ctx, 1); err != nil {
    return nil, err
  }
  return func() { sem.Release(1) }, nil
}
