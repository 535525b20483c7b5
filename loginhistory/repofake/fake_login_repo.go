package fakeloginrepo

import (
	"context"
	"sync"

	"github.com/eyecarehub/eyecare-server/loginhistory"
)

var _ loginhistory.Repo = (*FakeLoginRepo)(nil)

// FakeLoginRepo is an in-memory loginhistory.Repo for tests.
type FakeLoginRepo struct {
	attempts []*loginhistory.Attempt
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeLoginRepo() *FakeLoginRepo {
	return &FakeLoginRepo{nextID: 1}
}

func (lr *FakeLoginRepo) Append(_ context.Context, attempt *loginhistory.Attempt) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	stored := *attempt
	stored.ID = lr.nextID
	lr.nextID++
	lr.attempts = append(lr.attempts, &stored)
	return nil
}

func (lr *FakeLoginRepo) ListByUser(_ context.Context, userID int64) ([]*loginhistory.Attempt, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	var result []*loginhistory.Attempt
	for _, attempt := range lr.attempts {
		if attempt.UserID == userID {
			copied := *attempt
			result = append(result, &copied)
		}
	}
	return result, nil
}

// All returns every recorded attempt (test assertions).
func (lr *FakeLoginRepo) All() []*loginhistory.Attempt {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	return append([]*loginhistory.Attempt(nil), lr.attempts...)
}
