package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/eyecarehub/eyecare-server/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory users.Repo for tests.
type FakeUserRepo struct {
	users    map[int64]*users.User
	emailIDs map[string]int64
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[int64]*users.User),
		emailIDs: make(map[string]int64),
		nextID:   1,
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIDs[user.Email]; ok {
		return nil, users.EmailTakenErr
	}

	stored := *user
	stored.ID = ur.nextID
	stored.CreatedAt = time.Now()
	ur.nextID++

	ur.users[stored.ID] = &stored
	ur.emailIDs[stored.Email] = stored.ID

	result := stored
	return &result, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.NotFoundErr
	}
	result := *user
	return &result, nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIDs[email]
	if !ok {
		return nil, users.NotFoundErr
	}
	result := *ur.users[id]
	return &result, nil
}

func (ur *FakeUserRepo) UpdateRole(_ context.Context, id int64, userType string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.NotFoundErr
	}
	user.UserType = userType
	return nil
}

func (ur *FakeUserRepo) SetBanned(_ context.Context, id int64, banned bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.NotFoundErr
	}
	user.IsBanned = banned
	return nil
}

func (ur *FakeUserRepo) SetLastLogin(_ context.Context, id int64, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.NotFoundErr
	}
	user.LastLogin = at
	return nil
}

func (ur *FakeUserRepo) Delete(_ context.Context, id int64) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.NotFoundErr
	}
	delete(ur.emailIDs, user.Email)
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetRefreshToken(_ context.Context, id int64) (string, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return "", users.NotFoundErr
	}
	return user.RefreshToken, nil
}

func (ur *FakeUserRepo) SetRefreshToken(_ context.Context, id int64, refreshToken string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return users.NotFoundErr
	}
	user.RefreshToken = refreshToken
	return nil
}

// Count reports the number of stored accounts (test assertions).
func (ur *FakeUserRepo) Count() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}
