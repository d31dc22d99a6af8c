package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
)

// UserStore is an in-memory implementation of the
// repository.UserRepository interface
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

// NewUserStore creates an empty UserStore
func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		users:  make(map[int64]*models.User),
	}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

// Create creates a new user
func (s *UserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return 0, errs.New(errs.Conflict, "Username is already taken.")
		}
	}

	id := s.nextID
	s.nextID++

	cp := copyUser(user)
	cp.ID = id
	cp.CreatedAt = time.Now()
	s.users[id] = cp

	return id, nil
}

// GetByID gets a user by ID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, errs.Newf(errs.NotFound, "User not found with id: %d", id)
	}
	return copyUser(user), nil
}

// GetByUsername gets a user by username
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, errs.Newf(errs.NotFound, "User not found: %s", username)
}

// GetAll gets a page of users ordered by id
func (s *UserStore) GetAll(ctx context.Context, limit, offset int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var users []*models.User
	for _, id := range ids {
		users = append(users, copyUser(s.users[id]))
	}

	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// CountAll counts all users
func (s *UserStore) CountAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

// UpdateRole sets a user's role
func (s *UserStore) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return errs.Newf(errs.NotFound, "User not found with id: %d", id)
	}
	user.Role = role
	return nil
}

// UpdateLocked sets a user's locked flag
func (s *UserStore) UpdateLocked(ctx context.Context, id int64, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return errs.Newf(errs.NotFound, "User not found with id: %d", id)
	}
	user.Locked = locked
	return nil
}
