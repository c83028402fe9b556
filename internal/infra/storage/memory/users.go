package memory

import (
	"context"
	"strings"
	"sync"

	domainuser "staybook/internal/domain/user"
)

// UserRepository stores users in memory with a unique email index.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if user, ok := r.byID[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	if user == nil || strings.TrimSpace(string(user.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	emailKey := domainuser.NormalizeEmail(user.Email)
	if emailKey == "" {
		return domainuser.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != user.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	if prev, ok := r.byID[user.ID]; ok {
		delete(r.byEmail, domainuser.NormalizeEmail(prev.Email))
	}
	r.byEmail[emailKey] = user.ID
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) snapshot(id domainuser.ID) *domainuser.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUser(r.byID[id])
}

func (r *UserRepository) restore(id domainuser.ID, prev *domainuser.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byID[id]; ok {
		delete(r.byEmail, domainuser.NormalizeEmail(cur.Email))
		delete(r.byID, id)
	}
	if prev != nil {
		r.byID[id] = prev
		r.byEmail[domainuser.NormalizeEmail(prev.Email)] = id
	}
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

var _ domainuser.Repository = (*UserRepository)(nil)
