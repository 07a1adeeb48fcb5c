package users

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcdev12/auctionpro/go/internal/apperr"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// MemoryRepository keeps users and profiles in process
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	profiles map[uuid.UUID]models.Profile
}

// NewMemoryRepository creates an empty in-process users repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[uuid.UUID]models.User),
		profiles: make(map[uuid.UUID]models.Profile),
	}
}

func (m *MemoryRepository) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, fmt.Errorf("user already exists: %w", apperr.ErrInvalidInput)
		}
	}
	m.users[user.ID] = user
	return &user, nil
}

func (m *MemoryRepository) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return &u, nil
}

func (m *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *MemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", apperr.ErrNotFound)
}

func (m *MemoryRepository) UpsertProfile(_ context.Context, profile models.Profile) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile.Preferences = append([]models.Category{}, profile.Preferences...)
	m.profiles[profile.UserID] = profile
	return &profile, nil
}

func (m *MemoryRepository) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, apperr.ErrNotFound)
	}
	p.Preferences = append([]models.Category{}, p.Preferences...)
	return &p, nil
}
