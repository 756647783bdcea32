package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// DemoAccount is a username/password pair seeded into the repository
type DemoAccount struct {
	Username    string
	Password    string
	DisplayName string
	Role        Role
}

// DefaultDemoAccounts are the two fixed logins of the booking site
var DefaultDemoAccounts = []DemoAccount{
	{Username: "demo_user", Password: "password123", DisplayName: "Demo User", Role: RoleUser},
	{Username: "admin", Password: "admin123", DisplayName: "Administrator", Role: RoleAdmin},
}

type memoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*Account
	byUsername map[string]*Account
}

// NewDemoRepository hashes the given accounts with bcrypt and serves them from memory
func NewDemoRepository(accounts []DemoAccount, cost int) (Repository, error) {
	repo := &memoryRepository{
		byID:       make(map[string]*Account, len(accounts)),
		byUsername: make(map[string]*Account, len(accounts)),
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.Username, err)
		}
		acc := &Account{
			// stable ids so tokens survive a restart
			ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte("railbook:"+a.Username)),
			Username:     a.Username,
			DisplayName:  a.DisplayName,
			PasswordHash: string(hash),
			Role:         a.Role,
		}
		repo.byID[acc.ID.String()] = acc
		repo.byUsername[acc.Username] = acc
	}
	return repo, nil
}

func (r *memoryRepository) GetByUsername(_ context.Context, username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *acc
	return &copied, nil
}

func (r *memoryRepository) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	acc.PasswordHash = hash
	return nil
}
