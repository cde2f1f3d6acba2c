// Package userdir implements the static in-memory user directory.
// The directory is seeded at construction and read-only afterwards, so
// lookups need no synchronization.
package userdir

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/figstore/internal/domain"
)

// Directory holds the fixed set of accounts the server knows about.
type Directory struct {
	users []domain.User
}

// Seed describes one account to load into the directory.
type Seed struct {
	ID       int64
	Username string
	Password string
	Role     domain.Role
}

// DefaultSeeds returns the stock accounts: one administrator and one
// regular user.
func DefaultSeeds() []Seed {
	return []Seed{
		{ID: 1, Username: "pepe", Password: "pepe1234", Role: domain.RoleAdmin},
		{ID: 2, Username: "ana", Password: "ana1234", Role: domain.RoleUser},
	}
}

// New builds a directory from the given seeds, hashing each password
// with bcrypt.
func New(seeds []Seed) (*Directory, error) {
	users := make([]domain.User, 0, len(seeds))
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", s.Username, err)
		}
		users = append(users, domain.User{
			ID:           s.ID,
			Username:     s.Username,
			PasswordHash: string(hash),
			Role:         s.Role,
		})
	}
	return &Directory{users: users}, nil
}

// FindByUsername returns the user with the given username.
func (d *Directory) FindByUsername(username string) (*domain.User, bool) {
	for i := range d.users {
		if d.users[i].Username == username {
			u := d.users[i]
			return &u, true
		}
	}
	return nil, false
}

// FindByID returns the user with the given id.
func (d *Directory) FindByID(id int64) (*domain.User, bool) {
	for i := range d.users {
		if d.users[i].ID == id {
			u := d.users[i]
			return &u, true
		}
	}
	return nil, false
}
