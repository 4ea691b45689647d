package server

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserExists is returned when the email is already registered.
var ErrUserExists = errors.New("user already exists")

// User is an account created through the demo signup form.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
}

// UserStore keeps accounts in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]User)}
}

// Create hashes password and stores the account under its lower-cased email.
func (s *UserStore) Create(id uuid.UUID, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	key := strings.ToLower(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return ErrUserExists
	}
	s.users[key] = User{ID: id, Email: email, PasswordHash: hash}
	return nil
}

// Authenticate reports whether password matches the stored hash.
func (s *UserStore) Authenticate(email, password string) (User, bool) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return User{}, false
	}
	return u, true
}
