package authgate

import (
	"context"
	"sync"

	"github.com/jaewoo-hong/authgate/password"
)

// CredentialVerifier is the external collaborator consulted by Login. It
// checks a username/secret pair and returns the subject's role. Any failure
// is surfaced to clients as [ErrInvalidCredentials]; implementations should
// not distinguish unknown users from wrong passwords in their error values.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, secret string) (role string, err error)
}

type directoryUser struct {
	hash string
	role string
}

// Directory is an in-memory credential store with argon2id-hashed secrets.
// It backs the bundled /join registration endpoint and the example server's
// seeded accounts; production deployments substitute their own
// [CredentialVerifier] over a real user database.
type Directory struct {
	mu     sync.RWMutex
	hasher *password.Hasher
	users  map[string]directoryUser
}

// NewDirectory creates an empty directory over the given hasher.
func NewDirectory(hasher *password.Hasher) *Directory {
	return &Directory{
		hasher: hasher,
		users:  make(map[string]directoryUser),
	}
}

// Register adds a user. The secret is hashed before storage; the username
// must be unused.
func (d *Directory) Register(username, secret, role string) error {
	if username == "" || secret == "" {
		return ErrInvalidCredentials
	}

	hash, err := d.hasher.Hash(secret)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[username]; exists {
		return ErrUserExists
	}
	d.users[username] = directoryUser{hash: hash, role: role}

	return nil
}

// Exists reports whether a username is taken.
func (d *Directory) Exists(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.users[username]
	return ok
}

// Verify implements [CredentialVerifier]. Unknown users and wrong secrets
// both come back as [ErrInvalidCredentials].
func (d *Directory) Verify(_ context.Context, username, secret string) (string, error) {
	d.mu.RLock()
	user, ok := d.users[username]
	d.mu.RUnlock()

	if !ok {
		return "", ErrInvalidCredentials
	}

	match, err := d.hasher.Verify(secret, user.hash)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	return user.role, nil
}
