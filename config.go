package authgate

import (
	"errors"
	"net/http"
	"time"
)

// Config carries the externally supplied configuration surface: the signing
// secret, token lifetimes, the refresh-store key namespace and timeout, and
// the cookie attributes used by the HTTP layer.
//
// Config instances are intended to be populated during initialization and
// then treated as immutable.
type Config struct {
	JWT    JWTConfig
	Store  StoreConfig
	Cookie CookieConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the token codec: a single static HS256 secret and the
// access/refresh lifetimes.
type JWTConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig configures the Redis-backed refresh-token store.
type StoreConfig struct {
	// RedisPrefix namespaces refresh record keys.
	RedisPrefix string
	// Timeout bounds every store round-trip. Exceeding it surfaces
	// [ErrStorageUnavailable] to the caller.
	Timeout time.Duration
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig controls the refresh-token cookie channel. The refresh token
// travels only here, never in a header, so client-side script cannot read
// the long-lived credential.
type CookieConfig struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// DefaultConfig returns the settings the original deployment shipped with:
// a ten-minute access token, a 24-hour refresh token, and an HttpOnly
// same-site "refresh" cookie. The signing secret has no default and must be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  10 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Store: StoreConfig{
			RedisPrefix: "agr",
			Timeout:     3 * time.Second,
		},
		Cookie: CookieConfig{
			Name:     "refresh",
			Path:     "/",
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations that cannot produce a working service.
// It is called once at startup; a failure here is the only fatal condition
// in the package.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT Secret must not be empty")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT RefreshTTL must be >= AccessTTL")
	}

	if c.Store.RedisPrefix == "" {
		return errors.New("Store RedisPrefix must not be empty")
	}
	if c.Store.Timeout <= 0 {
		return errors.New("Store Timeout must be > 0")
	}

	if c.Cookie.Name == "" {
		return errors.New("Cookie Name must not be empty")
	}
	if c.Cookie.Path == "" {
		return errors.New("Cookie Path must not be empty")
	}

	return nil
}
