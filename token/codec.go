package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Category distinguishes access tokens from refresh tokens. The claim is
// immutable once issued and checked on every authentication and rotation
// path so that a refresh token can never authenticate a resource request.
type Category string

const (
	// CategoryAccess marks the short-lived credential that authorizes
	// resource requests.
	CategoryAccess Category = "access"
	// CategoryRefresh marks the long-lived credential exchanged only for new
	// token pairs.
	CategoryRefresh Category = "refresh"
)

var (
	// ErrMalformed is returned when the wire form cannot be decoded as a
	// compact JWT.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature is returned when the signature does not verify against
	// the configured secret.
	ErrBadSignature = errors.New("bad token signature")
	// ErrExpired is returned by the strict parse once expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Claims is the fixed-shape claim set carried by every issued token:
// category, subject, role, issuance and expiry timestamps, plus a random
// token ID. Exactly these fields are ever used; there is no open claim map.
type Claims struct {
	Category Category `json:"category"`
	Role     string   `json:"role"`
	jwt.RegisteredClaims
}

// Config carries the single static signing secret and an optional issuer
// claim. The secret is injected configuration, never ambient global state.
type Config struct {
	Secret []byte
	Issuer string
}

// Codec issues and verifies signed tokens. A Codec is immutable after
// construction.
type Codec struct {
	config Config
}

// New validates the signing configuration once, at startup. An empty secret
// is the only construction failure.
func New(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret must not be empty")
	}

	return &Codec{config: cfg}, nil
}

// Issue produces a signed token whose claims are exactly
// {category, subject, role, iat=now, exp=now+ttl}. Expiry is always strictly
// after issuance because ttl must be positive.
func (c *Codec) Issue(category Category, subject, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("token: ttl must be > 0")
	}

	now := time.Now()
	claims := Claims{
		Category: category,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if c.config.Issuer != "" {
		claims.Issuer = c.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

// Parse verifies signature and structural validity and rejects expired
// tokens. Failures map to [ErrMalformed], [ErrBadSignature], or [ErrExpired].
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	return c.parse(tokenStr, false)
}

// ParseIgnoringExpiry verifies signature and structure but tolerates an
// elapsed expiry. The logout path needs this: clearing server state for an
// already-expired session must still succeed. Every other caller uses the
// strict [Codec.Parse].
func (c *Codec) ParseIgnoringExpiry(tokenStr string) (*Claims, error) {
	return c.parse(tokenStr, true)
}

func (c *Codec) parse(tokenStr string, ignoreExpiry bool) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ignoreExpiry {
		options = append(options, jwt.WithoutClaimsValidation())
	}
	if !ignoreExpiry && c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.Subject == "" || claims.Category == "" {
		return nil, ErrMalformed
	}
	if claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}

	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
