package authgate

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jaewoo-hong/authgate/refresh"
	"github.com/jaewoo-hong/authgate/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Service] from configuration and collaborators.
// Construction is allocation-only; no I/O happens until the first request.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	verifier CredentialVerifier
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time

	built bool
}

// New starts a builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecret sets the signing secret without replacing the rest of the
// configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = secret
	return b
}

// WithRedis supplies the client backing the refresh-token store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithVerifier supplies the external credential verifier consulted by Login.
func (b *Builder) WithVerifier(v CredentialVerifier) *Builder {
	b.verifier = v
	return b
}

// WithLogger supplies the structured logger. Nil falls back to
// [slog.Default].
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetrics supplies a counter set shared with the caller. Nil disables
// counting.
func (b *Builder) WithMetrics(m *Metrics) *Builder {
	b.metrics = m
	return b
}

// WithClock overrides the time source. Tests use this to walk tokens past
// their expiry without sleeping.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and wires the codec, store, and service.
// A builder can be used once.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.verifier == nil {
		return nil, errors.New("credential verifier required")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	codec, err := token.New(token.Config{
		Secret: b.config.JWT.Secret,
		Issuer: b.config.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	store := refresh.NewStore(b.redis, b.config.Store.RedisPrefix, b.config.Store.Timeout)

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	b.built = true

	return &Service{
		config:   b.config,
		codec:    codec,
		store:    store,
		verifier: b.verifier,
		metrics:  b.metrics,
		log:      logger,
		now:      now,
	}, nil
}
