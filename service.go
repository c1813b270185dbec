package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaewoo-hong/authgate/refresh"
	"github.com/jaewoo-hong/authgate/token"
)

// TokenPair is the result of a successful login or reissue: a short-lived
// access token and the refresh token that will buy its successor.
type TokenPair struct {
	Access  string
	Refresh string
}

// Service implements login, reissue, and logout over the token codec, the
// refresh store, and the injected credential verifier. A Service is
// stateless apart from the store and safe for arbitrary request-level
// parallelism; replicas sharing one Redis behave as one instance.
type Service struct {
	config   Config
	codec    *token.Codec
	store    *refresh.Store
	verifier CredentialVerifier
	metrics  *Metrics
	log      *slog.Logger
	now      func() time.Time
}

// Codec exposes the token codec for the authentication interceptor.
func (s *Service) Codec() *token.Codec {
	return s.codec
}

// Config returns a copy of the active configuration.
func (s *Service) Config() Config {
	return s.config
}

// MetricsSnapshot reads the service counters. Zero-valued when no metrics
// sink was attached at build time.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// Ping checks the refresh store round-trip.
func (s *Service) Ping(ctx context.Context) (time.Duration, error) {
	return s.store.Ping(ctx)
}

// Login verifies the credentials and issues the first token pair for the
// session. Verification failures of any kind surface as
// [ErrInvalidCredentials] with no token issuance and no store write. Each
// successful login inserts one refresh record; concurrent sessions for one
// subject coexist.
func (s *Service) Login(ctx context.Context, username, secret string) (TokenPair, error) {
	role, err := s.verifier.Verify(ctx, username, secret)
	if err != nil {
		s.metrics.Inc(MetricLoginFailure)
		s.log.Info("login rejected", "subject", username)
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, rec, err := s.issuePair(username, role)
	if err != nil {
		s.metrics.Inc(MetricLoginFailure)
		return TokenPair{}, err
	}

	// The record must be durable before the pair is released: a refresh
	// token the store has never seen is permanently unrecognizable.
	if err := s.store.Save(ctx, rec); err != nil {
		s.metrics.Inc(MetricLoginFailure)
		s.log.Error("refresh record save failed", "subject", username, "err", err)
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.metrics.Inc(MetricLoginSuccess)
	s.log.Info("login succeeded", "subject", username, "role", role)

	return pair, nil
}

// Reissue rotates a refresh token into a new access/refresh pair. The
// presented token must strict-parse (an expired refresh token is rejected,
// never silently rotated), carry the refresh category, and be the currently
// tracked record for its value. Rotation consumes the record and inserts its
// replacement in one atomic store step, so a given refresh token value is
// consumable at most once: when two calls race on the same value, exactly
// one succeeds and the rest see [ErrRefreshNotRecognized].
func (s *Service) Reissue(ctx context.Context, presented string) (TokenPair, error) {
	if presented == "" {
		s.metrics.Inc(MetricReissueFailure)
		return TokenPair{}, ErrMissingRefreshToken
	}

	claims, err := s.codec.Parse(presented)
	if err != nil {
		s.metrics.Inc(MetricReissueFailure)
		s.log.Info("reissue rejected", "reason", err)
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if claims.Category != token.CategoryRefresh {
		s.metrics.Inc(MetricReissueFailure)
		return TokenPair{}, ErrWrongTokenCategory
	}

	pair, rec, err := s.issuePair(claims.Subject, claims.Role)
	if err != nil {
		s.metrics.Inc(MetricReissueFailure)
		return TokenPair{}, err
	}

	if err := s.store.Rotate(ctx, presented, rec); err != nil {
		switch {
		case errors.Is(err, refresh.ErrNotRecognized):
			// Replay or theft: a verifiable, unexpired refresh token that is
			// no longer tracked. Rejected unconditionally, no recovery.
			s.metrics.Inc(MetricRefreshReuseDetected)
			s.log.Warn("refresh token reuse detected", "subject", claims.Subject)
			return TokenPair{}, ErrRefreshNotRecognized
		case errors.Is(err, refresh.ErrUnavailable):
			s.metrics.Inc(MetricReissueFailure)
			s.log.Error("refresh rotation failed", "subject", claims.Subject, "err", err)
			return TokenPair{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		default:
			s.metrics.Inc(MetricReissueFailure)
			return TokenPair{}, err
		}
	}

	s.metrics.Inc(MetricReissueSuccess)
	s.log.Info("token pair reissued", "subject", claims.Subject)

	return pair, nil
}

// Logout revokes a refresh token. An absent token is a successful no-op.
// The expiry-tolerant parse lets a client clear server state for a session
// whose refresh token has already lapsed; signature and category are still
// enforced. Deleting an untracked record is not an error.
func (s *Service) Logout(ctx context.Context, presented string) error {
	if presented == "" {
		return nil
	}

	claims, err := s.codec.ParseIgnoringExpiry(presented)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if claims.Category != token.CategoryRefresh {
		return ErrWrongTokenCategory
	}

	if err := s.store.Delete(ctx, presented); err != nil {
		s.log.Error("refresh record delete failed", "subject", claims.Subject, "err", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.metrics.Inc(MetricLogout)
	s.log.Info("logout", "subject", claims.Subject)

	return nil
}

func (s *Service) issuePair(subject, role string) (TokenPair, refresh.Record, error) {
	access, err := s.codec.Issue(token.CategoryAccess, subject, role, s.config.JWT.AccessTTL)
	if err != nil {
		return TokenPair{}, refresh.Record{}, err
	}

	refreshTok, err := s.codec.Issue(token.CategoryRefresh, subject, role, s.config.JWT.RefreshTTL)
	if err != nil {
		return TokenPair{}, refresh.Record{}, err
	}

	rec := refresh.Record{
		Subject:    subject,
		TokenValue: refreshTok,
		ExpiresAt:  s.now().Add(s.config.JWT.RefreshTTL),
	}

	return TokenPair{Access: access, Refresh: refreshTok}, rec, nil
}
