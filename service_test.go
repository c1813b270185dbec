package authgate_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaewoo-hong/authgate"
	"github.com/jaewoo-hong/authgate/password"
	"github.com/jaewoo-hong/authgate/token"
)

func newTestDirectory(t *testing.T) *authgate.Directory {
	t.Helper()

	// Floor-cost parameters keep the hashing in tests cheap.
	hasher, err := password.NewHasher(password.Config{Memory: 8 * 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)

	dir := authgate.NewDirectory(hasher)
	require.NoError(t, dir.Register("alice", "s3cret", "USER"))

	return dir
}

func newTestService(t *testing.T, mutate func(*authgate.Config)) (*authgate.Service, *authgate.Metrics) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := authgate.DefaultConfig()
	cfg.JWT.Secret = []byte("test-secret")
	if mutate != nil {
		mutate(&cfg)
	}

	metrics := &authgate.Metrics{}
	svc, err := authgate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithVerifier(newTestDirectory(t)).
		WithMetrics(metrics).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	require.NoError(t, err)

	return svc, metrics
}

func TestBuilderRequiresCollaborators(t *testing.T) {
	_, err := authgate.New().WithSecret([]byte("s")).Build()
	require.Error(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	_, err = authgate.New().WithSecret([]byte("s")).WithRedis(rdb).Build()
	require.Error(t, err)

	b := authgate.New().WithSecret([]byte("s")).WithRedis(rdb).WithVerifier(newTestDirectory(t))
	_, err = b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err, "a builder is single use")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, metrics := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, authgate.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, authgate.ErrInvalidCredentials)

	assert.EqualValues(t, 2, metrics.Value(authgate.MetricLoginFailure))
	assert.EqualValues(t, 0, metrics.Value(authgate.MetricLoginSuccess))
}

func TestLoginIssuesVerifiablePair(t *testing.T) {
	svc, metrics := newTestService(t, nil)

	pair, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := svc.Codec().Parse(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, token.CategoryAccess, access.Category)
	assert.Equal(t, "alice", access.Subject)
	assert.Equal(t, "USER", access.Role)

	ref, err := svc.Codec().Parse(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, token.CategoryRefresh, ref.Category)
	assert.Equal(t, "alice", ref.Subject)

	assert.EqualValues(t, 1, metrics.Value(authgate.MetricLoginSuccess))
}

func TestConcurrentSessionsCoexist(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	// Rotating one session must not disturb the other.
	_, err = svc.Reissue(ctx, first.Refresh)
	require.NoError(t, err)

	_, err = svc.Reissue(ctx, second.Refresh)
	require.NoError(t, err)
}

func TestReissueRotation(t *testing.T) {
	svc, metrics := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	next, err := svc.Reissue(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, next.Access)
	require.NotEmpty(t, next.Refresh)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	// The consumed value must be dead even though the token itself still
	// verifies.
	_, err = svc.Reissue(ctx, pair.Refresh)
	require.ErrorIs(t, err, authgate.ErrRefreshNotRecognized)
	assert.EqualValues(t, 1, metrics.Value(authgate.MetricRefreshReuseDetected))

	// The replacement chain stays live.
	_, err = svc.Reissue(ctx, next.Refresh)
	require.NoError(t, err)
	assert.EqualValues(t, 2, metrics.Value(authgate.MetricReissueSuccess))
}

func TestReissueRejectsMissingToken(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Reissue(context.Background(), "")
	require.ErrorIs(t, err, authgate.ErrMissingRefreshToken)
}

func TestReissueRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Reissue(ctx, pair.Access)
	require.ErrorIs(t, err, authgate.ErrWrongTokenCategory)
}

func TestReissueRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Reissue(context.Background(), "not.a.token")
	require.ErrorIs(t, err, authgate.ErrInvalidRefreshToken)
}

func TestReissueRejectsExpiredRefreshToken(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *authgate.Config) {
		cfg.JWT.AccessTTL = 10 * time.Millisecond
		cfg.JWT.RefreshTTL = 20 * time.Millisecond
	})
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = svc.Reissue(ctx, pair.Refresh)
	require.ErrorIs(t, err, authgate.ErrInvalidRefreshToken)
}

func TestConcurrentReissueSingleWinner(t *testing.T) {
	svc, metrics := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	const workers = 16

	start := make(chan struct{})
	results := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Reissue(ctx, pair.Refresh)
			results <- err
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, authgate.ErrRefreshNotRecognized)
	}

	assert.Equal(t, 1, wins, "one caller rotates, every rival is rejected")
	assert.EqualValues(t, workers-1, metrics.Value(authgate.MetricRefreshReuseDetected))
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))

	_, err = svc.Reissue(ctx, pair.Refresh)
	require.ErrorIs(t, err, authgate.ErrRefreshNotRecognized)

	// Repeating the logout is a no-op.
	require.NoError(t, svc.Logout(ctx, pair.Refresh))
}

func TestLogoutWithoutTokenSucceeds(t *testing.T) {
	svc, _ := newTestService(t, nil)

	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestLogoutToleratesExpiredToken(t *testing.T) {
	svc, _ := newTestService(t, func(cfg *authgate.Config) {
		cfg.JWT.AccessTTL = 10 * time.Millisecond
		cfg.JWT.RefreshTTL = 20 * time.Millisecond
	})
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	require.NoError(t, svc.Logout(ctx, pair.Refresh))
}

func TestLogoutRejectsForgedToken(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	require.ErrorIs(t, svc.Logout(ctx, "garbage"), authgate.ErrInvalidRefreshToken)

	pair, err := svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.ErrorIs(t, svc.Logout(ctx, pair.Access), authgate.ErrWrongTokenCategory)
}

func TestPing(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Ping(context.Background())
	require.NoError(t, err)
}
