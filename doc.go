// Package authgate implements stateless JWT authentication with rotating,
// single-use refresh tokens backed by Redis.
//
// The package is the public surface: it exposes [Service], [Config],
// [Principal], the credential-verifier contract, and the sentinel error
// taxonomy. Token signing and verification live in the token subpackage,
// the durable refresh-token table in the refresh subpackage, the per-request
// interceptor in middleware, and the HTTP handlers (header/cookie wire
// contract) in httpapi.
//
// # Architecture boundaries
//
// Everything except the refresh store is stateless and safe for arbitrary
// request-level parallelism. The store is the only component with durable
// state; its rotation step is a single atomic delete+insert so that a given
// refresh token value is consumable at most once, even when concurrent
// reissue attempts race on the same value.
//
// # What this package must NOT do
//
//   - Expose the Redis client or key layout in its public API.
//   - Block a request indefinitely: every store call runs under the
//     configured timeout and surfaces timeouts as [ErrStorageUnavailable].
//   - Treat any failure as fatal to the process; all errors are per-request.
package authgate
