// Package refresh is the server-side table of outstanding refresh tokens.
// It is the only component in the module with durable state: records are
// created on login and rotation, consulted on every reissue attempt, and
// deleted on rotation or logout. Redis TTLs reap records whose tokens have
// expired without an explicit logout.
//
// Rotation is a single Lua script so the delete of the consumed record and
// the insert of its replacement are one atomic step: two reissue calls
// racing on the same token value see exactly one winner.
package refresh
