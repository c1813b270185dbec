// Package token signs and verifies the compact JWT credentials used by the
// authentication service. The codec is pure computation over an injected
// HS256 secret: it owns no state and is safe for unsynchronized concurrent
// use from any number of goroutines.
package token
