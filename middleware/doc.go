// Package middleware carries the per-request authentication interceptor.
// It runs before handler logic, establishes the request principal from a
// presented access token, and never itself blocks requests that carry no
// credentials — downstream authorization is a separate concern, served by
// [RequirePrincipal] for routes that want it.
package middleware
