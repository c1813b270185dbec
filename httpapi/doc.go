// Package httpapi binds the authentication service to its HTTP wire
// contract. Access tokens travel in the Authorization header as
// "Bearer <token>" in both directions; refresh tokens travel only in an
// HttpOnly same-site cookie, set by login and reissue and cleared by logout.
// The two channels are deliberately different so client-side script can
// never read the long-lived credential.
package httpapi
