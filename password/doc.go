// Package password hashes and verifies login secrets with argon2id, encoded
// in PHC string format. It backs the bundled credential directory; the
// authentication service itself never sees a password hash.
package password
