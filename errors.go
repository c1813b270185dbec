package authgate

import "errors"

// Parse-level failures (malformed wire form, bad signature, expiry) are the
// token subpackage's sentinels; everything the service surface can return is
// defined here.
var (
	// ErrWrongTokenCategory is returned when a refresh token is presented
	// where an access token is required, or the other way around.
	ErrWrongTokenCategory = errors.New("wrong token category")
	// ErrMissingRefreshToken is returned by Reissue when no refresh token was
	// presented at all.
	ErrMissingRefreshToken = errors.New("refresh token is missing")
	// ErrInvalidRefreshToken is returned by Reissue and Logout when the
	// presented refresh token is expired, malformed, or fails signature
	// verification.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshNotRecognized is the replay/theft-detection signal: the
	// presented refresh token verifies and has not expired, but it is not the
	// currently tracked token for its subject. It is never recovered from.
	ErrRefreshNotRecognized = errors.New("refresh token not recognized")
	// ErrInvalidCredentials is returned by Login when the credential verifier
	// rejects the username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStorageUnavailable wraps refresh-store transport failures and
	// timeouts. It is the only error kind a caller should retry.
	ErrStorageUnavailable = errors.New("refresh store unavailable")
	// ErrUserExists is returned by directory registration when the username
	// is already taken.
	ErrUserExists = errors.New("user already exists")
)
