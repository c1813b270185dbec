package httpapi

import (
	"net/http"
	"time"

	authgate "github.com/jaewoo-hong/authgate"
)

// setRefreshCookie writes the refresh token to its cookie channel. HttpOnly
// always; Secure follows the config but is suppressed on plain-HTTP requests
// so local development keeps working.
func setRefreshCookie(w http.ResponseWriter, r *http.Request, cfg authgate.CookieConfig, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     cfg.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure && r.TLS != nil,
		SameSite: cfg.SameSite,
	})
}

// clearRefreshCookie expires the cookie channel client-side on logout.
func clearRefreshCookie(w http.ResponseWriter, r *http.Request, cfg authgate.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure && r.TLS != nil,
		SameSite: cfg.SameSite,
	})
}
