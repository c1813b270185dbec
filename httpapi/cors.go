package httpapi

import "net/http"

// CORSConfig controls the cross-origin policy for browser clients. The
// Authorization header must be exposed or the browser will hide the access
// token returned by login and reissue.
type CORSConfig struct {
	AllowedOrigin string
}

// CORS returns middleware applying the policy: credentials allowed (the
// refresh cookie crosses origins), all methods and request headers, the
// Authorization response header exposed, preflight cached for an hour.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			header.Set("Access-Control-Allow-Origin", cfg.AllowedOrigin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Origin, Accept")
			header.Set("Access-Control-Expose-Headers", "Authorization")
			header.Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
