package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authgate "github.com/jaewoo-hong/authgate"
	"github.com/jaewoo-hong/authgate/middleware"
)

// Router assembles the full HTTP surface. Login, reissue, logout, and join
// are mounted outside the interceptor; they must stay reachable without
// credentials. Everything registered through mount runs behind
// [middleware.Authenticate]; handlers that must not serve anonymous
// requests additionally wrap themselves in [middleware.RequirePrincipal].
//
// metrics may be nil; mount may be nil when the caller only wants the
// authentication endpoints.
func (h *Handlers) Router(metrics *authgate.Metrics, mount func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/reissue", h.Reissue)
	r.Post("/logout", h.Logout)
	r.Post("/join", h.Join)

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.Authenticate(h.svc.Codec(), metrics))
		if mount != nil {
			mount(gr)
		}
	})

	return r
}

// Protected is a convenience for routes that require an authenticated
// principal: it wraps the handler in [middleware.RequirePrincipal].
func Protected(handler http.HandlerFunc) http.Handler {
	return middleware.RequirePrincipal(handler)
}
