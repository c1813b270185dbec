package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	authgate "github.com/jaewoo-hong/authgate"
)

// Handlers serves the always-reachable authentication endpoints: login,
// reissue, logout, and (when a directory is attached) join.
type Handlers struct {
	svc    *authgate.Service
	dir    *authgate.Directory
	cookie authgate.CookieConfig
	log    *slog.Logger
}

// Option configures optional handler collaborators.
type Option func(*Handlers)

// WithDirectory enables the /join registration endpoint against the given
// directory.
func WithDirectory(dir *authgate.Directory) Option {
	return func(h *Handlers) { h.dir = dir }
}

// WithLogger overrides the handler logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.log = l }
}

// NewHandlers wires the HTTP surface over a built service. Cookie attributes
// come from the service configuration.
func NewHandlers(svc *authgate.Service, opts ...Option) *Handlers {
	h := &Handlers{
		svc:    svc,
		cookie: svc.Config().Cookie,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a username/password pair and emits the first token
// pair: the access token in the Authorization response header, the refresh
// token in the cookie channel.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid login form")
		return
	}

	pair, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, authgate.ErrStorageUnavailable) {
			writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.emitPair(w, r, pair)
	w.WriteHeader(http.StatusOK)
}

// Reissue rotates the refresh token presented in the cookie channel into a
// new pair. The reason strings on the 400 path are part of the wire
// contract: "refresh token is missing", "refresh token is expired", and
// "invalid refresh token" for the replay/theft case.
func (h *Handlers) Reissue(w http.ResponseWriter, r *http.Request) {
	pair, err := h.svc.Reissue(r.Context(), refreshCookieValue(r, h.cookie.Name))
	if err != nil {
		switch {
		case errors.Is(err, authgate.ErrMissingRefreshToken):
			http.Error(w, "refresh token is missing", http.StatusBadRequest)
		case errors.Is(err, authgate.ErrInvalidRefreshToken),
			errors.Is(err, authgate.ErrWrongTokenCategory):
			http.Error(w, "refresh token is expired", http.StatusBadRequest)
		case errors.Is(err, authgate.ErrRefreshNotRecognized):
			http.Error(w, "invalid refresh token", http.StatusBadRequest)
		case errors.Is(err, authgate.ErrStorageUnavailable):
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "invalid refresh token", http.StatusBadRequest)
		}
		return
	}

	h.emitPair(w, r, pair)
	w.WriteHeader(http.StatusOK)
}

// Logout revokes the refresh token in the cookie channel and clears the
// cookie. A request with no cookie is a successful no-op; logout is
// idempotent. Access tokens are not revoked and stay valid until natural
// expiry.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Logout(r.Context(), refreshCookieValue(r, h.cookie.Name))
	if err != nil {
		switch {
		case errors.Is(err, authgate.ErrStorageUnavailable):
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "invalid refresh token", http.StatusBadRequest)
		}
		return
	}

	clearRefreshCookie(w, r, h.cookie)
	w.WriteHeader(http.StatusOK)
}

type joinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Join registers a new user in the attached directory. Responds 404 when no
// directory was wired, 409 on a taken username.
func (h *Handlers) Join(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		http.NotFound(w, r)
		return
	}

	var body joinRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username == "" || body.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid join form")
		return
	}
	if body.Role == "" {
		body.Role = "USER"
	}

	if err := h.dir.Register(body.Username, body.Password, body.Role); err != nil {
		if errors.Is(err, authgate.ErrUserExists) {
			writeJSONError(w, http.StatusConflict, "username already taken")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "invalid join form")
		return
	}

	h.log.Info("user registered", "subject", body.Username, "role", body.Role)
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) emitPair(w http.ResponseWriter, r *http.Request, pair authgate.TokenPair) {
	w.Header().Set("Authorization", "Bearer "+pair.Access)
	setRefreshCookie(w, r, h.cookie, pair.Refresh, h.svc.Config().JWT.RefreshTTL)
}

func refreshCookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
