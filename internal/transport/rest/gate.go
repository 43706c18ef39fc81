package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ndavydov/gopos/internal/pos"
	"github.com/shopspring/decimal"
)

type sessionKey struct{}

// SessionGate requires an authenticated POS session. Requests without a
// valid session cookie get a 401 carrying the login location; handlers
// behind the gate never do their own auth checks.
func (h *Handler) SessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookieName)
		if err != nil || cookie.Value == "" {
			h.respondUnauthenticated(w)
			return
		}
		sess, ok := h.sessions.Get(cookie.Value)
		if !ok {
			h.respondUnauthenticated(w)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) respondUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
		"login": h.loginURL,
	})
}

// sessionFrom returns the session placed in the context by SessionGate.
// Handlers behind the gate may assume it is present.
func sessionFrom(ctx context.Context) *pos.Session {
	sess, _ := ctx.Value(sessionKey{}).(*pos.Session)
	return sess
}

// decimalFromNumber converts a JSON number without a float round trip.
func decimalFromNumber(n json.Number) (decimal.Decimal, error) {
	return decimal.NewFromString(n.String())
}
