package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "dashboard_session"

type sessionIDKey struct{}

// sessionIDFromContext returns the session ID stored by RequireSession, or "".
func sessionIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey{}).(string)
	return v
}

// sessionClaims is the JWT payload of the session cookie.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// issueSessionCookie signs the session ID and sets it as an HttpOnly cookie that
// lives as long as the session's idle TTL.
func (h *Handler) issueSessionCookie(w http.ResponseWriter, sessionID string) error {
	now := h.now()
	claims := &sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	return nil
}

// refreshSessionCookie re-issues the cookie of a session the service has just found
// live, so the cookie expiry slides together with the registry's idle TTL. Must run
// before the response body is written.
func (h *Handler) refreshSessionCookie(w http.ResponseWriter, sessionID string) {
	if err := h.issueSessionCookie(w, sessionID); err != nil {
		h.log.WithError(err).WithField("session_id", sessionID).Warn("refresh session cookie")
	}
}

// clearSessionCookie expires the session cookie.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

// sessionFromRequest returns the session ID carried by a valid session cookie.
func (h *Handler) sessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.secret, nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}

// RequireSession is chi middleware that validates the session cookie and injects the
// session ID into the request context. Returns 401 if the cookie is absent or invalid.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.sessionFromRequest(r)
		if !ok {
			writeError(w, r, "session required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), sessionIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
