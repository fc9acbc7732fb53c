package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// VisitorCookieName identifies one browser profile across sessions.
const VisitorCookieName = "academy_visitor"

// visitorCookieMaxAge is one year.
const visitorCookieMaxAge = 365 * 24 * 60 * 60

type visitorKey struct{}

var visitorContextKey visitorKey

// Visitor returns middleware that ensures every request carries a visitor ID.
// A missing or malformed cookie is replaced with a fresh UUID.
// It never blocks a request.
func Visitor(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := visitorFromCookie(r)
			if !ok {
				id = uuid.NewString()
				setVisitorCookie(w, id, secure)
				slog.Debug("visitor_event", "event", "issued", "visitor_id", id)
			}
			next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), id)))
		})
	}
}

func visitorFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(VisitorCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	parsed, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func setVisitorCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   visitorCookieMaxAge,
	})
}

// VisitorFromContext extracts the visitor ID set by Visitor.
func VisitorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(visitorContextKey).(string)
	return id, ok && id != ""
}

// ContextWithVisitor returns a context carrying the visitor ID.
// Intended for use in tests and by Visitor.
func ContextWithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorContextKey, id)
}
