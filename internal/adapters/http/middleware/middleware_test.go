package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoVisitor() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := VisitorFromContext(r.Context())
		w.Write([]byte(id))
	})
}

// TestVisitor_IssuesCookie assigns a fresh UUID to new visitors.
func TestVisitor_IssuesCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	Visitor(false)(echoVisitor()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, VisitorCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, c.Value, rr.Body.String(), "context ID must match the issued cookie")
	_, err := uuid.Parse(c.Value)
	assert.NoError(t, err)
}

// TestVisitor_ReusesCookie keeps a valid existing ID without re-issuing.
func TestVisitor_ReusesCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: id})
	rr := httptest.NewRecorder()

	Visitor(false)(echoVisitor()).ServeHTTP(rr, req)

	assert.Equal(t, id, rr.Body.String())
	assert.Empty(t, rr.Result().Cookies())
}

// TestVisitor_ReplacesMalformedCookie re-issues when the cookie is not a UUID.
func TestVisitor_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "../../etc"})
	rr := httptest.NewRecorder()

	Visitor(true)(echoVisitor()).ServeHTTP(rr, req)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "../../etc", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
}

// TestRateLimiter_Allow exhausts and refills the bucket.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	defer rl.Close()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "other IPs have their own bucket")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "bucket refills after the interval")
}

// TestRateLimit_IgnoresPort shares one bucket across client ports.
func TestRateLimit_IgnoresPort(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Close()
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "10.0.0.1:5000"
	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "10.0.0.1:5001"

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

// TestSecurityHeaders sets the OWASP headers.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

// TestCSRF_RejectsFormWithoutToken blocks form posts but lets JSON through.
func TestCSRF_RejectsFormWithoutToken(t *testing.T) {
	handler := CSRF(CSRFConfig{Key: make([]byte, 32)})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	form := httptest.NewRequest("POST", "/favorites/course_001/toggle", strings.NewReader("x=1"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, form)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	api := httptest.NewRequest("PUT", "/api/favorites/course_001", nil)
	api.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, api)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

// TestChain_Order applies the last middleware outermost.
func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
