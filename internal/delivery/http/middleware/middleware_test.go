package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-application-form/internal/delivery/http/middleware"
	"go-application-form/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitMiddleware(t *testing.T) {
	key := uuid.NewString()
	cfg := middleware.RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:",
		KeyFunc:   func(*gin.Context) string { return key },
	}

	r := gin.New()
	r.GET("/", middleware.RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_ZeroLimitDisables(t *testing.T) {
	r := gin.New()
	r.GET("/", middleware.RateLimitMiddleware(middleware.RateLimitConfig{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CSRFMiddleware(false))
	r.GET("/page", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.CSRFContextKey)) })
	r.POST("/page", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("get issues token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
		require.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.CSRFTokenCookieName, cookies[0].Name)
		assert.Len(t, cookies[0].Value, 2*middleware.CSRFTokenLength)
		assert.Equal(t, cookies[0].Value, w.Body.String())
	})

	post := func(cookie, header, field string) int {
		form := url.Values{}
		if field != "" {
			form.Set(middleware.CSRFTokenFormField, field)
		}
		req := httptest.NewRequest(http.MethodPost, "/page", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: middleware.CSRFTokenCookieName, Value: cookie})
		}
		if header != "" {
			req.Header.Set(middleware.CSRFTokenHeaderName, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	tests := []struct {
		name                  string
		cookie, header, field string
		want                  int
	}{
		{"header matches", "tok", "tok", "", http.StatusOK},
		{"form field matches", "tok", "", "tok", http.StatusOK},
		{"missing token", "tok", "", "", http.StatusForbidden},
		{"mismatch", "tok", "other", "", http.StatusForbidden},
		{"no cookie", "", "tok", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post(tt.cookie, tt.header, tt.field))
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.NotFound("Application form not found")) })
	r.GET("/raw", func(c *gin.Context) { c.Error(errors.New("boom")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Application form not found")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
