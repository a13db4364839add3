package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/property-api/internal/model"
	"github.com/jwalitptl/property-api/internal/permission"
	"github.com/jwalitptl/property-api/internal/service/access"
	"github.com/jwalitptl/property-api/pkg/auth"
	apperrors "github.com/jwalitptl/property-api/pkg/errors"
	"github.com/jwalitptl/property-api/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct{}

func (stubTokens) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	claims := &auth.Claims{Email: "ann@example.com"}
	claims.Subject = "auth0|ann"
	return claims, nil
}

type stubAccess struct {
	user    *model.User
	allowed map[permission.Permission]bool
}

func (s *stubAccess) ResolveUser(_ context.Context, subject string) (*model.User, error) {
	if subject != "auth0|ann" {
		return nil, apperrors.UserNotFound()
	}
	return s.user, nil
}

func (s *stubAccess) Verify(ctx context.Context, subject string, orgID uuid.UUID, p permission.Permission) (*access.Grant, error) {
	user, err := s.ResolveUser(ctx, subject)
	if err != nil {
		return nil, err
	}
	if !s.allowed[p] {
		return nil, apperrors.MissingPermission(string(p))
	}
	return &access.Grant{User: user, OrganizationID: orgID, Role: permission.RolePropertyManager}, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger.Nop()))
	r.Use(mw...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(stubTokens{}, &stubAccess{})
	r := newEngine(m.Authenticate())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Subject(c))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
		{"scheme is case insensitive", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "auth0|ann", w.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	user := &model.User{Email: "ann@example.com"}
	user.ID = uuid.New()
	m := NewAuthMiddleware(stubTokens{}, &stubAccess{
		user:    user,
		allowed: map[permission.Permission]bool{permission.PropertiesRead: true},
	})
	r := newEngine(m.Authenticate())
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, OrgID(c).String())
	}
	r.GET("/read", m.RequirePermission(permission.PropertiesRead), ok)
	r.GET("/write", m.RequirePermission(permission.PropertiesWrite), ok)

	orgID := uuid.New()
	request := func(path, org string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer good")
		if org != "" {
			req.Header.Set(HeaderOrganizationID, org)
		}
		return serve(r, req)
	}

	w := request("/read", orgID.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orgID.String(), w.Body.String())

	assert.Equal(t, http.StatusForbidden, request("/write", orgID.String()).Code)
	assert.Equal(t, http.StatusBadRequest, request("/read", "").Code)
	assert.Equal(t, http.StatusBadRequest, request("/read", "acme").Code)
}

func TestRequirePermission_PanicsOnUnknownPermission(t *testing.T) {
	m := NewAuthMiddleware(stubTokens{}, &stubAccess{})
	assert.Panics(t, func() {
		m.RequirePermission(permission.Permission("nope:nothing"))
	})
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperrors.Conflict("slug taken"))
	})
	r.GET("/internal", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slug taken")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/internal", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", 200))
	w = serve(r, req)
	_, err := uuid.Parse(w.Header().Get(HeaderXRequestID))
	assert.NoError(t, err)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(NewRateLimiter(RateLimiterConfig{RPS: 1, Burst: 2}).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes[i] = serve(r, req).Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestSizeLimit(t *testing.T) {
	r := newEngine(SizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too many bytes")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowOrigins = []string{"https://app.example.com"}
	config.AllowCredentials = true
	r := newEngine(CORS(config))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := serve(r, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCacheHeaders(t *testing.T) {
	r := newEngine()
	r.GET("/public", PublicCache(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
