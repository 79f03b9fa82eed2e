package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard-backend/internal/delivery/http/middleware"
	"jobboard-backend/internal/delivery/http/response"
	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (*auth.Claims, error) {
	sub, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{Subject: sub, Email: sub + "@example.com"}, nil
}

type stubAuth struct {
	users map[string]*domain.User
}

func (s *stubAuth) Register(context.Context, domain.RegisterInput) (*domain.RegisterResult, error) {
	return nil, errors.New("not used")
}

func (s *stubAuth) GetCurrentUser(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("User not found")
}

func (s *stubAuth) Me(context.Context, domain.Caller) (*domain.CurrentUser, error) {
	return nil, errors.New("not used")
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Kind   string                `json:"kind"`
		Fields []apperror.FieldError `json:"fields"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newEngine() (*gin.Engine, *stubAuth, stubVerifier) {
	users := &stubAuth{users: map[string]*domain.User{
		"cand-1": {ID: "cand-1", Email: "cand-1@example.com", Role: domain.RoleCandidate, IsActive: true},
		"comp-1": {ID: "comp-1", Email: "comp-1@example.com", Role: domain.RoleCompany, IsActive: true},
		"gone-1": {ID: "gone-1", Email: "gone-1@example.com", Role: domain.RoleCandidate, IsActive: false},
	}}
	verifier := stubVerifier{"t-cand": "cand-1", "t-comp": "comp-1", "t-gone": "gone-1", "t-new": "new-1"}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	return r, users, verifier
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func whoami(c *gin.Context) {
	caller := middleware.Caller(c)
	response.Success(c, http.StatusOK, "ok", gin.H{"user_id": caller.UserID, "role": caller.Role})
}

func TestAuthMiddleware(t *testing.T) {
	r, users, verifier := newEngine()
	r.GET("/me", middleware.AuthMiddleware(verifier, users), whoami)

	t.Run("missing header", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Authorization header required", body.Message)
		assert.Equal(t, "unauthorized", body.Error.Kind)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", "forged")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", decode(t, w).Message)
	})

	t.Run("unregistered subject", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", "t-new")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "User not registered", decode(t, w).Message)
	})

	t.Run("disabled account", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", "t-gone")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role comes from the user record", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", "t-comp")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"comp-1","role":"company"}`, string(decode(t, w).Data))
	})
}

func TestTokenOnly_AllowsUnregisteredSubject(t *testing.T) {
	r, _, verifier := newEngine()
	r.POST("/register", middleware.TokenOnly(verifier), func(c *gin.Context) {
		response.Success(c, http.StatusCreated, "ok", gin.H{
			"sub":   c.GetString(string(domain.KeyUserID)),
			"email": c.GetString(string(domain.KeyUserEmail)),
		})
	})

	w := do(r, http.MethodPost, "/register", "t-new")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"sub":"new-1","email":"new-1@example.com"}`, string(decode(t, w).Data))

	w = do(r, http.MethodPost, "/register", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r, users, verifier := newEngine()
	r.GET("/jobs", middleware.OptionalAuth(verifier, users), whoami)

	w := do(r, http.MethodGet, "/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, string(decode(t, w).Data))

	// A bad token degrades to anonymous instead of failing the public route
	w = do(r, http.MethodGet, "/jobs", "forged")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, string(decode(t, w).Data))

	w = do(r, http.MethodGet, "/jobs", "t-cand")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"cand-1","role":"candidate"}`, string(decode(t, w).Data))
}

func TestRequireRole(t *testing.T) {
	r, users, verifier := newEngine()
	employers := r.Group("/employers", middleware.AuthMiddleware(verifier, users), middleware.RequireRole(domain.RoleCompany))
	employers.GET("/jobs", whoami)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/employers/jobs", "t-comp").Code)

	w := do(r, http.MethodGet, "/employers/jobs", "t-cand")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "authorization", decode(t, w).Error.Kind)
}

func TestErrorHandler(t *testing.T) {
	r, _, _ := newEngine()
	r.GET("/wizard", func(c *gin.Context) {
		c.Error(&domain.WizardRedirect{Location: "/wizard/steps/1", Reason: "Complete your personal information first"})
	})
	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperror.Validation(apperror.FieldError{Field: "national_id", Message: "invalid"}))
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(domain.ErrNotFound)
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("pq: connection refused"))
	})

	t.Run("wizard redirect", func(t *testing.T) {
		w := do(r, http.MethodGet, "/wizard", "")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/v1/wizard/steps/1", w.Header().Get("Location"))
		body := decode(t, w)
		assert.Equal(t, "Complete your personal information first", body.Message)
		assert.JSONEq(t, `{"location":"/v1/wizard/steps/1"}`, string(body.Data))
	})

	t.Run("validation fields", func(t *testing.T) {
		w := do(r, http.MethodGet, "/validation", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "validation", body.Error.Kind)
		require.Len(t, body.Error.Fields, 1)
		assert.Equal(t, "national_id", body.Error.Fields[0].Field)
	})

	t.Run("domain sentinel", func(t *testing.T) {
		w := do(r, http.MethodGet, "/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode(t, w).Error.Kind)
	})

	t.Run("internal details stay hidden", func(t *testing.T) {
		w := do(r, http.MethodGet, "/boom", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		body := decode(t, w)
		assert.Equal(t, "internal", body.Error.Kind)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestRequestID(t *testing.T) {
	r, _, _ := newEngine()
	r.GET("/ping", func(c *gin.Context) {
		ctxID, _ := c.Request.Context().Value(domain.KeyRequestID).(string)
		response.Success(c, http.StatusOK, "pong", gin.H{"ctx": ctxID})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	body := decode(t, w)
	assert.Equal(t, "req-123", body.RequestID)
	assert.JSONEq(t, `{"ctx":"req-123"}`, string(body.Data))

	w = do(r, http.MethodGet, "/ping", "")
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	r, _, _ := newEngine()
	limit := middleware.RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:test:" + t.Name() + ":",
		KeyFunc:   func(c *gin.Context) string { return "fixed" },
	}
	r.GET("/limited", middleware.RateLimitMiddleware(limit), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/limited", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/limited", "").Code)

	w := do(r, http.MethodGet, "/limited", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware("https://jobs.example.com", true))
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	req.Header.Set("Origin", "https://jobs.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Location")

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUploadQuota_WithoutRedisIsNotEnforced(t *testing.T) {
	r, users, verifier := newEngine()
	r.POST("/uploads/presign", middleware.AuthMiddleware(verifier, users), middleware.UploadQuota(1), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/uploads/presign", "t-cand").Code)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeadersMiddleware(false))
	r.GET("/v1/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/v1/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/v1/jobs", "any-token")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	w = do(r, http.MethodGet, "/v1/swagger/index.html", "")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
	assert.Empty(t, w.Header().Get("Cache-Control"))

	prod := gin.New()
	prod.Use(middleware.SecurityHeadersMiddleware(true))
	prod.GET("/v1/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.NotEmpty(t, do(prod, http.MethodGet, "/v1/jobs", "").Header().Get("Strict-Transport-Security"))
}

func TestRateLimitMiddleware_WindowResets(t *testing.T) {
	r, _, _ := newEngine()
	limit := middleware.RateLimitConfig{
		Limit:     1,
		Window:    50 * time.Millisecond,
		KeyPrefix: "rl:test:" + t.Name() + ":",
		KeyFunc:   func(c *gin.Context) string { return "fixed" },
	}
	r.GET("/limited", middleware.RateLimitMiddleware(limit), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/limited", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/limited", "").Code)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/limited", "").Code)
}
