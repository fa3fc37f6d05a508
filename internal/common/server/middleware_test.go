package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustedvehicles/dealerdesk/internal/common/auth"
	"github.com/trustedvehicles/dealerdesk/internal/common/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "dealerdesk",
		Public:    []string{"/healthz", "/api/login"},
	}
}

func newTestEngine(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(cfg, nil))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/users", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/admin-only", RequireRoles("Admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWTAuthPublicPathBypass(t *testing.T) {
	r := newTestEngine(testAuthConfig())
	if code := do(r, "/healthz", ""); code != http.StatusOK {
		t.Fatalf("public path should bypass auth, got %d", code)
	}
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
	r := newTestEngine(testAuthConfig())
	if code := do(r, "/api/users", ""); code != http.StatusUnauthorized {
		t.Fatalf("missing token should be 401, got %d", code)
	}
	if code := do(r, "/api/users", "not-a-jwt"); code != http.StatusUnauthorized {
		t.Fatalf("garbage token should be 401, got %d", code)
	}

	// 别的密钥签出来的 token 同样拒绝
	other := testAuthConfig()
	other.JWTSecret = "other-secret"
	token, _, err := auth.GenerateAccessToken(other, "user-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if code := do(r, "/api/users", token); code != http.StatusUnauthorized {
		t.Fatalf("foreign-secret token should be 401, got %d", code)
	}
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	cfg := testAuthConfig()
	r := newTestEngine(cfg)
	token, _, err := auth.GenerateAccessToken(cfg, "TVE-000001", []string{"Sales Executive"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if code := do(r, "/api/users", token); code != http.StatusOK {
		t.Fatalf("valid token should pass, got %d", code)
	}
}

func TestRequireRoles(t *testing.T) {
	cfg := testAuthConfig()
	r := newTestEngine(cfg)

	sales, _, err := auth.GenerateAccessToken(cfg, "TVE-000001", []string{"Sales Executive"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if code := do(r, "/api/admin-only", sales); code != http.StatusForbidden {
		t.Fatalf("wrong role should be 403, got %d", code)
	}

	// 角色比较不区分大小写
	admin, _, err := auth.GenerateAccessToken(cfg, "admin-user-01", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if code := do(r, "/api/admin-only", admin); code != http.StatusOK {
		t.Fatalf("admin role should pass, got %d", code)
	}
}

func TestJWTAuthDisabledPassesThrough(t *testing.T) {
	cfg := testAuthConfig()
	cfg.Enabled = false
	r := newTestEngine(cfg)
	if code := do(r, "/api/users", ""); code != http.StatusOK {
		t.Fatalf("disabled auth should pass through, got %d", code)
	}
}
