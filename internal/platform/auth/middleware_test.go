package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func testClaims(roles ...string) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:  "Nguyen Van An",
		Roles: roles,
	}
}

func runJWT(t *testing.T, cfg JWTConfig, authHeader string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen context.Context
	h := JWTMiddleware(cfg)(func(c echo.Context) error {
		seen = c.Request().Context()
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, testClaims("doctor"))
	rec, ctx := runJWT(t, JWTConfig{SigningKey: testKey}, "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Errorf("expected user-1, got %q", got)
	}
	roles := RolesFromContext(ctx)
	if len(roles) != 1 || roles[0] != "doctor" {
		t.Errorf("unexpected roles: %v", roles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, _ := runJWT(t, JWTConfig{SigningKey: testKey}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, testClaims("doctor"))
	s, _ := token.SignedString([]byte("other-key"))
	rec, _ := runJWT(t, JWTConfig{SigningKey: testKey}, "Bearer "+s)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	claims := testClaims("doctor")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	rec, _ := runJWT(t, JWTConfig{SigningKey: testKey}, "Bearer "+signToken(t, claims))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen context.Context
	h := DevAuthMiddleware()(func(c echo.Context) error {
		seen = c.Request().Context()
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	roles := RolesFromContext(seen)
	if len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("dev mode grants admin, got %v", roles)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		has      []string
		required []string
		want     int
	}{
		{"exact match", []string{"doctor"}, []string{"doctor"}, http.StatusOK},
		{"admin override", []string{"admin"}, []string{"doctor"}, http.StatusOK},
		{"no match", []string{"patient"}, []string{"doctor"}, http.StatusForbidden},
		{"one of several", []string{"patient"}, []string{"doctor", "patient"}, http.StatusOK},
		{"no roles", nil, []string{"doctor"}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := context.WithValue(req.Context(), UserRolesKey, tc.has)
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequireRole(tc.required...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestSessionFromContext(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	ctx = context.WithValue(ctx, UserNameKey, "Nguyen Van An")
	ctx = context.WithValue(ctx, UserRolesKey, []string{"patient"})

	s := SessionFromContext(ctx)
	if !s.Authenticated() {
		t.Error("expected authenticated session")
	}
	if s.Name != "Nguyen Van An" {
		t.Errorf("unexpected name: %q", s.Name)
	}
	if !s.HasRole("patient") || s.HasRole("doctor") {
		t.Error("role check mismatch")
	}

	empty := SessionFromContext(context.Background())
	if empty.Authenticated() {
		t.Error("empty context is not authenticated")
	}
}
