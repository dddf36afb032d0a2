package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func invoke(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequesterIdentity(testSecret)(next)(c)
	return c, err
}

func TestRequesterIdentity_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	c, err := invoke(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := c.Get("requester_id").(string); got != "user_1" {
		t.Errorf("expected requester_id user_1, got %q", got)
	}
}

func TestRequesterIdentity_Rejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user_1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{"sub": "user_1"})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
		{"missing subject", "Bearer " + noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invoke(t, tt.header)
			var httpErr *echo.HTTPError
			if err == nil || !errors.As(err, &httpErr) {
				t.Fatalf("expected an HTTP error, got %v", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", httpErr.Code)
			}
		})
	}
}
