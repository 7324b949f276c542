package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kbakken/wodboard/internal/auth"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func authRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestRequireTokenValid(t *testing.T) {
	var gotSubject string
	handler := RequireToken(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = auth.Subject(r.Context())
	}))

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "athlete-17",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, authRequest(token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotSubject != "athlete-17" {
		t.Errorf("subject = %q, want %q", gotSubject, "athlete-17")
	}
}

func TestRequireTokenRejects(t *testing.T) {
	handler := RequireToken(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with invalid credentials")
	}))

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "athlete-17",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	noExpiry := signToken(t, testSecret, jwt.MapClaims{"sub": "athlete-17"})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "athlete-17",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"malformed token", "not.a.jwt"},
		{"expired", expired},
		{"no expiry claim", noExpiry},
		{"no subject", noSubject},
		{"wrong signing key", wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, authRequest(tc.token))
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
		})
	}
}
