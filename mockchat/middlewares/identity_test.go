package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFrom(r.Context())
		if !ok {
			id = "anonymous"
		}
		w.Write([]byte(id))
	})
}

func TestIdentityMiddleware(t *testing.T) {
	const secret = "s3cret"
	h := IdentityMiddleware(secret)(echoUser())

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer " + sign(t, secret, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(time.Hour).Unix()}), http.StatusOK, "u1"},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"user_id": "u1"}), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, secret, jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"numeric claim", "Bearer " + sign(t, secret, jwt.MapClaims{"user_id": 7}), http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.code, rr.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, rr.Body.String())
			}
		})
	}
}

func TestIdentityMiddlewareDisabled(t *testing.T) {
	h := IdentityMiddleware("")(echoUser())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "anonymous", rr.Body.String())
}
