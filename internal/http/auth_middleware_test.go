package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newAuthRouter() *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(JWTAuthMiddleware(testSecret, logger))
	router.GET("/v1/users/:id", func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": claims["sub"]})
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	valid := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "client-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "client-1"})
	wrongAlg := signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": "client-1"})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantTitle  string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authorization header missing"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "Token missing"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Invalid or expired token"},
		{"wrong secret", "Bearer " + wrongSecret, http.StatusUnauthorized, "Invalid or expired token"},
		{"wrong algorithm", "Bearer " + wrongAlg, http.StatusUnauthorized, "Invalid or expired token"},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "client-1", body["sub"])
				return
			}

			errBody, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "INVALID_TOKEN", errBody["code"])
			assert.Equal(t, tt.wantTitle, errBody["title"])
			assert.Equal(t, float64(http.StatusUnauthorized), errBody["status"])
		})
	}
}

func TestJWTAuthMiddleware_RejectedTokenIsNotForbidden(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "client-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	for _, header := range []string{"Bearer " + expired, "Bearer not-a-jwt"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/users/1", nil)
		req.Header.Set("Authorization", header)
		newAuthRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEqual(t, http.StatusForbidden, w.Code)
	}
}
