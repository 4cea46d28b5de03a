package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/users/internal/errors"
	userHTTP "github.com/allisson/users/internal/user/http"
)

// claimsKey is the gin context key holding the verified token claims.
const claimsKey = "jwt_claims"

// JWTAuthMiddleware verifies HS256 bearer tokens signed with secret.
//
// Error handling (all 401 with an INVALID_TOKEN error body):
//   - Missing Authorization header: "Authorization header missing"
//   - Header without a token part: "Token missing"
//   - Bad signature, wrong algorithm or expired token: "Invalid or expired token"
//
// Invalid and expired tokens answer 401 rather than 403: the caller is not
// authenticated, so every failure here maps to INVALID_TOKEN.
func JWTAuthMiddleware(secret []byte, logger *slog.Logger) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, logger, "Authorization header missing")
			return
		}

		_, token, _ := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if token == "" {
			abortUnauthorized(c, logger, "Token missing")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return secret, nil
		}); err != nil {
			logger.Debug("token validation failed", slog.Any("error", err))
			abortUnauthorized(c, logger, "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, logger *slog.Logger, title string) {
	logger.Debug("authentication failed", slog.String("reason", title))

	appErr := apperrors.NewApplicationError(&apperrors.ErrorInput{
		Code:          apperrors.CodeInvalidToken,
		Title:         title,
		CorrelationID: c.GetHeader(userHTTP.HeaderCorrelationID),
	})
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": appErr.Body()})
}

// Claims returns the claims of the token verified for this request.
func Claims(c *gin.Context) (jwt.MapClaims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(jwt.MapClaims)
	return claims, ok
}
