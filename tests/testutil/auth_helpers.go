package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/models"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, role models.Role, scopes []string) *validator.ValidatedClaims {
	scopeString := ""
	if len(scopes) > 0 {
		for i, scope := range scopes {
			if i > 0 {
				scopeString += " "
			}
			scopeString += scope
		}
	}

	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: scopeString,
			Role:  string(role),
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, auth0ID string, issuer string, role models.Role, scopes []string) {
	claims := MockValidatedClaims(auth0ID, issuer, role, scopes)
	c.Set("user_id", auth0ID)
	c.Set("validated_claims", claims)
}

// MockAuthMiddleware replaces EnsureValidToken in tests: it injects the
// given identity into every request routed through it
func MockAuthMiddleware(auth0ID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, auth0ID, "https://test.auth0.com/", role, nil)
		c.Next()
	}
}

// MockUserMiddleware bypasses both token validation and user resolution by
// storing the user directly in the context
func MockUserMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.Auth0ID)
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}
