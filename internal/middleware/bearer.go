package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gurimusan/oauth2-sample/internal/services"
)

// ScopePrincipalPrefix tags principals derived from token scopes.
const ScopePrincipalPrefix = "s:"

// Context keys set by BearerAuth.
const (
	ContextKeyPrincipals    = "principals"
	ContextKeyAccessToken   = "accessToken"
	ContextKeyAuthenticated = "authenticated"
)

// PrincipalSource lets a resource context contribute extra principals to
// the authenticated set. Sources are consulted per request.
type PrincipalSource func(c *gin.Context) []string

// BearerAuth resolves the Authorization header into a principal set. A
// missing or malformed header means "anonymous", never an error; the
// access decision is made downstream by RequirePermission. Expired
// tokens are treated as anonymous.
func BearerAuth(store services.CredentialStore, sources ...PrincipalSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		principals := []string{}
		authenticated := false

		if accessToken := bearerToken(c.GetHeader("Authorization")); accessToken != "" {
			token, err := store.GetTokenByAccess(accessToken)
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			if token != nil && !token.IsExpired() {
				authenticated = true
				c.Set(ContextKeyAccessToken, accessToken)
				for _, scope := range token.ScopeSet().Slice() {
					principals = append(principals, ScopePrincipalPrefix+scope)
				}
			}
		}

		for _, source := range sources {
			principals = append(principals, source(c)...)
		}

		c.Set(ContextKeyPrincipals, principals)
		c.Set(ContextKeyAuthenticated, authenticated)
		c.Next()
	}
}

// bearerToken extracts the raw access token candidate from an
// Authorization header value. It returns "" unless the value has exactly
// a scheme and a token part and the scheme is bearer, case-insensitively.
func bearerToken(authorization string) string {
	if authorization == "" {
		return ""
	}
	scheme, token, found := strings.Cut(authorization, " ")
	if !found {
		return ""
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return token
}

// Principals returns the principal set attached by BearerAuth.
func Principals(c *gin.Context) []string {
	if v, ok := c.Get(ContextKeyPrincipals); ok {
		if principals, ok := v.([]string); ok {
			return principals
		}
	}
	return nil
}

// IsAuthenticated reports whether BearerAuth resolved a live token.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextKeyAuthenticated)
}
