package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccessPolicy maps a permission name to the principal required to hold
// it. The decision is a plain membership check against the request's
// principal set.
type AccessPolicy map[string]string

// APIAccessPolicy is the static policy of the protected API resources:
// each endpoint requires the scope principal of the same name.
func APIAccessPolicy() AccessPolicy {
	return AccessPolicy{
		"api1": ScopePrincipalPrefix + "api1",
		"api2": ScopePrincipalPrefix + "api2",
		"api3": ScopePrincipalPrefix + "api3",
	}
}

// RequirePermission denies the request unless the principal set carries
// the principal the policy maps to permission. Unauthenticated requests
// get 401 with a bearer challenge; authenticated but insufficiently
// scoped requests get 403.
func RequirePermission(policy AccessPolicy, permission string, realm string) gin.HandlerFunc {
	required := policy[permission]
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.Header("WWW-Authenticate", fmt.Sprintf("Bearer realm=%q", realm))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_token",
				"error_description": "A valid bearer token is required",
			})
			return
		}

		if required == "" || !hasPrincipal(Principals(c), required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":             "insufficient_scope",
				"error_description": fmt.Sprintf("The %s permission is required", permission),
			})
			return
		}

		c.Next()
	}
}

func hasPrincipal(principals []string, required string) bool {
	for _, principal := range principals {
		if principal == required {
			return true
		}
	}
	return false
}
