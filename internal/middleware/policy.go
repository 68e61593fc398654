package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Capability is what a rule demands from the requester.
type Capability int

const (
	// Public needs no identity at all.
	Public Capability = iota
	// Authenticated needs any signed-in active user.
	Authenticated
	// SelfOrAdmin permits the user whose id matches the :id path parameter,
	// or an admin.
	SelfOrAdmin
	// AdminOnly permits admins (admin role or staff flag).
	AdminOnly
)

type rule struct {
	Resource string
	Action   string
}

// policies is the single authorization table: every endpoint's requirement
// lives here instead of in per-handler conditionals. Unknown pairs deny.
var policies = map[rule]Capability{
	{"auth", "logout"}: Authenticated,

	{"users", "me"}:     Authenticated,
	{"users", "list"}:   AdminOnly,
	{"users", "create"}: AdminOnly,
	{"users", "read"}:   SelfOrAdmin,
	{"users", "update"}: SelfOrAdmin,
	{"users", "delete"}: AdminOnly,

	{"bridges", "list"}:   Public,
	{"bridges", "read"}:   Public,
	{"bridges", "search"}: Public,
	{"bridges", "watch"}:  Public,
	{"bridges", "create"}: AdminOnly,
	{"bridges", "update"}: AdminOnly,
	{"bridges", "delete"}: AdminOnly,
}

// Authorize evaluates the policy table for one (resource, action) pair.
// Rules above Public must run behind RequireAuth.
func (m *AuthMiddleware) Authorize(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		capability, known := policies[rule{Resource: resource, Action: action}]
		if !known {
			c.JSON(http.StatusForbidden, gin.H{"error_message": "forbidden"})
			c.Abort()
			return
		}

		if capability == Public {
			c.Next()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error_message": "authorization required"})
			c.Abort()
			return
		}

		switch capability {
		case Authenticated:
			// Identity alone is enough.
		case AdminOnly:
			if !user.IsAdmin() {
				c.JSON(http.StatusForbidden, gin.H{"error_message": "admin access required"})
				c.Abort()
				return
			}
		case SelfOrAdmin:
			if !user.IsAdmin() && c.Param("id") != user.ID.String() {
				c.JSON(http.StatusForbidden, gin.H{"error_message": "forbidden"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
