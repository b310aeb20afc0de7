package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fefu-lab/course-service/internal/services"
	"github.com/fefu-lab/course-service/internal/utils"
)

const (
	// LoginPath is where unauthenticated browser requests are sent.
	LoginPath = "/login/"

	contextUserIDKey = "user_id"
	contextUserKey   = "user"
	contextRoleKey   = "user_role"
)

// SessionAuthMiddleware resolves the session token (cookie or bearer header)
// into the account and its role.
type SessionAuthMiddleware struct {
	signer     *utils.SessionSigner
	identity   services.IdentityService
	cookieName string
	logger     utils.Logger
}

func NewSessionAuthMiddleware(signer *utils.SessionSigner, identity services.IdentityService, cookieName string, logger utils.Logger) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{signer: signer, identity: identity, cookieName: cookieName, logger: logger}
}

// Authenticate attaches user identity to the context when a valid session is
// present. It never rejects: anonymous requests pass through with no identity
// set, and the Require* middlewares decide what is allowed.
func (m *SessionAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.signer.Parse(token)
		if err != nil {
			// Bad or expired token is the same as no token.
			c.Next()
			return
		}

		role, err := m.identity.RoleOf(c.Request.Context(), claims.UserID)
		if err != nil {
			m.logger.Error("role lookup failed", "error", err, "user_id", claims.UserID)
			c.Next()
			return
		}
		if role == services.RoleAnonymous {
			c.Next()
			return
		}

		user, err := m.identity.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(contextUserIDKey, claims.UserID)
		c.Set(contextUserKey, user)
		c.Set(contextRoleKey, role)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Browser requests get a 302 to the
// login page with the original destination preserved in ?next=; API clients
// get a plain 401.
func (m *SessionAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(contextUserIDKey); !ok {
			m.rejectAnonymous(c)
			return
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles through. Anonymous requests are
// redirected to login; authenticated requests with the wrong role get 403.
func (m *SessionAuthMiddleware) RequireRole(roles ...services.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(contextRoleKey)
		if !ok {
			m.rejectAnonymous(c)
			return
		}
		current := role.(services.Role)
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	}
}

// RequireStaff is shorthand for admin-only routes.
func (m *SessionAuthMiddleware) RequireStaff() gin.HandlerFunc {
	return m.RequireRole(services.RoleAdmin)
}

func (m *SessionAuthMiddleware) rejectAnonymous(c *gin.Context) {
	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
		return
	}
	next := c.Request.URL.RequestURI()
	c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(next))
	c.Abort()
}

// wantsJSON distinguishes API clients from browsers. Anything that explicitly
// accepts JSON, or that authenticated with a bearer token, is an API client.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func (m *SessionAuthMiddleware) extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// currentUserID returns the authenticated account id, or 0.
func currentUserID(c *gin.Context) uint {
	if id, ok := c.Get(contextUserIDKey); ok {
		return id.(uint)
	}
	return 0
}

func currentRole(c *gin.Context) services.Role {
	if role, ok := c.Get(contextRoleKey); ok {
		return role.(services.Role)
	}
	return services.RoleAnonymous
}
