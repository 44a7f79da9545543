package server

import (
	"github.com/gin-gonic/gin"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
)

const contextUserKey = "current_user"

// AuthRequired resolves the session cookie to a user and stores it on
// the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Must run after
// AuthRequired.
func RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func currentUser(c *gin.Context) *authdomain.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*authdomain.User)
	if !ok {
		return nil
	}
	return user
}
