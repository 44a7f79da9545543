package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID                             string          `json:"id"`
	Email                          string          `json:"email"`
	FullName                       string          `json:"full_name"`
	Role                           authdomain.Role `json:"role"`
	IsActive                       bool            `json:"is_active"`
	IsVerified                     bool            `json:"is_verified"`
	AllowAccessWithoutSubscription bool            `json:"allow_access_without_subscription"`
}

func toUserResponse(user *authdomain.User) userResponse {
	return userResponse{
		ID:                             user.ID.String(),
		Email:                          user.Email,
		FullName:                       user.FullName,
		Role:                           user.Role,
		IsActive:                       user.IsActive,
		IsVerified:                     user.IsVerified,
		AllowAccessWithoutSubscription: user.AllowAccessWithoutSubscription,
	}
}

func (s *Server) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.authsvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, toUserResponse(result.User))
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			s.log.Warn("logout failed to revoke session")
		}
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
