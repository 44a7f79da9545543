package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	bundleoptions "github.com/waslahq/wasla/internal/bundle/options"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
)

func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.authsvc.ListUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     authdomain.Role(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.authsvc.UpdateRole(c.Request.Context(), currentUser(c), id, authdomain.Role(req.Role)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type UpdateStatusRequest struct {
	IsActive bool `json:"is_active"`
}

func (s *Server) UpdateUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.authsvc.UpdateStatus(c.Request.Context(), id, req.IsActive); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type AccessOverrideRequest struct {
	Allow bool `json:"allow"`
}

// SetUserAccessOverride toggles dashboard access for accounts without
// a paid subscription.
func (s *Server) SetUserAccessOverride(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AccessOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.authsvc.SetAccessOverride(c.Request.Context(), id, req.Allow); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type SetDashboardRequest struct {
	URL string `json:"url"`
}

func (s *Server) SetUserDashboard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	dashboard, err := s.dashboardSvc.SetURL(c.Request.Context(), id, req.URL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (s *Server) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.authsvc.DeleteUser(c.Request.Context(), currentUser(c), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type dashboardView struct {
	dashboarddomain.Dashboard
	UserEmail string `json:"user_email"`
}

func (s *Server) ListDashboards(c *gin.Context) {
	dashboards, err := s.dashboardSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	users, err := s.authsvc.ListUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	emails := make(map[snowflake.ID]string, len(users))
	for i := range users {
		emails[users[i].ID] = users[i].Email
	}

	out := make([]dashboardView, 0, len(dashboards))
	for _, d := range dashboards {
		out = append(out, dashboardView{Dashboard: d, UserEmail: emails[d.UserID]})
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": out})
}

// AdminStats reports the headline numbers for the admin overview.
func (s *Server) AdminStats(c *gin.Context) {
	totalUsers, activeUsers, err := s.authsvc.CountUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	stats, err := s.paymentSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":         totalUsers,
		"active_users":        activeUsers,
		"total_payments":      stats.TotalPayments,
		"successful_payments": stats.SucceededPayments,
		"total_revenue_cents": stats.TotalRevenueCents,
		"total_revenue_usd":   float64(stats.TotalRevenueCents) / 100,
	})
}

func (s *Server) ListAllBundles(c *gin.Context) {
	bundles, err := s.bundleSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bundles": bundles})
}

// BundleOptions returns the fixed choices the bundle editor offers.
func (s *Server) BundleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"logos":        bundleoptions.Logos(),
		"descriptions": bundleoptions.Descriptions(),
	})
}

type BundleRequest struct {
	Name            string `json:"name"`
	PriceCents      int64  `json:"price_cents"`
	Currency        string `json:"currency"`
	TierLevel       int    `json:"tier_level"`
	LogoType        string `json:"logo_type"`
	Description     string `json:"description"`
	MainDescription string `json:"main_description"`
}

func (r BundleRequest) toUpsert() bundledomain.UpsertRequest {
	return bundledomain.UpsertRequest{
		Name:            r.Name,
		PriceCents:      r.PriceCents,
		Currency:        r.Currency,
		TierLevel:       r.TierLevel,
		LogoType:        bundledomain.LogoType(r.LogoType),
		Description:     r.Description,
		MainDescription: r.MainDescription,
	}
}

func (s *Server) CreateBundle(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	bundle, err := s.bundleSvc.Create(c.Request.Context(), req.toUpsert())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bundle)
}

func (s *Server) UpdateBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	bundle, err := s.bundleSvc.Update(c.Request.Context(), id, req.toUpsert())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (s *Server) SetBundleActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.bundleSvc.SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) DeleteBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.bundleSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListDiscountRules(c *gin.Context) {
	rules, err := s.discountSvc.ListRules(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

type DiscountRuleRequest struct {
	Name               *string `json:"name"`
	MinMonths          *int    `json:"min_months"`
	MaxMonths          *int    `json:"max_months"`
	DiscountPercentage *int    `json:"discount_percentage"`
	IsActive           *bool   `json:"is_active"`
}

func (s *Server) CreateDiscountRule(c *gin.Context) {
	var req DiscountRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Name == nil || req.MinMonths == nil || req.DiscountPercentage == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	rule, err := s.discountSvc.CreateRule(c.Request.Context(), discountdomain.CreateRuleRequest{
		Name:               *req.Name,
		MinMonths:          *req.MinMonths,
		MaxMonths:          req.MaxMonths,
		DiscountPercentage: *req.DiscountPercentage,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (s *Server) UpdateDiscountRule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DiscountRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	rule, err := s.discountSvc.UpdateRule(c.Request.Context(), id, discountdomain.UpdateRuleRequest{
		Name:               req.Name,
		MinMonths:          req.MinMonths,
		MaxMonths:          req.MaxMonths,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) DeleteDiscountRule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.discountSvc.DeleteRule(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListPayments(c *gin.Context) {
	payments, total, err := s.paymentSvc.List(c.Request.Context(), bindPagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": total})
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	subscriptions, total, err := s.subscriptionSvc.List(c.Request.Context(), bindPagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions, "total": total})
}

func (s *Server) DeactivateSubscription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := s.subscriptionSvc.Deactivate(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
