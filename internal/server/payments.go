package server

import (
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
)

func (s *Server) ListBundles(c *gin.Context) {
	bundles, err := s.bundleSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bundles": bundles})
}

// BundleContent serves the rendered card for one active bundle.
func (s *Server) BundleContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	content, err := s.bundleSvc.Content(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) DiscountOptions(c *gin.Context) {
	options, err := s.discountSvc.Options(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

type CreateIntentRequest struct {
	BundleID string `json:"bundle_id"`
	Months   int    `json:"months"`
}

func (s *Server) CreatePaymentIntent(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	bundleID, err := snowflake.ParseString(req.BundleID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.CreateIntent(c.Request.Context(), paymentdomain.CreateIntentRequest{
		UserID:    user.ID,
		UserEmail: user.Email,
		BundleID:  bundleID,
		Months:    req.Months,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StripeWebhook receives processor callbacks. The raw body is needed
// for signature verification, so no binding here.
func (s *Server) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.paymentSvc.IngestWebhook(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body := gin.H{"status": result.Status}
	if result.ProviderPaymentID != "" {
		body["payment_intent_id"] = result.ProviderPaymentID
	}
	if result.SubscriptionEnd != "" {
		body["subscription_start"] = result.SubscriptionStart
		body["subscription_end"] = result.SubscriptionEnd
	}
	if result.DashboardURL != "" {
		body["dashboard_url"] = result.DashboardURL
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) MyPayments(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	payments, err := s.paymentSvc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (s *Server) MySubscription(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	summary, err := s.subscriptionSvc.Summary(c.Request.Context(), user.ID, user.AllowAccessWithoutSubscription)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
