package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	contactdomain "github.com/waslahq/wasla/internal/contact/domain"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
	subscriptiondomain "github.com/waslahq/wasla/internal/subscription/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts errors pushed onto the gin context
// into a uniform JSON error body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authdomain.ErrUserInactive),
		errors.Is(err, authdomain.ErrRoleChangeDenied),
		errors.Is(err, contactdomain.ErrLeadAccessDenied),
		errors.Is(err, contactdomain.ErrNotAssigned):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: err.Error(),
		}
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, discountdomain.ErrRuleOverlap):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, paymentdomain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "payment provider unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, authdomain.ErrInvalidRole),
		errors.Is(err, authdomain.ErrSelfDelete),
		errors.Is(err, bundledomain.ErrInvalidBundle),
		errors.Is(err, discountdomain.ErrInvalidRange),
		errors.Is(err, discountdomain.ErrInvalidPercent),
		errors.Is(err, dashboarddomain.ErrInvalidURL),
		errors.Is(err, paymentdomain.ErrInvalidMonths),
		errors.Is(err, paymentdomain.ErrHigherTierActive),
		errors.Is(err, paymentdomain.ErrMissingSignature),
		errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, contactdomain.ErrInvalidSubmission),
		errors.Is(err, contactdomain.ErrInvalidStatus),
		errors.Is(err, contactdomain.ErrInvalidNote),
		errors.Is(err, contactdomain.ErrNotSalesman):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, bundledomain.ErrBundleNotFound),
		errors.Is(err, discountdomain.ErrRuleNotFound),
		errors.Is(err, dashboarddomain.ErrDashboardNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound),
		errors.Is(err, contactdomain.ErrContactNotFound),
		errors.Is(err, contactdomain.ErrAssignmentNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
