package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	contactdomain "github.com/waslahq/wasla/internal/contact/domain"
	"github.com/waslahq/wasla/pkg/db/pagination"
)

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}

func bindPagination(c *gin.Context) pagination.Pagination {
	var p pagination.Pagination
	_ = c.ShouldBindQuery(&p)
	return p.Normalize()
}

// bindLeadFilter reads the lead list/export query string.
func bindLeadFilter(c *gin.Context) contactdomain.ListFilter {
	filter := contactdomain.ListFilter{
		Status:             contactdomain.Status(c.Query("status")),
		Country:            c.Query("country"),
		ReferralSource:     c.Query("referral_source"),
		LanguagePreference: c.Query("language"),
	}
	if raw := c.Query("marketing_consent"); raw != "" {
		consent := raw == "true" || raw == "1"
		filter.MarketingConsent = &consent
	}
	if raw := c.Query("created_from"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if raw := c.Query("created_to"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			end := ts.Add(24*time.Hour - time.Nanosecond)
			filter.CreatedTo = &end
		}
	}
	return filter
}
