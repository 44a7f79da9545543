// Package server wires the HTTP surface: public storefront routes,
// the authenticated account area, and the admin workspace.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/waslahq/wasla/internal/auth"
	authdomain "github.com/waslahq/wasla/internal/auth/domain"
	"github.com/waslahq/wasla/internal/auth/session"
	"github.com/waslahq/wasla/internal/bundle"
	bundledomain "github.com/waslahq/wasla/internal/bundle/domain"
	"github.com/waslahq/wasla/internal/config"
	"github.com/waslahq/wasla/internal/contact"
	contactdomain "github.com/waslahq/wasla/internal/contact/domain"
	"github.com/waslahq/wasla/internal/dashboard"
	dashboarddomain "github.com/waslahq/wasla/internal/dashboard/domain"
	"github.com/waslahq/wasla/internal/discount"
	discountdomain "github.com/waslahq/wasla/internal/discount/domain"
	"github.com/waslahq/wasla/internal/observability"
	obslogger "github.com/waslahq/wasla/internal/observability/logger"
	obsmetrics "github.com/waslahq/wasla/internal/observability/metrics"
	obstracing "github.com/waslahq/wasla/internal/observability/tracing"
	"github.com/waslahq/wasla/internal/payment"
	paymentdomain "github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/internal/providers/email"
	"github.com/waslahq/wasla/internal/ratelimit"
	"github.com/waslahq/wasla/internal/subscription"
	subscriptiondomain "github.com/waslahq/wasla/internal/subscription/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	bundle.Module,
	discount.Module,
	dashboard.Module,
	payment.Module,
	subscription.Module,
	contact.Module,
	email.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(log, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	sessions        *session.Manager
	genID           *snowflake.Node
	authsvc         authdomain.Service
	bundleSvc       bundledomain.Service
	discountSvc     discountdomain.Service
	dashboardSvc    dashboarddomain.Service
	paymentSvc      paymentdomain.Service
	subscriptionSvc subscriptiondomain.Service
	contactSvc      contactdomain.Service
	throttle        ratelimit.Store
	httpMetrics     *obsmetrics.HTTPMetrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Sessions        *session.Manager
	GenID           *snowflake.Node
	Authsvc         authdomain.Service
	BundleSvc       bundledomain.Service
	DiscountSvc     discountdomain.Service
	DashboardSvc    dashboarddomain.Service
	PaymentSvc      paymentdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ContactSvc      contactdomain.Service
	Throttle        ratelimit.Store
	HTTPMetrics     *obsmetrics.HTTPMetrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http"),
		sessions:        p.Sessions,
		genID:           p.GenID,
		authsvc:         p.Authsvc,
		bundleSvc:       p.BundleSvc,
		discountSvc:     p.DiscountSvc,
		dashboardSvc:    p.DashboardSvc,
		paymentSvc:      p.PaymentSvc,
		subscriptionSvc: p.SubscriptionSvc,
		contactSvc:      p.ContactSvc,
		throttle:        p.Throttle,
		httpMetrics:     p.HTTPMetrics,
	}

	s.registerAuthRoutes()
	s.registerPublicRoutes()
	s.registerAccountRoutes()
	s.registerAdminRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) throttled(rule ratelimit.Rule) gin.HandlerFunc {
	return ratelimit.Middleware(s.throttle, s.httpMetrics, s.log, rule)
}

func (s *Server) registerAuthRoutes() {
	group := s.engine.Group("/auth")

	group.POST("/register", s.throttled(ratelimit.RuleRegister), s.Register)
	group.POST("/login", s.throttled(ratelimit.RuleLogin), s.Login)
	group.POST("/logout", s.AuthRequired(), s.Logout)
	group.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	api.GET("/bundles", s.ListBundles)
	api.GET("/bundles/:id/content", s.BundleContent)
	api.GET("/discount-options", s.DiscountOptions)
	api.POST("/contact", s.throttled(ratelimit.RuleContactSubmit), s.SubmitContact)
	api.POST("/webhooks/stripe", s.StripeWebhook)
}

func (s *Server) registerAccountRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	api.POST("/payments/create-intent", s.throttled(ratelimit.RulePaymentIntent), s.CreatePaymentIntent)
	api.GET("/payments/mine", s.MyPayments)
	api.GET("/subscription", s.MySubscription)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AuthRequired())

	// Technical staff share account management duties, with two
	// admin-only exceptions below.
	users := admin.Group("/users", RequireRole(authdomain.RoleAdmin, authdomain.RoleTechnical))
	users.GET("", s.ListUsers)
	users.POST("", s.CreateUser)
	users.PATCH("/:id/role", s.UpdateUserRole)
	users.PATCH("/:id/status", RequireRole(authdomain.RoleAdmin), s.UpdateUserStatus)
	users.PATCH("/:id/access", RequireRole(authdomain.RoleAdmin), s.SetUserAccessOverride)
	users.PUT("/:id/dashboard", s.SetUserDashboard)
	users.DELETE("/:id", s.DeleteUser)

	admin.GET("/dashboards", RequireRole(authdomain.RoleAdmin, authdomain.RoleTechnical), s.ListDashboards)
	admin.GET("/stats", RequireRole(authdomain.RoleAdmin), s.AdminStats)

	bundles := admin.Group("/bundles", RequireRole(authdomain.RoleAdmin))
	bundles.GET("", s.ListAllBundles)
	bundles.GET("/options", s.BundleOptions)
	bundles.POST("", s.CreateBundle)
	bundles.PUT("/:id", s.UpdateBundle)
	bundles.PATCH("/:id/active", s.SetBundleActive)
	bundles.DELETE("/:id", s.DeleteBundle)

	rules := admin.Group("/discount-rules", RequireRole(authdomain.RoleAdmin))
	rules.GET("", s.ListDiscountRules)
	rules.POST("", s.CreateDiscountRule)
	rules.PATCH("/:id", s.UpdateDiscountRule)
	rules.DELETE("/:id", s.DeleteDiscountRule)

	billing := admin.Group("", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant))
	billing.GET("/payments", s.ListPayments)
	billing.GET("/subscriptions", s.ListSubscriptions)
	billing.POST("/subscriptions/:id/deactivate", RequireRole(authdomain.RoleAdmin), s.DeactivateSubscription)

	// Lead visibility is narrowed further inside the service: salesmen
	// only ever see their own assignments.
	leads := admin.Group("/leads", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant, authdomain.RoleSalesman))
	leads.GET("", s.ListLeads)
	leads.GET("/export", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant), s.ExportLeads)
	leads.GET("/:id", s.LeadDetail)
	leads.PATCH("/:id/status", s.UpdateLeadStatus)
	leads.POST("/:id/notes", s.AddLeadNote)
	leads.POST("/:id/assign", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant), s.AssignLead)
	leads.DELETE("/:id/assign", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant), s.UnassignLead)

	admin.GET("/salesmen", RequireRole(authdomain.RoleAdmin, authdomain.RoleAccountant), s.ListSalesmen)
}
