package httpserver

import (
	"errors"

	catalogrepo "carbonpay/internal/repository/catalog"
	onboardingsvc "carbonpay/internal/service/onboarding"
	portfoliosvc "carbonpay/internal/service/portfolio"
	purchasesvc "carbonpay/internal/service/purchase"
	sessionsvc "carbonpay/internal/service/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services the handlers call.
type Deps struct {
	Catalog    catalogrepo.Repository
	Sessions   *sessionsvc.Service
	Onboarding *onboardingsvc.Service
	Wizards    *onboardingsvc.Wizards
	Portfolio  *portfoliosvc.Service
	Purchases  *purchasesvc.Dialogs
}

// Options tune the router's edge behaviour.
type Options struct {
	CORSOrigins []string
	// RateLimit is a limiter rate such as "300-M"; empty disables it.
	RateLimit string
	Currency  string
}

func (d Deps) validate() error {
	if d.Catalog == nil || d.Sessions == nil || d.Onboarding == nil || d.Wizards == nil || d.Portfolio == nil || d.Purchases == nil {
		return errors.New("httpserver: missing dependency")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(accessLog(logger), gin.CustomRecovery(recoverWith(logger)), requestMetrics())

	if len(opts.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = opts.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit, err := rateLimit(opts.RateLimit)
	if err != nil {
		return nil, err
	}

	h := &handlers{deps: deps, logger: logger, currency: opts.Currency}

	api := router.Group("/api", limit)
	api.POST("/session", h.connect)
	api.GET("/projects", h.listProjects)
	api.GET("/projects/:id", h.getProject)
	api.GET("/projects/:id/details", h.getProjectDetails)
	api.GET("/onboarding/steps", h.onboardingSteps)

	auth := api.Group("", requireSession(deps.Sessions))
	auth.GET("/session", h.currentSession)
	auth.DELETE("/session", h.disconnect)

	auth.GET("/dashboard", h.dashboard)
	auth.GET("/assets", h.assets)
	auth.GET("/assets/export", h.exportAssets)
	auth.GET("/emissions", h.emissions)
	auth.GET("/emissions/export", h.exportEmissions)

	auth.POST("/onboarding", h.submitOnboarding)
	auth.GET("/onboarding/status", h.onboardingStatus)
	auth.GET("/onboarding/records", h.onboardingRecords)
	auth.GET("/onboarding/wizard", h.getWizard)
	auth.POST("/onboarding/wizard", h.restartWizard)
	auth.PATCH("/onboarding/wizard/form", h.editWizard)
	auth.POST("/onboarding/wizard/continue", h.continueWizard)
	auth.POST("/onboarding/wizard/back", h.backWizard)

	auth.GET("/purchase", h.purchaseView)
	auth.PUT("/purchase/project", h.purchaseSelect)
	auth.PUT("/purchase/quantity", h.purchaseQuantity)
	auth.POST("/purchase/continue", h.purchaseContinue)
	auth.POST("/purchase/confirm", h.purchaseConfirm)
	auth.POST("/purchase/close", h.purchaseClose)

	return router, nil
}

type handlers struct {
	deps     Deps
	logger   *zap.Logger
	currency string
}
