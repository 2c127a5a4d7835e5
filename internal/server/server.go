package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sadhanahub/sadhana/internal/config"
	"github.com/sadhanahub/sadhana/internal/ledger"
	ledgerdomain "github.com/sadhanahub/sadhana/internal/ledger/domain"
	"github.com/sadhanahub/sadhana/internal/observability"
	"github.com/sadhanahub/sadhana/internal/report"
	reportdomain "github.com/sadhanahub/sadhana/internal/report/domain"
	"github.com/sadhanahub/sadhana/internal/roster"
	rosterdomain "github.com/sadhanahub/sadhana/internal/roster/domain"
	"github.com/sadhanahub/sadhana/internal/tenant"
	tenantdomain "github.com/sadhanahub/sadhana/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	tenant.Module,
	roster.Module,
	ledger.Module,
	report.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log))
	r.Use(observability.MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	tenantSvc tenantdomain.Service
	rosterSvc rosterdomain.Service
	ledgerSvc ledgerdomain.Service
	reportSvc reportdomain.Service
}

type Params struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	TenantSvc tenantdomain.Service
	RosterSvc rosterdomain.Service
	LedgerSvc ledgerdomain.Service
	ReportSvc reportdomain.Service
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		tenantSvc: p.TenantSvc,
		rosterSvc: p.RosterSvc,
		ledgerSvc: p.LedgerSvc,
		reportSvc: p.ReportSvc,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	// Pre-auth surface: tenant resolution and provisioning.
	api.POST("/login", s.Login)
	api.POST("/systems", s.ProvisionSystem)
	api.GET("/systems/security-question", s.SecurityQuestion)
	api.POST("/systems/reset-password", s.ResetPassword)

	scoped := api.Group("", s.TenantRequired())
	scoped.GET("/system", s.GetSystem)
	scoped.GET("/devotees", s.ListDevotees)
	scoped.GET("/entries", s.ListEntries)
	scoped.GET("/entries/export", s.ExportEntries)
	scoped.GET("/reports/devotees/:id", s.DevoteeReport)
	scoped.GET("/reports/overall", s.OverallReport)

	admin := scoped.Group("", s.AdminRequired())
	admin.POST("/devotees", s.AddDevotee)
	admin.PUT("/devotees/:id", s.UpdateDevotee)
	admin.DELETE("/devotees/:id", s.RemoveDevotee)
	admin.POST("/entries", s.RecordEntry)
	admin.DELETE("/entries/:id", s.DeleteEntry)
	admin.POST("/entries/bulk-delete", s.BulkDeleteEntries)
	admin.POST("/entries/import", s.ImportEntries)
	admin.PUT("/settings", s.UpdateSettings)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
