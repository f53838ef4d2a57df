package http

import (
	"log/slog"

	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/http/handlers"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// EntryStore is everything the ledger and dashboard handlers need
// from a repository. Both the postgres and the memory repos satisfy it.
type EntryStore interface {
	handlers.EntryWriter
	handlers.EntriesLister
}

// Deps carries the wired services into the router so main and the
// integration tests can build the same engine on different backends.
type Deps struct {
	Registrar     handlers.Registrar
	Authenticator handlers.Authenticator
	Sessions      handlers.SessionManager
	Entries       EntryStore
	Prom          *observability.Prom
	Registry      *prometheus.Registry
	ChartCache    *cache.Cache
	PingDB        func() error
	PingRedis     func() error
}

const maxFormBytes = 64 << 10 // forms only, no uploads

func NewRouter(log *slog.Logger, cfg config.Config, d Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.SetHTMLTemplate(web.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxFormBytes))
	r.Use(otelgin.Middleware("fintrack"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health + metrics

	healthHandler := handlers.NewHealthHandler(d.PingDB, d.PingRedis)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// Wire up the handlers

	authHandler := handlers.NewAuthHandler(d.Registrar, d.Authenticator, d.Sessions, d.Prom, cfg)
	ledgerHandler := handlers.NewLedgerHandler(d.Entries, d.Prom)
	dashboardHandler := handlers.NewDashboardHandler(d.Entries, d.ChartCache)

	r.GET("/", authHandler.Home)
	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// everything below needs a live session

	sessionMW := middlewares.NewSessionMiddleware(d.Sessions)

	private := r.Group("/")
	private.Use(sessionMW.RequireSession())

	private.GET("/dashboard", dashboardHandler.Dashboard)
	private.POST("/dashboard", dashboardHandler.Dashboard)
	private.GET("/dashboard/chart.png", dashboardHandler.Chart)
	private.GET("/add_income", ledgerHandler.AddIncomeForm)
	private.POST("/add_income", ledgerHandler.AddIncome)
	private.GET("/add_expense", ledgerHandler.AddExpenseForm)
	private.POST("/add_expense", ledgerHandler.AddExpense)

	return r
}
