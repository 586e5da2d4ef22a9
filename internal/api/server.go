package api

import (
	"context"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/abderrahmaneOU/alx-backend-graphql-crm/config"
	"github.com/abderrahmaneOU/alx-backend-graphql-crm/internal/crm"
)

// JobRunner triggers a named background job immediately.
type JobRunner interface {
	RunJobNow(name string) error
}

// Server hosts the CRM HTTP API. Mutations go through the mutation
// service; read paths hit the repositories directly.
type Server struct {
	cfg       *config.AppConfig
	echo      *echo.Echo
	store     crm.Store
	mutations *crm.MutationService
	jobs      JobRunner
}

func NewServer(cfg *config.AppConfig, store crm.Store, mutations *crm.MutationService, jobs JobRunner) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &JsoniterSerializer{}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	s := &Server{cfg: cfg, echo: e, store: store, mutations: mutations, jobs: jobs}
	s.registerRoutes()
	return s
}

// Echo exposes the underlying engine, used by tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

func (s *Server) registerRoutes() {
	// unauthenticated
	s.echo.GET("/api/ping", s.ping)
	s.echo.POST("/api/token", s.issueToken)

	g := s.echo.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.cfg.Web.Secret),
	}))

	g.GET("/customers", s.listCustomers)
	g.POST("/customers", s.createCustomer)
	g.POST("/customers/bulk", s.bulkCreateCustomers)
	g.POST("/customers/import", s.importCustomers)

	g.GET("/products", s.listProducts)
	g.POST("/products", s.createProduct)
	g.POST("/products/restock", s.restockProducts)

	g.GET("/orders", s.listOrders)
	g.POST("/orders", s.createOrder)

	g.GET("/reports/summary", s.reportSummary)

	g.POST("/jobs/:name/run", s.runJob)
}

func (s *Server) runJob(c echo.Context) error {
	if s.jobs == nil {
		return fail(c, http.StatusServiceUnavailable, "JOBS_DISABLED", "Job runner not available", nil)
	}
	name := c.Param("name")
	if err := s.jobs.RunJobNow(name); err != nil {
		return fail(c, http.StatusBadRequest, "UNKNOWN_JOB", "Failed to run job", err.Error())
	}
	return ok(c, map[string]interface{}{"job": name})
}

func (s *Server) ping(c echo.Context) error {
	return ok(c, map[string]interface{}{"message": "Hello, CRM!"})
}

// Start blocks serving HTTP until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("CRM api server starting", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	}
}
