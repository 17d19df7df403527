package mockapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/smarthealth/internal/middleware"
	"github.com/jwalitptl/smarthealth/internal/model"
)

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(reg prometheus.Registerer) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "mockapi_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockapi_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mockapi_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	reg.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		s.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		s.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			kind := "client"
			if c.Writer.Status() >= 500 {
				kind = "server"
			}
			s.metrics.errorTotal.WithLabelValues(c.Request.Method, path, kind).Inc()
		}
	}
}

func (s *Server) setupRouter() {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.Logger(s.log),
		s.metricsMiddleware(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"statusCode": http.StatusNotFound, "message": "Route not found", "error": "Not Found"})
	})

	api := engine.Group(s.cfg.Prefix)
	api.Use(middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   s.cfg.RateLimitRPS,
		Burst: s.cfg.RateLimitBurst,
	}).RateLimit())

	s.setupHealthCheck(api)
	s.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(s.auth.Authenticate())
	s.setupProtectedRoutes(protected)

	s.engine = engine
}

func (s *Server) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", s.liveness)
		health.GET("/ready", s.readiness)
	}
}

func (s *Server) setupPublicRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", s.login)
		authGroup.POST("/register", s.register)
	}
}

func (s *Server) setupProtectedRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.GET("/account", s.account)
		authGroup.POST("/logout", s.logout)
		authGroup.POST("/refresh", s.refresh)
		authGroup.PUT("/password", s.changePassword)
	}

	admin := s.auth.RequireRole(model.RoleAdmin)
	clinical := s.auth.RequireRole(model.RoleAdmin, model.RoleDoctor, model.RoleStaff)

	s.resource(collUsers, nil).register(rg, "/users", admin)
	s.resource(collUsers, Record{"role": model.RolePatient}).register(rg, "/patients", clinical)
	s.resource(collUsers, Record{"role": model.RoleStaff}).register(rg, "/staff", admin)
	s.resource(collDoctors, nil).register(rg, "/doctors", admin)
	s.resource(collAppointments, nil).register(rg, "/appointments")
	s.resource(collTestResults, nil).register(rg, "/test-results", clinical)
	s.resource(collPrescriptions, nil).register(rg, "/prescriptions", clinical)

	files := rg.Group("/files")
	{
		files.POST("", s.uploadFile)
		files.GET("/*name", s.downloadFile)
	}
}

func (s *Server) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "alive"}})
}

func (s *Server) readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status":       "ready",
		"users":        s.store.count(collUsers),
		"appointments": s.store.count(collAppointments),
	}})
}
