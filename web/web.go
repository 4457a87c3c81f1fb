// Package web provides the HTTP server of the SecureAuth service:
// routing, middleware and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/secureauth/secureauth/config"
	"github.com/secureauth/secureauth/database/repository"
	"github.com/secureauth/secureauth/logger"
	"github.com/secureauth/secureauth/web/controller"
	"github.com/secureauth/secureauth/web/job"
	"github.com/secureauth/secureauth/web/middleware"
	"github.com/secureauth/secureauth/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

var startTime = time.Now()

// Server wires repositories, services, controllers and the cron
// scheduler together.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	repo         repository.UserRepository
	authService  *service.AuthService
	adminService *service.UserAdminService

	auth  *controller.AuthController
	users *controller.UserController
	admin *controller.UserAdminController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initServices builds the repository stack and the services on top of
// it. The sqlite store is authoritative; a local cache backend catches
// operations when the store is unreachable.
func (s *Server) initServices() error {
	primary := repository.NewGormUserRepository(nil)
	fallback := repository.NewCacheUserRepository()
	s.repo = repository.NewFailoverUserRepository(primary, fallback)

	tokens, err := service.NewTokenService()
	if err != nil {
		return err
	}
	lockout := service.NewLockoutPolicy(s.repo)
	s.authService = service.NewAuthService(s.repo, tokens, service.NewBcryptHasher(), lockout)
	s.adminService = service.NewUserAdminService(s.repo)
	return nil
}

// initRouter initializes gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"name":    config.GetName(),
			"version": config.GetVersion(),
			"uptime":  time.Since(startTime).String(),
		})
	})

	api := engine.Group("/api")
	{
		s.auth = controller.NewAuthController(api, s.authService)
		s.users = controller.NewUserController(api, s.authService)
		s.admin = controller.NewUserAdminController(api, s.authService, s.adminService)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "msg": "endpoint not found"})
	})

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@every 5m", job.NewClearLockoutsJob(s.repo))
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err := s.initServices(); err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()
	s.startTask()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", config.GetListen())
	if err != nil {
		return err
	}
	logger.Info("web server running on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()
	return nil
}

// Stop shuts the server and scheduler down gracefully.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
