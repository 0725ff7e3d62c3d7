package api

import (
	"net/http"

	"apgcal/app"
	"apgcal/internal"
	"apgcal/internal/config"
	"apgcal/internal/errors"

	"github.com/gin-gonic/gin"
)

// Server wraps the gin engine for one calibration session
type Server struct {
	router *gin.Engine
	logger *internal.Logger
}

// NewServer wires the calibration routes for svc using cfg defaults
func NewServer(svc *app.CalibrationService, cfg *config.Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	handler := NewCalibrationHandler(svc, cfg.Table.Method, cfg.Fit.Linear)
	return &Server{router: NewRouter(handler, logger), logger: logger.With("api")}
}

// Router exposes the engine for tests and embedding
func (s *Server) Router() *gin.Engine { return s.router }

// Start blocks serving on addr
func (s *Server) Start(addr string) error {
	s.logger.Info("serving calibration API on %s", addr)
	return s.router.Run(addr)
}

// NewRouter builds the gin engine serving the calibration API
func NewRouter(handler *CalibrationHandler, logger *internal.Logger) *gin.Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	log := logger.With("api")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		c.Next()
		log.Debug("%s %s -> %d", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status())
	})
	handler.Register(router)
	return router
}

// respondError maps application error codes onto HTTP statuses
func respondError(c *gin.Context, err error) {
	code := errors.Classify(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeParseError:
		status = http.StatusBadRequest
	case errors.CodeColumnLookup:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
