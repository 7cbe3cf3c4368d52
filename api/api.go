// Package api exposes the job search wizard over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pevans/jobwizard/bot"
	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/search"
	"github.com/pevans/jobwizard/wizard"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxDebugEntries caps the n parameter of the debug endpoint.
const maxDebugEntries = 100

// APIServer represents the HTTP API server for wizard sessions and searches.
type APIServer struct {
	service  *bot.Service
	searcher bot.Searcher
	sessions *Sessions
	logger   *zap.Logger
}

// NewAPIServer creates a new API server.
func NewAPIServer(service *bot.Service, searcher bot.Searcher, sessions *Sessions, logger *zap.Logger) *APIServer {
	if sessions == nil {
		sessions = NewSessions(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIServer{
		service:  service,
		searcher: searcher,
		sessions: sessions,
		logger:   logger,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.POST("/sessions", s.HandleCreateSession)
	api.GET("/sessions/:id", s.HandleGetSession)
	api.DELETE("/sessions/:id", s.HandleDeleteSession)
	api.POST("/sessions/:id/actions", s.HandleAction)
	api.GET("/sessions/:id/debug", s.HandleDebug)
	api.POST("/search", s.HandleSearch)
	api.GET("/ping", s.HandlePing)
	api.GET("/about", s.HandleAbout)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// SessionResponse represents a session and the reply to show for it.
type SessionResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	State     string      `json:"state"`
	Prefs     prefs.Prefs `json:"prefs"`
	Reply     bot.Reply   `json:"reply"`
}

// ActionRequest represents the request for POST
// /api/v1/sessions/{id}/actions.
type ActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// DebugResponse represents the response for GET
// /api/v1/sessions/{id}/debug.
type DebugResponse struct {
	Queries []string `json:"queries"`
	Text    string   `json:"text"`
}

// SearchRequest represents the request for POST /api/v1/search.
type SearchRequest struct {
	Country string `json:"country"`
	Sphere  string `json:"sphere"`
	Format  string `json:"format"`
}

// SearchResponse represents the response for POST /api/v1/search.
type SearchResponse struct {
	Prefs   prefs.Prefs   `json:"prefs"`
	Result  search.Result `json:"result"`
	Queries []string      `json:"queries"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	case errors.Is(err, wizard.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse("invalid_transition", err.Error()))
	case errors.Is(err, wizard.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, errorResponse("invalid_action", err.Error()))
	case errors.Is(err, prefs.ErrUnknownSphere), errors.Is(err, prefs.ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "Invalid session ID"))
		return uuid.Nil, false
	}
	return id, true
}

func sessionResponse(sess *wizard.Session, reply bot.Reply) SessionResponse {
	return SessionResponse{
		SessionID: sess.ID,
		State:     sess.State.String(),
		Prefs:     sess.Prefs,
		Reply:     reply,
	}
}

// HandleCreateSession handles POST /api/v1/sessions.
func (s *APIServer) HandleCreateSession(c *gin.Context) {
	var resp SessionResponse
	s.sessions.Create(func(sess *wizard.Session) {
		resp = sessionResponse(sess, s.service.Start(sess))
	})
	c.JSON(http.StatusCreated, resp)
}

// HandleGetSession handles GET /api/v1/sessions/{id}.
func (s *APIServer) HandleGetSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var resp SessionResponse
	err := s.sessions.With(id, func(sess *wizard.Session) error {
		resp = sessionResponse(sess, s.service.Current(sess))
		return nil
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDeleteSession handles DELETE /api/v1/sessions/{id}.
func (s *APIServer) HandleDeleteSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := s.sessions.Delete(id); err != nil {
		s.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleAction handles POST /api/v1/sessions/{id}/actions.
func (s *APIServer) HandleAction(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	// A search started by the action runs to completion even if the client
	// goes away; fetches are bounded by their own timeouts.
	ctx := context.WithoutCancel(c.Request.Context())

	var resp SessionResponse
	err := s.sessions.With(id, func(sess *wizard.Session) error {
		reply, err := s.service.Handle(ctx, sess, req.Action)
		if err != nil {
			return err
		}
		resp = sessionResponse(sess, reply)
		return nil
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleDebug handles GET /api/v1/sessions/{id}/debug.
func (s *APIServer) HandleDebug(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	n := diagnostics.DefaultLast
	if nParam := c.Query("n"); nParam != "" {
		parsed, err := strconv.Atoi(nParam)
		if err != nil || parsed <= 0 || parsed > maxDebugEntries {
			c.JSON(http.StatusBadRequest, errorResponse("bad_request", "n must be between 1 and 100"))
			return
		}
		n = parsed
	}

	var resp DebugResponse
	err := s.sessions.With(id, func(sess *wizard.Session) error {
		resp = DebugResponse{
			Queries: sess.Trail.Last(n),
			Text:    s.service.Debug(sess),
		}
		return nil
	})
	if err != nil {
		s.handleError(c, err)
		return
	}
	if resp.Queries == nil {
		resp.Queries = []string{}
	}

	c.JSON(http.StatusOK, resp)
}

// HandleSearch handles POST /api/v1/search. It runs one search outside of
// any wizard session.
func (s *APIServer) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
		return
	}

	p := prefs.Prefs{
		Country: prefs.Country(req.Country),
		Sphere:  prefs.Sphere(req.Sphere),
		Format:  prefs.Format(req.Format),
	}.Normalize()
	if err := p.Validate(); err != nil {
		s.handleError(c, err)
		return
	}

	trail := diagnostics.NewTrail()
	result := s.searcher.Search(context.WithoutCancel(c.Request.Context()), p, trail)
	if result.Listings == nil {
		result.Listings = []listing.Listing{}
	}

	c.JSON(http.StatusOK, SearchResponse{
		Prefs:   p,
		Result:  result,
		Queries: trail.Last(trail.Len()),
	})
}

// HandlePing handles GET /api/v1/ping.
func (s *APIServer) HandlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": s.service.Ping()})
}

// HandleAbout handles GET /api/v1/about.
func (s *APIServer) HandleAbout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"text": s.service.About()})
}
