// Package web exposes login and summary generation over HTTP.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"weeksum/internal/models"
	"weeksum/internal/period"
	"weeksum/internal/store"
)

// ProfileStore is the slice of the store the handlers need.
type ProfileStore interface {
	Authenticate(ctx context.Context, email, password string) (models.Person, error)
	PersonByEmail(ctx context.Context, email string) (models.Person, error)
	CommitmentsFor(ctx context.Context, email string, periodStart time.Time) ([]models.Commitment, error)
}

// Summarizer runs the calendar pipeline for one person and window.
type Summarizer interface {
	Run(ctx context.Context, person models.Person, p period.Period, commitments string) (models.SummaryResult, error)
}

// Server wires the HTTP handlers to the store and the pipeline.
type Server struct {
	logger     *slog.Logger
	store      ProfileStore
	summarizer Summarizer
}

// NewServer creates a server over the given collaborators.
func NewServer(logger *slog.Logger, profiles ProfileStore, summarizer Summarizer) *Server {
	return &Server{
		logger:     logger,
		store:      profiles,
		summarizer: summarizer,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.GET("/health", s.handleHealth)
	r.POST("/api/login", s.handleLogin)
	r.POST("/api/summary", s.handleSummary)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	person, err := s.store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login refused", "email", req.Email, "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": loginErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      person.Email,
		"name":       person.Name,
		"department": person.Department,
		"position":   person.Position,
	})
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrPersonNotFound):
		return "email not found"
	case errors.Is(err, store.ErrWrongPassword):
		return "wrong password"
	default:
		return "login failed"
	}
}

type summaryRequest struct {
	Email  string `json:"email"`
	Period string `json:"period"`
	Today  string `json:"today"`
}

type windowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type summaryResponse struct {
	Period     windowResponse       `json:"period"`
	Comparison windowResponse       `json:"comparison"`
	Summary    models.SummaryResult `json:"summary"`
}

func (s *Server) handleSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sel, err := period.ParseSelector(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	today := time.Now()
	if req.Today != "" {
		today, err = time.Parse("2006-01-02", req.Today)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "today must be formatted as 2006-01-02"})
			return
		}
	}

	window, err := period.Resolve(sel, today)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	person, err := s.store.PersonByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
			return
		}
		s.logger.Error("Profile lookup failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
		return
	}

	commitments, err := s.store.CommitmentsFor(ctx, person.Email, window.Start)
	if err != nil {
		s.logger.Error("Commitment lookup failed", "email", person.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commitment lookup failed"})
		return
	}

	result, err := s.summarizer.Run(ctx, person, window, store.RenderCommitments(commitments))
	if err != nil {
		s.logger.Error("Summary pipeline failed", "email", person.Email, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	comparison := window.Previous()
	c.JSON(http.StatusOK, summaryResponse{
		Period: windowResponse{
			Start: window.Start.Format("2006-01-02"),
			End:   window.End.Format("2006-01-02"),
		},
		Comparison: windowResponse{
			Start: comparison.Start.Format("2006-01-02"),
			End:   comparison.End.Format("2006-01-02"),
		},
		Summary: result,
	})
}
