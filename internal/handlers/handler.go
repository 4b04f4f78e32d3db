package handlers

import (
	"errors"
	"log"
	"net/http"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/middleware"
	"scavenger-hunt-api/internal/realtime"
	"scavenger-hunt-api/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API on top of the game engine
type Handler struct {
	engine    *game.Engine
	store     *store.Store
	blobs     game.Blobs
	tokens    *auth.Manager
	hub       *realtime.Hub
	maxUpload int64
}

// Deps are the collaborators a Handler needs
type Deps struct {
	Engine         *game.Engine
	Store          *store.Store
	Blobs          game.Blobs
	Tokens         *auth.Manager
	Hub            *realtime.Hub
	MaxUploadBytes int64
}

func New(d Deps) *Handler {
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = game.DefaultMaxUploadBytes
	}
	return &Handler{
		engine:    d.Engine,
		store:     d.Store,
		blobs:     d.Blobs,
		tokens:    d.Tokens,
		hub:       d.Hub,
		maxUpload: d.MaxUploadBytes,
	}
}

// session returns the caller or writes a 401
func session(c *gin.Context) (game.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return game.Session{}, false
	}
	return sess, true
}

// respondError maps engine and store errors to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrTaskLocked),
		errors.Is(err, game.ErrNotSubmittable),
		errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrOrderTaken),
		errors.Is(err, store.ErrDuplicate):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
