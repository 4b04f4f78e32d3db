package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxTeamNameLength bounds team names in characters
const maxTeamNameLength = 50

// RegisterRequest represents the team registration payload
type RegisterRequest struct {
	TeamName    string `json:"teamName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token   string      `json:"token"`
	UserID  string      `json:"user_id"`
	TeamID  string      `json:"team_id,omitempty"`
	Role    models.Role `json:"role"`
	Message string      `json:"message"`
}

// Register creates a team with its login account
// POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Team name, email and password are required.",
		})
		return
	}

	name := strings.TrimSpace(req.TeamName)
	if name == "" || utf8.RuneCountInString(name) > maxTeamNameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team name must be 1-50 characters"})
		return
	}
	members := req.MemberCount
	if members < 1 {
		members = 1
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	team := models.Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		MemberCount: members,
	}
	account := models.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         models.RoleTeam,
	}
	if err := h.store.RegisterTeam(c.Request.Context(), &team, &account); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"team":  team,
	})
}

// Login authenticates a team or admin account
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and password are required.",
		})
		return
	}

	account, err := h.store.GetAccountByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, game.ErrNotFound) {
		respondError(c, err)
		return
	}
	if err != nil || !auth.CheckPassword(account.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Generate JWT token
	token, err := h.tokens.GenerateToken(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		UserID:  account.ID,
		TeamID:  account.TeamID,
		Role:    account.Role,
		Message: "Login successful",
	})
}
