package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"unicode/utf8"

	"scavenger-hunt-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UpdateTeamRequest holds the editable profile fields; nil means unchanged
type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	MemberCount *int    `json:"memberCount"`
}

// TeamResponse is a team profile with a resolved photo link
type TeamResponse struct {
	models.Team
	ProfilePhotoURL string `json:"profilePhotoURL,omitempty"`
}

func (h *Handler) teamResponse(c *gin.Context, team models.Team) TeamResponse {
	resp := TeamResponse{Team: team}
	if team.ProfilePhoto != "" {
		if url, err := h.blobs.DownloadURL(c.Request.Context(), team.ProfilePhoto); err == nil {
			resp.ProfilePhotoURL = url
		}
	}
	return resp
}

// ownTeam loads the caller's team, writing an error response when there is none
func (h *Handler) ownTeam(c *gin.Context) (models.Team, bool) {
	sess, ok := session(c)
	if !ok {
		return models.Team{}, false
	}
	if sess.TeamID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "A team account is required"})
		return models.Team{}, false
	}
	team, err := h.store.GetTeam(c.Request.Context(), sess.TeamID)
	if err != nil {
		respondError(c, err)
		return models.Team{}, false
	}
	return team, true
}

// GetTeam returns the caller's team profile
// GET /api/team
func (h *Handler) GetTeam(c *gin.Context) {
	team, ok := h.ownTeam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.teamResponse(c, team))
}

// UpdateTeam edits the caller's team profile
// PUT /api/team
func (h *Handler) UpdateTeam(c *gin.Context) {
	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	team, ok := h.ownTeam(c)
	if !ok {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || utf8.RuneCountInString(name) > maxTeamNameLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team name must be 1-50 characters"})
			return
		}
		team.Name = name
	}
	if req.Description != nil {
		team.Description = strings.TrimSpace(*req.Description)
	}
	if req.MemberCount != nil {
		if *req.MemberCount < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A team has at least one member"})
			return
		}
		team.MemberCount = *req.MemberCount
	}

	if err := h.store.UpdateTeam(c.Request.Context(), &team); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.teamResponse(c, team))
}

// UploadTeamPhoto replaces the caller's profile photo
// POST /api/team/photo
func (h *Handler) UploadTeamPhoto(c *gin.Context) {
	team, ok := h.ownTeam(c)
	if !ok {
		return
	}
	header, f, ok := formFile(c)
	if !ok {
		return
	}
	defer f.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Profile photo must be an image"})
		return
	}
	if header.Size <= 0 || header.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Profile photo must be 1 byte to %d bytes", h.maxUpload)})
		return
	}

	ctx := c.Request.Context()
	objectPath := fmt.Sprintf("teams/%s/profile/%s%s", team.ID, uuid.NewString(), strings.ToLower(path.Ext(header.Filename)))
	stored, err := h.blobs.Upload(ctx, objectPath, f, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	previous := team.ProfilePhoto
	team.ProfilePhoto = stored
	if err := h.store.UpdateTeam(ctx, &team); err != nil {
		respondError(c, err)
		return
	}
	if previous != "" {
		_ = h.blobs.Delete(ctx, previous)
	}
	c.JSON(http.StatusOK, h.teamResponse(c, team))
}
