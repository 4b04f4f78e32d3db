package handlers

import (
	"net/http"

	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ReviewRequest is an admin verdict on a submission
type ReviewRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Points  *int   `json:"points"`
	Reason  string `json:"reason"`
}

// SetActiveRequest soft-deletes or restores a task
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// GetStats returns the dashboard headline numbers
// GET /api/admin/stats
func (h *Handler) GetStats(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	stats, err := h.engine.DashboardStats(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetTeamSummaries returns every team's rollup, best score first
// GET /api/admin/teams
func (h *Handler) GetTeamSummaries(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	summaries, err := h.engine.AllTeamSummaries(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"teams": summaries,
		"count": len(summaries),
	})
}

// GetTeamSummary returns one team's rollup
// GET /api/admin/teams/:id
func (h *Handler) GetTeamSummary(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	summary, err := h.engine.TeamSummary(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetSubmissions is the review queue; ?status= and ?teamId= narrow it
// GET /api/admin/submissions
func (h *Handler) GetSubmissions(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	status := models.SubmissionStatus(c.Query("status"))
	switch status {
	case "", models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, approved or rejected"})
		return
	}
	subs, err := h.engine.Submissions(c.Request.Context(), sess, game.SubmissionFilter{
		TeamID: c.Query("teamId"),
		TaskID: c.Query("taskId"),
		Status: status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
		"count":       len(subs),
	})
}

// ReviewSubmission approves or rejects a submission
// POST /api/admin/submissions/:id/review
func (h *Handler) ReviewSubmission(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. approve is required."})
		return
	}
	sub, err := h.engine.Review(c.Request.Context(), sess, c.Param("id"), game.ReviewDecision{
		Approve: *req.Approve,
		Points:  req.Points,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// DeleteSubmission removes a submission and its file
// DELETE /api/admin/submissions/:id
func (h *Handler) DeleteSubmission(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	if err := h.engine.DeleteSubmission(c.Request.Context(), sess, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted successfully"})
}

// SetTaskActive soft-deletes or restores a task
// PATCH /api/admin/tasks/:id/active
func (h *Handler) SetTaskActive(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. active is required."})
		return
	}
	if err := h.engine.SetTaskActive(c.Request.Context(), sess, c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": *req.Active})
}
