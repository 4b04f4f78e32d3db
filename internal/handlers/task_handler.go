package handlers

import (
	"net/http"

	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/rules"

	"github.com/gin-gonic/gin"
)

// AnswerRequest carries a riddle answer. Blank answers are rejected by the engine.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// QuizRequest carries one answer per quiz question, in question order
type QuizRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

// LocationRequest carries the team's reported position
type LocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// GetTasks returns the active tasks with the caller's own status
// GET /api/tasks
func (h *Handler) GetTasks(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	board, err := h.engine.Board(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": board,
		"count": len(board),
	})
}

// GetCurrentTask returns the task the team should play next, or null once finished
// GET /api/tasks/current
func (h *Handler) GetCurrentTask(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	current, err := h.engine.CurrentTask(c.Request.Context(), sess, sess.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"task": nil, "finished": true})
		return
	}
	view, err := h.engine.TaskDetail(c.Request.Context(), sess, current.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": view, "finished": false})
}

// GetTaskByID returns one task with the caller's progress on it
// GET /api/tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	view, err := h.engine.TaskDetail(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitAnswer judges a riddle attempt
// POST /api/tasks/:id/answer
func (h *Handler) SubmitAnswer(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	result, err := h.engine.SubmitAnswer(c.Request.Context(), sess, c.Param("id"), req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitQuiz scores a quiz in one shot
// POST /api/tasks/:id/quiz
func (h *Handler) SubmitQuiz(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. answers is required."})
		return
	}
	result, err := h.engine.SubmitQuiz(c.Request.Context(), sess, c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitLocation checks in at a gps task
// POST /api/tasks/:id/location
func (h *Handler) SubmitLocation(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. lat and lng are required."})
		return
	}
	at := rules.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	result, err := h.engine.SubmitLocation(c.Request.Context(), sess, c.Param("id"), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitPhoto uploads a photo or video for a photo task
// POST /api/tasks/:id/submissions (multipart: file, caption)
func (h *Handler) SubmitPhoto(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	header, f, ok := formFile(c)
	if !ok {
		return
	}
	defer f.Close()

	sub, err := h.engine.SubmitPhoto(c.Request.Context(), sess, c.Param("id"), game.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
		Caption:     c.PostForm("caption"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// ContinueTask completes a submitted photo_upload task
// POST /api/tasks/:id/continue
func (h *Handler) ContinueTask(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	progress, err := h.engine.Continue(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetProgress returns the caller's own summary
// GET /api/progress
func (h *Handler) GetProgress(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	summary, err := h.engine.TeamSummary(c.Request.Context(), sess, sess.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetMySubmissions lists the caller's uploads, newest first
// GET /api/submissions
func (h *Handler) GetMySubmissions(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}
	subs, err := h.engine.Submissions(c.Request.Context(), sess, game.SubmissionFilter{
		TeamID: sess.TeamID,
		TaskID: c.Query("taskId"),
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
