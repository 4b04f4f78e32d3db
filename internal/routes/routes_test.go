package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/handlers"
	"scavenger-hunt-api/internal/models"
	"scavenger-hunt-api/internal/realtime"
	"scavenger-hunt-api/internal/rules"
	"scavenger-hunt-api/internal/store"
	"scavenger-hunt-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type app struct {
	router *gin.Engine
	tokens *auth.Manager
	store  *store.Store
	hub    *realtime.Hub
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	s := store.New(db)
	ctx := context.Background()
	for _, task := range []models.Task{
		{ID: "riddle", Title: "Clock", Order: 1, Points: 10, Active: true,
			Validation: rules.Validation{Kind: rules.KindTextEquals, Expected: "13"}},
		{ID: "review", Title: "Statues", Order: 2, Points: 20, Active: true,
			Validation: rules.Validation{Kind: rules.KindPhotoAdminReview}},
		{ID: "quiz", Title: "Dancing House", Order: 3, Points: 10, Active: true,
			Validation: rules.Validation{Kind: rules.KindQuiz, Questions: []rules.QuizQuestion{
				{Prompt: "Place", Answer: "New York", Accepted: []string{"newyork"}},
				{Prompt: "Year", Answer: "1900"},
			}}},
	} {
		task := task
		require.NoError(t, s.UpsertTask(ctx, &task))
	}

	tokens := auth.NewManager(config.JWTConfig{Secret: "test-secret", Issuer: "hunt", Audience: "players"})
	blobs := testutil.NewMemoryBlobs()
	engine := game.NewEngine(s, blobs, game.Options{InReviewAdvances: true})
	hub := realtime.NewHub()
	engine.SetNotifier(hub)

	h := handlers.New(handlers.Deps{Engine: engine, Store: s, Blobs: blobs, Tokens: tokens, Hub: hub, MaxUploadBytes: 1 << 20})
	return &app{
		router: SetupRoutes(Options{Handler: h, Tokens: tokens, MaxUploadBytes: 1 << 20}),
		tokens: tokens,
		store:  s,
		hub:    hub,
	}
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) upload(t *testing.T, path, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="statue.jpg"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", "our pose"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	w := a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	a := newApp(t)
	w := a.do(t, http.MethodOptions, "/api/tasks", "", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterAndLogin(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{"teamName": "Golems", "email": "golems@example.com", "password": "prague1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/register", "", gin.H{"teamName": "Golems", "email": "again@example.com", "password": "prague1"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/api/register", "", gin.H{"teamName": "Weak", "email": "weak@example.com", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "golems@example.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "Golems@example.com", "password": "prague1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[handlers.LoginResponse](t, w)
	require.Equal(t, models.RoleTeam, login.Role)
	require.NotEmpty(t, login.TeamID)

	w = a.do(t, http.MethodGet, "/api/team", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	team := decode[models.Team](t, w)
	require.Equal(t, "Golems", team.Name)
	require.Equal(t, 1, team.MemberCount)

	w = a.do(t, http.MethodPut, "/api/team", login.Token, gin.H{"memberCount": 5, "description": "From Brno"})
	require.Equal(t, http.StatusOK, w.Code)
	team = decode[models.Team](t, w)
	require.Equal(t, 5, team.MemberCount)
	require.Equal(t, "From Brno", team.Description)
}

func TestPlayThroughTheGame(t *testing.T) {
	a := newApp(t)

	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{"teamName": "Golems", "email": "golems@example.com", "password": "prague1"})
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	admin, err := a.tokens.GenerateToken(models.Account{ID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	w = a.do(t, http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodGet, "/api/tasks/current", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decode[struct {
		Task     game.TaskView `json:"task"`
		Finished bool          `json:"finished"`
	}](t, w)
	require.Equal(t, "riddle", current.Task.ID)
	require.NotContains(t, w.Body.String(), `"13"`)

	// the riddle: blank, wrong, right
	w = a.do(t, http.MethodPost, "/api/tasks/riddle/answer", token, gin.H{"answer": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(t, http.MethodPost, "/api/tasks/review/submissions", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = a.upload(t, "/api/tasks/review/submissions", token, "image/jpeg", []byte("jpeg"))
	require.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/api/tasks/riddle/answer", token, gin.H{"answer": "14"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[game.AnswerResult](t, w)
	require.False(t, res.Correct)
	require.Equal(t, 9, res.Remaining)

	w = a.do(t, http.MethodPost, "/api/tasks/riddle/answer", token, gin.H{"answer": "13"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[game.AnswerResult](t, w)
	require.Equal(t, 9, res.Awarded)

	// photo for admin review
	w = a.upload(t, "/api/tasks/review/submissions", token, "application/zip", []byte("zip"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = a.upload(t, "/api/tasks/review/submissions", token, "image/jpeg", []byte("jpeg"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[models.Submission](t, w)
	require.Equal(t, "our pose", sub.Caption)

	w = a.do(t, http.MethodGet, "/api/admin/submissions?status=pending", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodGet, "/api/admin/submissions?status=waiting", admin, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(t, http.MethodGet, "/api/admin/submissions?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	queue := decode[struct {
		Count int `json:"count"`
	}](t, w)
	require.Equal(t, 1, queue.Count)

	reviewPath := fmt.Sprintf("/api/admin/submissions/%s/review", sub.ID)
	w = a.do(t, http.MethodPost, reviewPath, admin, gin.H{"approve": true})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(t, http.MethodPost, reviewPath, admin, gin.H{"approve": true, "points": 15})
	require.Equal(t, http.StatusOK, w.Code)

	// quiz
	w = a.do(t, http.MethodPost, "/api/tasks/quiz/quiz", token, gin.H{"answers": []string{"New York", "1899"}})
	require.Equal(t, http.StatusOK, w.Code)
	quiz := decode[game.QuizResult](t, w)
	require.Equal(t, 5, quiz.Score)

	w = a.do(t, http.MethodGet, "/api/tasks/current", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[struct {
		Finished bool `json:"finished"`
	}](t, w).Finished)

	w = a.do(t, http.MethodGet, "/api/progress", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[game.TeamSummary](t, w)
	require.Equal(t, 29, summary.TotalPoints)
	require.Equal(t, 3, summary.CompletedCount)

	w = a.do(t, http.MethodGet, "/api/admin/teams", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/api/admin/teams/"+summary.TeamID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, game.DashboardStats{TotalTeams: 1, ActiveTeams: 1, TotalSubmissions: 1}, decode[game.DashboardStats](t, w))

	w = a.do(t, http.MethodDelete, "/api/admin/submissions/"+sub.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/api/submissions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)
}

func TestAdminDeactivatesTask(t *testing.T) {
	a := newApp(t)
	admin, err := a.tokens.GenerateToken(models.Account{ID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	w := a.do(t, http.MethodPatch, "/api/admin/tasks/riddle/active", admin, gin.H{"active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodPatch, "/api/admin/tasks/missing/active", admin, gin.H{"active": false})
	require.Equal(t, http.StatusNotFound, w.Code)

	tasks, err := a.store.ListActiveTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestWebSocketDeliversTeamEvents(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	w := a.do(t, http.MethodPost, "/api/register", "", gin.H{"teamName": "Golems", "email": "golems@example.com", "password": "prague1"})
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[struct {
		Token string      `json:"token"`
		Team  models.Team `json:"team"`
	}](t, w)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+reg.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	channel := realtime.TeamChannel(reg.Team.ID)
	require.Eventually(t, func() bool { return a.hub.Count(channel) == 1 }, 2*time.Second, 10*time.Millisecond)

	w = a.do(t, http.MethodPost, "/api/tasks/riddle/answer", reg.Token, gin.H{"answer": "13"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var evt game.Event
	require.NoError(t, conn.ReadJSON(&evt))
	require.Equal(t, game.EventProgressUpdated, evt.Type)
	require.Equal(t, "riddle", evt.TaskID)
	require.Equal(t, models.StatusDone, evt.Status)
	require.Equal(t, 10, *evt.Points)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return a.hub.Count(channel) == 0 }, 2*time.Second, 10*time.Millisecond)
}
