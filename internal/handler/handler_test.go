package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mess-mate/internal/middleware"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
	"mess-mate/internal/store"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	st := store.NewMemory()

	authSvc := service.NewAuthService(st)
	menuSvc := service.NewMenuService(st)
	annSvc := service.NewAnnouncementService(st)
	fbSvc := service.NewFeedbackService(st)
	mealSvc := service.NewMealService(st)

	authH := NewAuthHandler(authSvc)
	menuH := NewMenuHandler(menuSvc)
	annH := NewAnnouncementHandler(annSvc)
	fbH := NewFeedbackHandler(fbSvc)
	mealH := NewMealHandler(mealSvc)
	streamH := NewStreamHandler(menuSvc, annSvc, fbSvc, mealSvc)

	r := gin.New()
	r.POST("/api/signup", authH.Signup)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.Auth())
	api.GET("/me", authH.Me)
	api.GET("/menu", menuH.Get)
	api.GET("/announcements", annH.ListActive)
	api.POST("/feedback", fbH.SubmitFeedback)
	api.POST("/complaints", fbH.SubmitComplaint)
	api.GET("/feedback/mine", fbH.Mine)
	api.POST("/meals", mealH.Submit)
	api.GET("/meals/:date", mealH.Get)
	api.GET("/stream/menu", streamH.Menu)

	admin := api.Group("/admin", middleware.RequireRole("admin"))
	admin.PUT("/menu", menuH.Update)
	admin.GET("/announcements", annH.ListAll)
	admin.POST("/announcements", annH.Create)
	admin.PATCH("/announcements/:id", annH.Toggle)
	admin.DELETE("/announcements/:id", annH.Delete)
	admin.GET("/feedback", fbH.ListFeedback)
	admin.GET("/complaints", fbH.ListComplaints)
	admin.PATCH("/complaints/:id", fbH.UpdateComplaintStatus)
	admin.GET("/stats/:date", mealH.Stats)
	admin.GET("/stats/:date/export", mealH.ExportStats)

	return r
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, r *gin.Engine, email, password string) model.AuthResponse {
	t.Helper()
	w := do(r, "POST", "/api/signup", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestSignupLoginFlow(t *testing.T) {
	r := newTestRouter()

	resp := signup(t, r, "alice@campus.edu", "secret123")
	assert.Equal(t, model.RoleStudent, resp.User.Role)

	w := do(r, "GET", "/api/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, resp.User.ID, p.ID)
	assert.Equal(t, "alice@campus.edu", p.Email)

	w = do(r, "POST", "/api/login", "", gin.H{"email": "alice@campus.edu", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "POST", "/api/signup", "", gin.H{"email": "bob@campus.edu", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteGuard(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")
	admin := signup(t, r, "admin@mess.local", "secret123")
	require.Equal(t, model.RoleAdmin, admin.User.Role)

	w := do(r, "GET", "/api/menu", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "unauthenticated access is rejected")

	w = do(r, "PUT", "/api/admin/menu", student.Token, gin.H{"breakfast": "idli"})
	assert.Equal(t, http.StatusForbidden, w.Code, "students cannot reach admin views")

	w = do(r, "PUT", "/api/admin/menu", admin.Token, gin.H{"breakfast": "idli"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenuUpdateMergesAcrossRequests(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")
	admin := signup(t, r, "admin@mess.local", "secret123")

	require.Equal(t, http.StatusOK, do(r, "PUT", "/api/admin/menu", admin.Token, gin.H{"breakfast": "idli"}).Code)
	require.Equal(t, http.StatusOK, do(r, "PUT", "/api/admin/menu", admin.Token, gin.H{"lunch": "thali"}).Code)

	w := do(r, "GET", "/api/menu", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var menu model.Menu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menu))
	assert.Equal(t, model.Menu{Breakfast: "idli", Lunch: "thali"}, menu)
}

func TestAnnouncementLifecycle(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")
	admin := signup(t, r, "admin@mess.local", "secret123")

	w := do(r, "POST", "/api/admin/announcements", admin.Token, gin.H{"title": "Holiday", "message": "Mess closed", "priority": "urgent"})
	require.Equal(t, http.StatusCreated, w.Code)
	var a model.Announcement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	assert.Equal(t, "admin@mess.local", a.CreatedBy)

	w = do(r, "GET", "/api/announcements", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Announcement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Holiday", list[0].Title)

	// Soft delete hides it from students but not from the admin view.
	w = do(r, "PATCH", "/api/admin/announcements/"+a.ID, admin.Token, gin.H{"isActive": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, "GET", "/api/announcements", student.Token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	w = do(r, "GET", "/api/admin/announcements", admin.Token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(r, "DELETE", "/api/admin/announcements/"+a.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, "GET", "/api/admin/announcements", admin.Token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestComplaintTriage(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")
	admin := signup(t, r, "admin@mess.local", "secret123")

	w := do(r, "POST", "/api/complaints", student.Token, gin.H{"complaint": "cold water", "category": "hygiene"})
	require.Equal(t, http.StatusCreated, w.Code)
	var c model.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, student.User.ID, c.UserID)

	w = do(r, "PATCH", "/api/admin/complaints/"+c.ID, admin.Token, gin.H{"status": "escalated"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown status rejected at the boundary")

	w = do(r, "PATCH", "/api/admin/complaints/"+c.ID, admin.Token, gin.H{"status": "resolved", "response": "Boiler fixed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, "GET", "/api/feedback/mine", student.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine model.UserFeedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Complaints, 1)
	assert.Equal(t, model.StatusResolved, mine.Complaints[0].Status)
	assert.Equal(t, "Boiler fixed", mine.Complaints[0].AdminResponse)
	assert.NotEmpty(t, mine.Complaints[0].ResolvedAt)
}

func TestFeedbackValidation(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")

	w := do(r, "POST", "/api/feedback", student.Token, gin.H{"feedback": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty feedback never reaches the store")

	w = do(r, "POST", "/api/feedback", student.Token, gin.H{"feedback": "More fruit please"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMealSubmissionAndStats(t *testing.T) {
	r := newTestRouter()
	alice := signup(t, r, "alice@campus.edu", "secret123")
	bob := signup(t, r, "bob@campus.edu", "secret123")
	admin := signup(t, r, "admin@mess.local", "secret123")

	w := do(r, "POST", "/api/meals", alice.Token, gin.H{"date": "2026-08-28", "selections": gin.H{"breakfast": true, "lunch": true}})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, "POST", "/api/meals", bob.Token, gin.H{"date": "2026-08-28", "selections": gin.H{"lunch": true}})
	require.Equal(t, http.StatusOK, w.Code)
	// Alice changes her mind; same record, new values.
	w = do(r, "POST", "/api/meals", alice.Token, gin.H{"date": "2026-08-28", "selections": gin.H{"lunch": true}})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, "GET", "/api/admin/stats/2026-08-28", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.MealStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, model.MealStats{Breakfast: 0, Lunch: 2, Dinner: 0, Total: 2}, stats)

	w = do(r, "GET", "/api/meals/2026-08-28", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sel model.MealSelection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sel))
	assert.False(t, sel.Selections.Breakfast)
	assert.True(t, sel.Selections.Lunch)

	w = do(r, "POST", "/api/meals", alice.Token, gin.H{"date": "today", "selections": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsExportIsSpreadsheet(t *testing.T) {
	r := newTestRouter()
	admin := signup(t, r, "admin@mess.local", "secret123")

	w := do(r, "GET", "/api/admin/stats/2026-08-28/export", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}

func TestStreamMenuDeliversSnapshot(t *testing.T) {
	r := newTestRouter()
	student := signup(t, r, "alice@campus.edu", "secret123")

	req := httptest.NewRequest("GET", "/api/stream/menu", nil)
	req.Header.Set("Authorization", "Bearer "+student.Token)
	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream handler did not stop on client disconnect")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event: menu")
	assert.Contains(t, body, `"breakfast":""`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}
