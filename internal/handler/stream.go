package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-mate/internal/logger"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
)

// StreamHandler exposes the store subscriptions over SSE. Each request
// owns exactly one subscription and cancels it when the client goes
// away.
type StreamHandler struct {
	menu *service.MenuService
	ann  *service.AnnouncementService
	fb   *service.FeedbackService
	meal *service.MealService
}

func NewStreamHandler(menu *service.MenuService, ann *service.AnnouncementService, fb *service.FeedbackService, meal *service.MealService) *StreamHandler {
	return &StreamHandler{menu: menu, ann: ann, fb: fb, meal: meal}
}

// GET /api/stream/menu
func (h *StreamHandler) Menu(c *gin.Context) {
	stream(c, "menu", true, h.menu.SubscribeToMenu)
}

// GET /api/stream/announcements
func (h *StreamHandler) Announcements(c *gin.Context) {
	stream(c, "announcements", false, h.ann.Subscribe)
}

// GET /api/stream/meals/:date — the caller's own selection for the day.
func (h *StreamHandler) MealSelection(c *gin.Context) {
	uid, date := c.GetString("user_id"), c.Param("date")
	stream(c, "selection", true, func(cb func(*model.MealSelection), onErr func(error)) func() {
		return h.meal.SubscribeToSelection(uid, date, cb, onErr)
	})
}

// GET /api/admin/stream/feedback
func (h *StreamHandler) Feedback(c *gin.Context) {
	stream(c, "feedback", false, h.fb.SubscribeToFeedback)
}

// GET /api/admin/stream/complaints
func (h *StreamHandler) Complaints(c *gin.Context) {
	stream(c, "complaints", false, h.fb.SubscribeToComplaints)
}

type sseEvent struct {
	name string
	data any
}

// stream pipes subscription snapshots to the client until it
// disconnects. Snapshots replace each other, so when the client is slow
// the oldest queued one is dropped in favor of the newest. surfaceErr
// additionally forwards transport errors as "error" events (the warning
// banner on critical subscriptions); otherwise they are only logged.
func stream[T any](c *gin.Context, event string, surfaceErr bool, subscribe func(cb func(T), onErr func(error)) func()) {
	sw := newSSEWriter(c)
	ch := make(chan sseEvent, 16)

	push := func(ev sseEvent) {
		for {
			select {
			case ch <- ev:
				return
			default:
				select {
				case <-ch:
				default:
				}
			}
		}
	}

	cancel := subscribe(
		func(v T) { push(sseEvent{name: event, data: v}) },
		func(err error) {
			logger.Warn("stream.subscription_error", "event", event, "err", err)
			if surfaceErr {
				push(sseEvent{name: "error", data: gin.H{"error": err.Error()}})
			}
		},
	)
	defer cancel()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case ev := <-ch:
			sw.event(ev.name, ev.data)
		}
	}
}

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func newSSEWriter(c *gin.Context) *sseWriter {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()
	return &sseWriter{w: c.Writer, f: c.Writer}
}

func (s *sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}
