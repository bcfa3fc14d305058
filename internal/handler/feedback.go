package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-mate/internal/logger"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
	"mess-mate/internal/store"
)

type FeedbackHandler struct{ svc *service.FeedbackService }

func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// POST /api/feedback  body: {"feedback","type"?}
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedback text is required"})
		return
	}
	f, err := h.svc.SubmitFeedback(c.Request.Context(), c.GetString("user_id"), c.GetString("user_email"), req.Feedback, req.Type)
	if err != nil {
		logger.Error("feedback.submit_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, f)
}

// POST /api/complaints  body: {"complaint","category"?}
func (h *FeedbackHandler) SubmitComplaint(c *gin.Context) {
	var req model.ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "complaint text is required"})
		return
	}
	cp, err := h.svc.SubmitComplaint(c.Request.Context(), c.GetString("user_id"), c.GetString("user_email"), req.Complaint, req.Category)
	if err != nil {
		logger.Error("complaint.submit_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cp)
}

// GET /api/feedback/mine — the caller's feedback and complaints.
func (h *FeedbackHandler) Mine(c *gin.Context) {
	out, err := h.svc.GetUserFeedback(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/admin/feedback
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	list, err := h.svc.GetAllFeedback(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/complaints
func (h *FeedbackHandler) ListComplaints(c *gin.Context) {
	list, err := h.svc.GetAllComplaints(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// PATCH /api/admin/complaints/:id  body: {"status","response"?}
func (h *FeedbackHandler) UpdateComplaintStatus(c *gin.Context) {
	var req model.ComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	id := c.Param("id")
	err := h.svc.UpdateComplaintStatus(c.Request.Context(), id, req.Status, req.Response)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	if err != nil {
		logger.Error("complaint.update_failed", "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("complaint.status_updated", "id", id, "status", req.Status)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
