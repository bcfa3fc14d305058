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

type AnnouncementHandler struct{ svc *service.AnnouncementService }

func NewAnnouncementHandler(svc *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

// GET /api/announcements — active only, newest first.
func (h *AnnouncementHandler) ListActive(c *gin.Context) {
	list, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/announcements — everything, including deactivated.
func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/announcements  body: {"title","message","priority"?}
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req model.AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	a, err := h.svc.Create(c.Request.Context(), req.Title, req.Message, req.Priority, c.GetString("user_email"))
	if err != nil {
		logger.Error("announcement.create_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("announcement.created", "id", a.ID, "priority", a.Priority)
	c.JSON(http.StatusCreated, a)
}

// PATCH /api/admin/announcements/:id  body: {"isActive":bool}
func (h *AnnouncementHandler) Toggle(c *gin.Context) {
	var req model.AnnouncementToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	id := c.Param("id")
	if err := h.svc.Toggle(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("announcement.toggled", "id", id, "active", *req.IsActive)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/admin/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("announcement.deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
