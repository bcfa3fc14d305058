package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-mate/internal/logger"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
)

type MenuHandler struct{ svc *service.MenuService }

func NewMenuHandler(svc *service.MenuService) *MenuHandler { return &MenuHandler{svc: svc} }

// GET /api/menu
func (h *MenuHandler) Get(c *gin.Context) {
	menu, err := h.svc.GetMenu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menu)
}

// PUT /api/admin/menu  body: any subset of {"breakfast","lunch","dinner"}
func (h *MenuHandler) Update(c *gin.Context) {
	var req model.MenuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.svc.UpdateDailyMenu(c.Request.Context(), req); err != nil {
		logger.Error("menu.update_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("menu.updated", "by", c.GetString("user_email"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
