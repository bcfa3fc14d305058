package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"mess-mate/internal/logger"
	"mess-mate/internal/model"
	"mess-mate/internal/service"
)

type MealHandler struct{ svc *service.MealService }

func NewMealHandler(svc *service.MealService) *MealHandler { return &MealHandler{svc: svc} }

// POST /api/meals  body: {"date":"YYYY-MM-DD","selections":{...}}
func (h *MealHandler) Submit(c *gin.Context) {
	var req model.MealSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	uid := c.GetString("user_id")
	err := h.svc.SubmitMealSelection(c.Request.Context(), uid, req.Date, req.Selections)
	if errors.Is(err, service.ErrBadDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error("meal.submit_failed", "uid", uid, "date", req.Date, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("meal.submitted", "uid", uid, "date", req.Date)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/meals/:date — the caller's own selection; null when none.
func (h *MealHandler) Get(c *gin.Context) {
	sel, err := h.svc.GetSelection(c.Request.Context(), c.GetString("user_id"), c.Param("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sel)
}

// GET /api/admin/stats/:date
func (h *MealHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetMealStatistics(c.Request.Context(), c.Param("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/admin/stats/:date/export — the day's numbers plus the
// per-user breakdown as a spreadsheet.
func (h *MealHandler) ExportStats(c *gin.Context) {
	date := c.Param("date")
	ctx := c.Request.Context()

	stats, err := h.svc.GetMealStatistics(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	selections, err := h.svc.GetSelectionsForDate(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Meal Statistics"
	f.SetSheetName("Sheet1", sheet)

	f.SetSheetRow(sheet, "A1", &[]any{"Date", "Breakfast", "Lunch", "Dinner", "Total"})
	f.SetSheetRow(sheet, "A2", &[]any{date, stats.Breakfast, stats.Lunch, stats.Dinner, stats.Total})

	f.SetSheetRow(sheet, "A4", &[]any{"User", "Breakfast", "Lunch", "Dinner"})
	for i, sel := range selections {
		cell := fmt.Sprintf("A%d", 5+i)
		f.SetSheetRow(sheet, cell, &[]any{sel.UserID, sel.Selections.Breakfast, sel.Selections.Lunch, sel.Selections.Dinner})
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=meal-stats-%s.xlsx", date))
	if err := f.Write(c.Writer); err != nil {
		logger.Error("stats.export_failed", "date", date, "err", err)
	}
}
