package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProgressHandler struct {
	progress *services.ProgressService
	export   *services.ExportService
}

func NewProgressHandler(progress *services.ProgressService, export *services.ExportService) *ProgressHandler {
	return &ProgressHandler{
		progress: progress,
		export:   export,
	}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	plan := router.Group("/plan")
	{
		plan.GET("/dashboard", h.Dashboard)
		plan.GET("/weeks/:week", h.Week)
		plan.GET("/timeline", h.Timeline)
		plan.GET("/export", h.Export)
	}
}

func (h *ProgressHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.progress.Dashboard(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *ProgressHandler) Week(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	week, err := weekParam(c)
	if err != nil {
		handleError(c, err)
		return
	}

	detail, err := h.progress.WeekDetail(c.Request.Context(), userID, week)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *ProgressHandler) Timeline(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	timeline, err := h.progress.Timeline(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, timeline)
}

func (h *ProgressHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.export.ExportPlan(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
