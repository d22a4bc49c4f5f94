package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
)

type PlanHandler struct {
	svc *services.PlanService
}

func NewPlanHandler(svc *services.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type toggleRequest struct {
	Week *int `json:"week" binding:"required"`
}

type reviewRequest struct {
	WentWell        string `json:"went_well"`
	CouldBeImproved string `json:"could_be_improved"`
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plan := router.Group("/plan")
	{
		plan.GET("", h.Get)
		plan.DELETE("", h.Delete)

		goals := plan.Group("/categories/:category/goals")
		goals.POST("", h.AddGoal)
		goals.DELETE("/:goalID", h.DeleteGoal)
		goals.POST("/:goalID/activities", h.AddActivity)
		goals.DELETE("/:goalID/activities/:activityID", h.DeleteActivity)
		goals.POST("/:goalID/activities/:activityID/toggle", h.ToggleActivity)

		plan.GET("/reviews/:week", h.GetReview)
		plan.PUT("/reviews/:week", h.SaveReview)
	}
}

func (h *PlanHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) AddGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.AddGoal(c.Request.Context(), userID, category, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *PlanHandler) DeleteGoal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	res, err := h.svc.DeleteGoal(c.Request.Context(), userID, category, c.Param("goalID"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PlanHandler) AddActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.AddActivity(c.Request.Context(), userID, category, c.Param("goalID"), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *PlanHandler) ToggleActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.ToggleActivity(c.Request.Context(), userID, category, c.Param("goalID"), c.Param("activityID"), *req.Week)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PlanHandler) DeleteActivity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	res, err := h.svc.DeleteActivity(c.Request.Context(), userID, category, c.Param("goalID"), c.Param("activityID"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PlanHandler) GetReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	week, err := weekParam(c)
	if err != nil {
		handleError(c, err)
		return
	}

	review, err := h.svc.GetReview(c.Request.Context(), userID, week)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *PlanHandler) SaveReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	week, err := weekParam(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.SaveReview(c.Request.Context(), userID, week, req.WentWell, req.CouldBeImproved)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
