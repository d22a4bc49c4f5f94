package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	plans  *services.PlanService
	tokens *services.TokenService
}

func NewUserHandler(plans *services.PlanService, tokens *services.TokenService) *UserHandler {
	return &UserHandler{
		plans:  plans,
		tokens: tokens,
	}
}

type createUserRequest struct {
	Name       string `json:"name" binding:"required"`
	StartDate  string `json:"start_date"`
	TotalWeeks int    `json:"total_weeks" binding:"required,min=4,max=52"`
}

type createUserResponse struct {
	*services.MutationResult
	Token string `json:"token"`
}

type sessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type userSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	TotalWeeks int       `json:"total_weeks"`
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/achievements", h.Achievements)
	router.POST("/sessions", h.CreateSession)

	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateUserInput{
		Name:       req.Name,
		TotalWeeks: req.TotalWeeks,
	}
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
			return
		}
		input.StartDate = start
	}

	res, err := h.plans.CreateUser(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(res.User.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createUserResponse{
		MutationResult: res,
		Token:          token,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.plans.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			ID:         u.ID,
			Name:       u.Name,
			StartDate:  u.StartDate,
			TotalWeeks: u.TotalWeeks,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.IssueSession(c.Request.Context(), req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) Achievements(c *gin.Context) {
	c.JSON(http.StatusOK, domain.AchievementCatalog())
}
