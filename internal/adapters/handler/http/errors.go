package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var errInvalidWeek = errors.New("week must be a non-negative integer")

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrUserNameEmpty),
		errors.Is(err, domain.ErrUserNameTooLong),
		errors.Is(err, domain.ErrInvalidTotalWeeks),
		errors.Is(err, domain.ErrWeekOutOfRange),
		errors.Is(err, domain.ErrGoalNameEmpty),
		errors.Is(err, domain.ErrActivityNameEmpty),
		errors.Is(err, domain.ErrPlanItemNameTooLong),
		errors.Is(err, domain.ErrReviewTooLong),
		errors.Is(err, errInvalidWeek):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.PlanUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
	}
	return userID, ok
}

func weekParam(c *gin.Context) (int, error) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 0 {
		return 0, errInvalidWeek
	}
	return week, nil
}
