package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
)

var fixedNow = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemoryUserRepository()
	clock := func() time.Time { return fixedNow }
	logger := zap.NewNop()

	plans := services.NewPlanService(repo, logger, clock)
	progress := services.NewProgressService(repo, clock)
	export := services.NewExportService(repo, logger)
	tokens := services.NewTokenService("handler-test-secret-key", "plan-test", time.Hour, repo)

	return adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		UserHandler:     adapterHTTP.NewUserHandler(plans, tokens),
		PlanHandler:     adapterHTTP.NewPlanHandler(plans),
		ProgressHandler: adapterHTTP.NewProgressHandler(progress, export),
		TokenService:    tokens,
		Logger:          logger,
		StartTime:       fixedNow,
	})
}

func do(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = new(bytes.Buffer)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type createdPlan struct {
	User          domain.User          `json:"user"`
	NewlyUnlocked []domain.Achievement `json:"newly_unlocked"`
	CreatedID     string               `json:"created_id"`
	Token         string               `json:"token"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createPlan(t *testing.T, router *gin.Engine) createdPlan {
	t.Helper()
	w := do(router, http.MethodPost, "/api/v1/users", "",
		`{"name": "Ada", "start_date": "2024-03-06", "total_weeks": 12}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[createdPlan](t, w)
}

func unlockedIDs(list []domain.Achievement) []domain.AchievementID {
	ids := make([]domain.AchievementID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestCreateUser(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		router := setupRouter(t)

		plan := createPlan(t, router)

		assert.NotEmpty(t, plan.User.ID)
		assert.NotEmpty(t, plan.Token)
		assert.Equal(t, "Ada", plan.User.Name)
		assert.Equal(t, 12, plan.User.TotalWeeks)
		assert.Equal(t, []domain.AchievementID{domain.AchievementPlanCreated}, unlockedIDs(plan.NewlyUnlocked))
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "Fail: too few weeks", body: `{"name": "Ada", "total_weeks": 3}`},
		{name: "Fail: too many weeks", body: `{"name": "Ada", "total_weeks": 53}`},
		{name: "Fail: missing name", body: `{"total_weeks": 12}`},
		{name: "Fail: blank name", body: `{"name": "   ", "total_weeks": 12}`},
		{name: "Fail: bad start date", body: `{"name": "Ada", "start_date": "06/03/2024", "total_weeks": 12}`},
		{name: "Fail: invalid JSON", body: `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)

			w := do(router, http.MethodPost, "/api/v1/users", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListUsersAndAchievements(t *testing.T) {
	router := setupRouter(t)
	plan := createPlan(t, router)

	w := do(router, http.MethodGet, "/api/v1/users", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]map[string]any](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, plan.User.ID, users[0]["id"])
	assert.NotContains(t, users[0], "categories")

	w = do(router, http.MethodGet, "/api/v1/achievements", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[[]domain.Achievement](t, w)
	assert.Len(t, catalog, 5)
}

func TestCreateSession(t *testing.T) {
	router := setupRouter(t)
	plan := createPlan(t, router)

	t.Run("Success: token for existing user", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/sessions", "", `{"user_id": "`+plan.User.ID+`"}`)
		require.Equal(t, http.StatusOK, w.Code)

		token := decode[map[string]string](t, w)["token"]
		require.NotEmpty(t, token)

		w = do(router, http.MethodGet, "/api/v1/plan", token, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: unknown user", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/sessions", "", `{"user_id": "nobody"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: missing user id", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/sessions", "", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/api/v1/plan", "/api/v1/plan/dashboard", "/api/v1/plan/timeline"} {
		w := do(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestPlanEditing(t *testing.T) {
	router := setupRouter(t)
	plan := createPlan(t, router)
	token := plan.Token

	w := do(router, http.MethodPost, "/api/v1/plan/categories/health/goals", token, `{"name": "Run a half marathon"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goal := decode[createdPlan](t, w)
	require.NotEmpty(t, goal.CreatedID)
	assert.Empty(t, goal.NewlyUnlocked)
	goalPath := "/api/v1/plan/categories/health/goals/" + goal.CreatedID

	w = do(router, http.MethodPost, goalPath+"/activities", token, `{"name": "Long run"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	activity := decode[createdPlan](t, w)
	require.NotEmpty(t, activity.CreatedID)
	activityPath := goalPath + "/activities/" + activity.CreatedID

	t.Run("Toggle unlocks perfect week", func(t *testing.T) {
		w := do(router, http.MethodPost, activityPath+"/toggle", token, `{"week": 2}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		res := decode[createdPlan](t, w)
		assert.Equal(t, []domain.AchievementID{domain.AchievementPerfectWeek}, unlockedIDs(res.NewlyUnlocked))
		acts := res.User.Categories[domain.CategoryHealth].Goals[0].Activities
		require.Len(t, acts, 1)
		assert.True(t, acts[0].DoneIn(2))
	})

	t.Run("Toggle week zero is accepted", func(t *testing.T) {
		w := do(router, http.MethodPost, activityPath+"/toggle", token, `{"week": 0}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Toggle validation", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, activityPath+"/toggle", token, `{}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, activityPath+"/toggle", token, `{"week": 12}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, activityPath+"/toggle", token, `{"week": -1}`).Code)
		assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, goalPath+"/activities/missing/toggle", token, `{"week": 1}`).Code)
	})

	t.Run("Unknown category and goal", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/plan/categories/hobbies/goals", token, `{"name": "x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = do(router, http.MethodPost, "/api/v1/plan/categories/career/goals/missing/activities", token, `{"name": "x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = do(router, http.MethodDelete, "/api/v1/plan/categories/career/goals/missing", token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Blank goal name", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/plan/categories/family/goals", token, `{"name": "  "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete activity then goal", func(t *testing.T) {
		w := do(router, http.MethodDelete, activityPath, token, "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[createdPlan](t, w)
		assert.Empty(t, res.User.Categories[domain.CategoryHealth].Goals[0].Activities)

		w = do(router, http.MethodDelete, goalPath, token, "")
		require.Equal(t, http.StatusOK, w.Code)
		res = decode[createdPlan](t, w)
		assert.Empty(t, res.User.Categories[domain.CategoryHealth].Goals)
		assert.True(t, res.User.Achievements.Has(domain.AchievementPerfectWeek), "unlocks are never revoked")
	})
}

func TestReviews(t *testing.T) {
	router := setupRouter(t)
	token := createPlan(t, router).Token

	t.Run("Empty prefill", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/plan/reviews/1", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		review := decode[domain.WeeklyReview](t, w)
		assert.Equal(t, 1, review.WeekNumber)
		assert.Empty(t, review.WentWell)
	})

	t.Run("Save unlocks first review", func(t *testing.T) {
		w := do(router, http.MethodPut, "/api/v1/plan/reviews/1", token,
			`{"went_well": " Slept well ", "could_be_improved": "More reading"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		res := decode[createdPlan](t, w)
		assert.Equal(t, []domain.AchievementID{domain.AchievementFirstReview}, unlockedIDs(res.NewlyUnlocked))

		w = do(router, http.MethodGet, "/api/v1/plan/reviews/1", token, "")
		review := decode[domain.WeeklyReview](t, w)
		assert.Equal(t, "Slept well", review.WentWell)
		assert.Equal(t, "More reading", review.CouldBeImproved)
	})

	t.Run("Bad week", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/plan/reviews/abc", token, "").Code)
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/plan/reviews/12", token, "").Code)
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/api/v1/plan/reviews/-1", token, `{}`).Code)
	})
}

func TestProgressViews(t *testing.T) {
	router := setupRouter(t)
	plan := createPlan(t, router)
	token := plan.Token

	w := do(router, http.MethodPost, "/api/v1/plan/categories/career/goals", token, `{"name": "Ship v2"}`)
	goalID := decode[createdPlan](t, w).CreatedID
	goalPath := "/api/v1/plan/categories/career/goals/" + goalID
	do(router, http.MethodPost, goalPath+"/activities", token, `{"name": "Write docs"}`)
	w = do(router, http.MethodPost, goalPath+"/activities", token, `{"name": "Fix bugs"}`)
	second := decode[createdPlan](t, w).CreatedID
	do(router, http.MethodPost, goalPath+"/activities/"+second+"/toggle", token, `{"week": 2}`)

	t.Run("Dashboard", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/plan/dashboard", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		d := decode[services.Dashboard](t, w)
		assert.Equal(t, 2, d.CurrentWeek)
		assert.Equal(t, 12, d.TotalWeeks)
		assert.Equal(t, domain.PercentOf(50), d.Overall)
		assert.Equal(t, 1, d.TotalGoals)
		require.Len(t, d.Incomplete, 1)
		assert.Equal(t, "Write docs", d.Incomplete[0].Activity.Name)
		assert.Len(t, d.Categories, 4)
	})

	t.Run("Week detail", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/plan/weeks/2", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		d := decode[services.WeekDetail](t, w)
		assert.Equal(t, 2, d.Week)
		require.Len(t, d.Activities, 2)
		assert.False(t, d.Activities[0].Done)
		assert.True(t, d.Activities[1].Done)

		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/v1/plan/weeks/99", token, "").Code)
	})

	t.Run("Timeline", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/plan/timeline", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		tl := decode[services.Timeline](t, w)
		assert.Equal(t, 2, tl.CurrentWeek)
		require.Len(t, tl.Weeks, 12)
		assert.Equal(t, domain.PercentOf(0), tl.Weeks[0])
		assert.Equal(t, domain.PercentOf(50), tl.Weeks[2])
	})

	t.Run("Export", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/plan/export", token, "")
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="plan-`+plan.User.ID+`.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})
}

func TestDeletePlan(t *testing.T) {
	router := setupRouter(t)
	token := createPlan(t, router).Token

	w := do(router, http.MethodDelete, "/api/v1/plan", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(router, http.MethodGet, "/api/v1/plan", token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndCORS(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "disabled", body["database"])
	assert.Equal(t, "disabled", body["redis"])

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
