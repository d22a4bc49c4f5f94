package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-plan-engine/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Auth: config.AuthConfig{
			JWTSecret: "e2e-secret-key-0123456789",
			Issuer:    "plan-e2e",
			TokenTTL:  time.Hour,
		},
		Storage: config.StorageConfig{
			Driver:        config.StorageMemory,
			Key:           "12m-users",
			FlushInterval: time.Hour,
		},
	}
}

func call(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_PlanSurvivesRestart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := testConfig()

	store := repository.NewMemorySnapshotStore()
	b := &backends{store: store}

	first, err := newApp(ctx, cfg, zap.NewNop(), b)
	require.NoError(t, err)

	var userID, token string

	t.Run("1. Create plan", func(t *testing.T) {
		w := call(t, first.router, http.MethodPost, "/api/v1/users", "",
			`{"name": "Grace", "total_weeks": 12}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		userID, token = resp.User.ID, resp.Token
		require.NotEmpty(t, userID)
	})

	t.Run("2. Add goal", func(t *testing.T) {
		w := call(t, first.router, http.MethodPost, "/api/v1/plan/categories/development/goals", token,
			`{"name": "Learn Go"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("3. Writes are persisted in the background", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			data, err := store.Load(ctx)
			return err == nil && bytes.Contains(data, []byte("Learn Go"))
		}, 2*time.Second, 20*time.Millisecond)
	})

	require.NoError(t, first.shutdown(ctx))

	second, err := newApp(ctx, cfg, zap.NewNop(), b)
	require.NoError(t, err)
	defer func() { _ = second.shutdown(ctx) }()

	t.Run("4. Restored after restart", func(t *testing.T) {
		w := call(t, second.router, http.MethodGet, "/api/v1/plan/dashboard", token, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dashboard struct {
			UserID     string `json:"user_id"`
			TotalGoals int    `json:"total_goals"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
		assert.Equal(t, userID, dashboard.UserID)
		assert.Equal(t, 1, dashboard.TotalGoals)
	})

	t.Run("5. Delete plan", func(t *testing.T) {
		w := call(t, second.router, http.MethodDelete, "/api/v1/plan", token, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = call(t, second.router, http.MethodGet, "/api/v1/users", "", "")
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestOpenBackends(t *testing.T) {
	t.Run("Memory driver needs no connections", func(t *testing.T) {
		b, err := openBackends(context.Background(), testConfig(), zap.NewNop())
		require.NoError(t, err)
		defer b.Close()

		assert.IsType(t, &repository.MemorySnapshotStore{}, b.store)
		assert.Nil(t, b.db)
		assert.Nil(t, b.redis)
	})

	t.Run("Redis driver fails when Redis is down", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Driver = config.StorageRedis
		cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "1"}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		_, err := openBackends(ctx, cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("Rate limiting alone degrades without Redis", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute}
		cfg.Redis = config.RedisConfig{Host: "127.0.0.1", Port: "1"}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		b, err := openBackends(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, b.redis)
	})
}
