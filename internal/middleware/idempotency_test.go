package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ippis-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency(t *testing.T) {
	cacheKey := middleware.IdempotencyCacheKey("/orders", "u1", "key-1")
	lockKey := cacheKey + ":lock"

	newRouter := func(rdbHandler gin.HandlerFunc) *gin.Engine {
		r := setupRouter()
		r.POST("/orders", withIdentity("u1", "o1", "HR"), rdbHandler, func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"id": "1"})
		})
		return r
	}

	t.Run("first request stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		payload, _ := json.Marshal(struct {
			Status int    `json:"status"`
			Body   string `json:"body"`
		}{http.StatusCreated, `{"id":"1"}`})
		mock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		newRouter(middleware.Idempotency(rdb)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":"{\"id\":\"1\"}"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		newRouter(middleware.Idempotency(rdb)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"id":"1"}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight duplicate", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		newRouter(middleware.Idempotency(rdb)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		w := httptest.NewRecorder()
		newRouter(middleware.Idempotency(rdb)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
