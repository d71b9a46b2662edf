package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldpro-backend/config"
	"fieldpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps config.DB for an in-memory sqlite database, pinned to a
// single connection so every session shares the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.ServiceVisit{},
		&models.TimeEntry{},
		&models.ReminderLog{},
	))

	config.DB = db
	return db
}

// newTestRouter mounts the API routes behind a stub identity middleware, the
// way utils.AuthMiddleware would populate the context after verifying a token.
func newTestRouter(accountID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("accountId", accountID)
		c.Next()
	})

	api := r.Group("/api")
	{
		customers := api.Group("/customers")
		{
			customers.POST("", CreateCustomer)
			customers.GET("", GetCustomers)
			customers.GET("/:id", GetCustomer)
			customers.PUT("/:id", UpdateCustomer)
			customers.DELETE("/:id", DeleteCustomer)
			customers.POST("/:id/visits", CreateVisit)
			customers.GET("/:id/visits", GetCustomerVisits)
		}
		visits := api.Group("/visits")
		{
			visits.GET("/:id", GetVisit)
			visits.POST("/:id/time-entries", AddTimeEntry)
			visits.GET("/:id/time-entries", GetTimeEntries)
			visits.DELETE("/:id/time-entries/:entryId", DeleteTimeEntry)
		}
		profile := api.Group("/profile")
		{
			profile.GET("", GetProfile)
			profile.PUT("", UpdateProfile)
		}
	}

	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
