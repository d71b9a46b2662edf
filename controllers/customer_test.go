package controllers

import (
	"net/http"
	"testing"
	"time"

	"fieldpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type customerRow struct {
	ID         uuid.UUID
	Name       string
	Phone      string
	Address    string
	VisitCount int64 `json:"visitCount"`
}

func createCustomerRecord(t *testing.T, db *gorm.DB, owner uuid.UUID, name, phone, address string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		UserID:   owner,
		Name:     name,
		Phone:    phone,
		Address:  address,
		IsActive: true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestCreateCustomer(t *testing.T) {
	setupTestDB(t)
	owner := uuid.New()
	r := newTestRouter(owner.String())

	w := performJSON(t, r, "POST", "/api/customers", gin.H{
		"name":            "  Jane Doe  ",
		"phone":           "555-1234",
		"address":         "1 Main St",
		"serviceInterval": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Customer
	decodeBody(t, w, &created)
	assert.Equal(t, "Jane Doe", created.Name) // stored trimmed
	assert.Equal(t, owner, created.UserID)
	require.NotNil(t, created.ServiceIntervalDays)
	assert.Equal(t, 30, *created.ServiceIntervalDays)
}

func TestCreateCustomerValidation(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter(uuid.New().String())

	// Required field missing entirely
	w := performJSON(t, r, "POST", "/api/customers", gin.H{
		"name":  "Jane Doe",
		"phone": "555-1234",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Required field present but blank after trimming
	w = performJSON(t, r, "POST", "/api/customers", gin.H{
		"name":    "   ",
		"phone":   "555-1234",
		"address": "1 Main St",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// serviceInterval must be numeric
	w = performJSON(t, r, "POST", "/api/customers", gin.H{
		"name":            "Jane Doe",
		"phone":           "555-1234",
		"address":         "1 Main St",
		"serviceInterval": "weekly",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCustomersSearchIsTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	ownerX := uuid.New()
	ownerY := uuid.New()
	createCustomerRecord(t, db, ownerX, "Jane Doe", "555-1234", "1 Main St")

	w := performJSON(t, newTestRouter(ownerX.String()), "GET", "/api/customers?search=jane", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []customerRow
	decodeBody(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Jane Doe", mine[0].Name)

	w = performJSON(t, newTestRouter(ownerY.String()), "GET", "/api/customers?search=jane", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var theirs []customerRow
	decodeBody(t, w, &theirs)
	assert.Empty(t, theirs)
}

func TestGetCustomersSearchFields(t *testing.T) {
	db := setupTestDB(t)
	owner := uuid.New()
	createCustomerRecord(t, db, owner, "Jane Doe", "555-1234", "1 Main St")
	createCustomerRecord(t, db, owner, "Bob Smith", "777-9999", "42 Oak Ave")
	r := newTestRouter(owner.String())

	// Substring match on any of name, phone, address; case-insensitive
	for query, want := range map[string]string{
		"JANE": "Jane Doe",
		"555":  "Jane Doe",
		"oak":  "Bob Smith",
	} {
		w := performJSON(t, r, "GET", "/api/customers?search="+query, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var rows []customerRow
		decodeBody(t, w, &rows)
		require.Len(t, rows, 1, "search %q", query)
		assert.Equal(t, want, rows[0].Name, "search %q", query)
	}

	w := performJSON(t, r, "GET", "/api/customers?search=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []customerRow
	decodeBody(t, w, &rows)
	assert.Empty(t, rows)
}

func TestGetCustomersIntervalFilter(t *testing.T) {
	db := setupTestDB(t)
	owner := uuid.New()
	monthly := 30
	weekly := 7

	jane := createCustomerRecord(t, db, owner, "Jane Doe", "555-1234", "1 Main St")
	require.NoError(t, db.Model(jane).Update("service_interval_days", monthly).Error)
	bob := createCustomerRecord(t, db, owner, "Bob Smith", "555-4321", "2 Main St")
	require.NoError(t, db.Model(bob).Update("service_interval_days", weekly).Error)

	r := newTestRouter(owner.String())

	w := performJSON(t, r, "GET", "/api/customers?serviceInterval=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []customerRow
	decodeBody(t, w, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Name)

	// AND-combined with search: matching interval but no text match
	w = performJSON(t, r, "GET", "/api/customers?serviceInterval=30&search=bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &rows)
	assert.Empty(t, rows)

	// Non-numeric interval is an error, not silently ignored
	w = performJSON(t, r, "GET", "/api/customers?serviceInterval=monthly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCustomersOrderingAndVisitCount(t *testing.T) {
	db := setupTestDB(t)
	owner := uuid.New()
	zed := createCustomerRecord(t, db, owner, "Zed", "555-0001", "9 End St")
	createCustomerRecord(t, db, owner, "Amy", "555-0002", "1 Start St")

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.ServiceVisit{
			CustomerID: zed.ID,
			UserID:     owner,
			VisitDate:  time.Now().AddDate(0, 0, -i),
		}).Error)
	}

	w := performJSON(t, newTestRouter(owner.String()), "GET", "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []customerRow
	decodeBody(t, w, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Amy", rows[0].Name)
	assert.Equal(t, "Zed", rows[1].Name)
	assert.EqualValues(t, 0, rows[0].VisitCount)
	assert.EqualValues(t, 2, rows[1].VisitCount)
}

func TestGetCustomerCrossTenantReadsAsMissing(t *testing.T) {
	db := setupTestDB(t)
	owner := uuid.New()
	customer := createCustomerRecord(t, db, owner, "Jane Doe", "555-1234", "1 Main St")

	w := performJSON(t, newTestRouter(uuid.New().String()), "GET", "/api/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(t, newTestRouter(owner.String()), "GET", "/api/customers/"+customer.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCustomerCrossTenantWritesAsMissing(t *testing.T) {
	db := setupTestDB(t)
	owner := uuid.New()
	customer := createCustomerRecord(t, db, owner, "Jane Doe", "555-1234", "1 Main St")

	w := performJSON(t, newTestRouter(uuid.New().String()), "PUT",
		"/api/customers/"+customer.ID.String(), gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var unchanged models.Customer
	require.NoError(t, db.First(&unchanged, "id = ?", customer.ID).Error)
	assert.Equal(t, "Jane Doe", unchanged.Name)
}
