package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/pantry/internal/database"
	"github.com/mrlokans/pantry/internal/database/inventory"
	"github.com/mrlokans/pantry/internal/database/locations"
	"github.com/mrlokans/pantry/internal/database/products"
	"github.com/mrlokans/pantry/internal/entities"
	"github.com/mrlokans/pantry/internal/tasks"
)

func setupInventoryTest(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_inventory_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewInventoryController(
		inventory.NewRepository(db.DB),
		products.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		nil,
	)

	router := gin.New()
	router.GET("/api/inventory", controller.ListItems)
	router.POST("/api/inventory", controller.CreateItem)
	router.GET("/api/inventory/:id", controller.GetItem)
	router.PATCH("/api/inventory/:id", controller.UpdateItem)
	router.DELETE("/api/inventory/:id", controller.DeleteItem)
	router.GET("/api/inventory/:id/history", controller.GetItemHistory)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, cleanup
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestInventoryController_CreateItem(t *testing.T) {
	t.Run("creates item with defaults", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decodeBody(t, w)
		item := body["item"].(map[string]any)
		assert.Equal(t, float64(1), item["quantity"])
		assert.Equal(t, "units", item["quantity_type"])

		location := item["location"].(map[string]any)
		assert.Equal(t, "pantry", location["name"], "default location")

		product := item["product"].(map[string]any)
		assert.Equal(t, "milk", product["name"])
	})

	t.Run("stamps added date with today", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		item := decodeBody(t, w)["item"].(map[string]any)
		assert.Equal(t, time.Now().Format("2006-01-02"), item["added_date"])
	})

	t.Run("accepts an explicit added date", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{
			"productName": "milk",
			"addedDate":   "2025-01-15",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		item := decodeBody(t, w)["item"].(map[string]any)
		assert.Equal(t, "2025-01-15", item["added_date"])
	})

	t.Run("rejects malformed added date", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{
			"productName": "milk",
			"addedDate":   "yesterday",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires a product name", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{"quantity": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{
			"productName":  "milk",
			"locationName": "garage",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "garage")
	})

	t.Run("rejects malformed expiration date", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{
			"productName":    "milk",
			"expirationDate": "June 7th",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid quantity type", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{
			"productName":  "milk",
			"quantityType": "gallons",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reuses an existing product", func(t *testing.T) {
		router, db, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"})
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"})
		require.Equal(t, http.StatusCreated, w.Code)

		var count int64
		require.NoError(t, db.DB.Model(&entities.Product{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestInventoryController_CreateItemSchedulesEstimation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_inventory_estimation_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	taskCfg := tasks.DefaultConfig()
	taskCfg.Workers = 1
	taskClient, err := tasks.NewClient(filepath.Join(t.TempDir(), "pantry.db"), taskCfg)
	require.NoError(t, err)
	defer taskClient.Close()

	received := make(chan tasks.EstimateExpirationTask, 2)
	taskClient.Register(backlite.NewQueue(func(ctx context.Context, task tasks.EstimateExpirationTask) error {
		received <- task
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go taskClient.Start(ctx)

	controller := NewInventoryController(
		inventory.NewRepository(db.DB),
		products.NewRepository(db.DB),
		locations.NewRepository(db.DB),
		taskClient,
	)

	router := gin.New()
	router.POST("/api/inventory", controller.CreateItem)

	// An item without an expiration date gets one estimated in the background.
	w := doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	select {
	case task := <-received:
		assert.Equal(t, uint(1), task.ItemID)
	case <-time.After(5 * time.Second):
		t.Fatal("estimation task was not enqueued for the dateless item")
	}

	// A dated item needs no estimation.
	w = doJSON(router, "POST", "/api/inventory", gin.H{
		"productName":    "yogurt",
		"expirationDate": "2030-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	select {
	case task := <-received:
		t.Fatalf("unexpected estimation task for item %d", task.ItemID)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestInventoryController_ListItems(t *testing.T) {
	router, db, cleanup := setupInventoryTest(t)
	defer cleanup()

	require.Equal(t, http.StatusCreated,
		doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk", "locationName": "fridge"}).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(router, "POST", "/api/inventory", gin.H{"productName": "rice", "locationName": "pantry"}).Code)

	w := doJSON(router, "GET", "/api/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["items"], 2)

	var fridge entities.Location
	require.NoError(t, db.DB.Where("name = ?", "fridge").First(&fridge).Error)

	w = doJSON(router, "GET", fmt.Sprintf("/api/inventory?locationId=%d", fridge.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Len(t, body["items"], 1)
	item := body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "milk", item["product"].(map[string]any)["name"])

	w = doJSON(router, "GET", "/api/inventory?locationId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryController_GetItem(t *testing.T) {
	router, _, cleanup := setupInventoryTest(t)
	defer cleanup()

	require.Equal(t, http.StatusCreated,
		doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

	w := doJSON(router, "GET", "/api/inventory/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/inventory/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "inventory item not found", decodeBody(t, w)["message"])

	w = doJSON(router, "GET", "/api/inventory/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryController_UpdateItem(t *testing.T) {
	t.Run("applies partial updates", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		require.Equal(t, http.StatusCreated,
			doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

		w := doJSON(router, "PATCH", "/api/inventory/1", gin.H{
			"quantity":     3,
			"openedStatus": true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		item := decodeBody(t, w)["item"].(map[string]any)
		assert.Equal(t, float64(3), item["quantity"])
		assert.Equal(t, true, item["opened_status"])
	})

	t.Run("rejects empty update", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		require.Equal(t, http.StatusCreated,
			doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

		w := doJSON(router, "PATCH", "/api/inventory/1", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		require.Equal(t, http.StatusCreated,
			doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

		w := doJSON(router, "PATCH", "/api/inventory/1", gin.H{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		require.Equal(t, http.StatusCreated,
			doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

		w := doJSON(router, "PATCH", "/api/inventory/1", gin.H{"locationId": 99})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing item", func(t *testing.T) {
		router, _, cleanup := setupInventoryTest(t)
		defer cleanup()

		w := doJSON(router, "PATCH", "/api/inventory/999", gin.H{"quantity": 1})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInventoryController_DeleteItem(t *testing.T) {
	router, _, cleanup := setupInventoryTest(t)
	defer cleanup()

	require.Equal(t, http.StatusCreated,
		doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)

	w := doJSON(router, "DELETE", "/api/inventory/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/inventory/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "DELETE", "/api/inventory/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryController_GetItemHistory(t *testing.T) {
	router, _, cleanup := setupInventoryTest(t)
	defer cleanup()

	require.Equal(t, http.StatusCreated,
		doJSON(router, "POST", "/api/inventory", gin.H{"productName": "milk"}).Code)
	require.Equal(t, http.StatusOK,
		doJSON(router, "PATCH", "/api/inventory/1", gin.H{"quantity": 2}).Code)

	w := doJSON(router, "GET", "/api/inventory/1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	events := decodeBody(t, w)["events"].([]any)
	require.Len(t, events, 2)

	// Newest first: the update precedes the add.
	assert.Equal(t, "updated", events[0].(map[string]any)["action"])
	assert.Equal(t, "added", events[1].(map[string]any)["action"])
	assert.Equal(t, "quantity", events[0].(map[string]any)["changed_fields"])

	w = doJSON(router, "GET", "/api/inventory/999/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
