package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/entities"
	"github.com/mrlokans/pantry/internal/extraction"
	"github.com/mrlokans/pantry/internal/tasks"
)

type InventoryController struct {
	inventory  InventoryStore
	products   ProductStore
	locations  LocationStore
	taskClient *tasks.Client
}

func NewInventoryController(inventory InventoryStore, products ProductStore, locations LocationStore, taskClient *tasks.Client) *InventoryController {
	return &InventoryController{
		inventory:  inventory,
		products:   products,
		locations:  locations,
		taskClient: taskClient,
	}
}

// ListItems returns the user's inventory, optionally filtered by location.
// GET /api/inventory?locationId=2
func (ic *InventoryController) ListItems(c *gin.Context) {
	var locationID uint
	if raw := c.Query("locationId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondValidation(c, "invalid locationId")
			return
		}
		locationID = uint(parsed)
	}

	items, err := ic.inventory.List(GetUserID(c), locationID)
	if err != nil {
		respondInternalError(c, err, "list inventory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns a single inventory item.
// GET /api/inventory/:id
func (ic *InventoryController) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ic.inventory.GetByID(GetUserID(c), id)
	if err != nil {
		respondInternalError(c, err, "get inventory item")
		return
	}
	if item == nil {
		respondNotFound(c, "inventory item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

type createItemRequest struct {
	ProductName    string  `json:"productName"`
	Quantity       float64 `json:"quantity"`
	QuantityType   string  `json:"quantityType"`
	LocationName   string  `json:"locationName"`
	AddedDate      string  `json:"addedDate"`
	ExpirationDate string  `json:"expirationDate"`
	OpenedStatus   bool    `json:"openedStatus"`
}

// CreateItem adds one item directly, resolving the product name against
// the catalog the same way a bulk commit does.
// POST /api/inventory
func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		respondValidation(c, "productName is required")
		return
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = extraction.DefaultQuantity
	}

	quantityType := entities.QuantityType(req.QuantityType)
	if req.QuantityType == "" {
		quantityType = entities.QuantityTypeUnits
	} else if !quantityType.IsValid() {
		respondValidation(c, "invalid quantityType")
		return
	}

	locationName := req.LocationName
	if strings.TrimSpace(locationName) == "" {
		locationName = extraction.DefaultLocationName
	}
	location, err := ic.locations.GetByName(locationName)
	if err != nil {
		respondInternalError(c, err, "resolve location")
		return
	}
	if location == nil {
		respondValidation(c, "unknown location: "+locationName)
		return
	}

	addedDate := req.AddedDate
	if addedDate == "" {
		addedDate = time.Now().Format("2006-01-02")
	} else if !extraction.ValidDate(addedDate) {
		respondValidation(c, "addedDate must be YYYY-MM-DD")
		return
	}

	if req.ExpirationDate != "" && !extraction.ValidDate(req.ExpirationDate) {
		respondValidation(c, "expirationDate must be YYYY-MM-DD")
		return
	}

	product, err := ic.products.GetByName(name)
	if err != nil {
		respondInternalError(c, err, "look up product")
		return
	}
	if product == nil {
		product, err = ic.products.Create(name, "", "")
		if err != nil {
			respondInternalError(c, err, "create product")
			return
		}
	}

	item := &entities.InventoryItem{
		UserID:         GetUserID(c),
		ProductID:      &product.ID,
		LocationID:     location.ID,
		Quantity:       quantity,
		QuantityType:   quantityType,
		AddedDate:      addedDate,
		ExpirationDate: req.ExpirationDate,
		OpenedStatus:   req.OpenedStatus,
	}

	if err := ic.inventory.Create(item); err != nil {
		respondInternalError(c, err, "create inventory item")
		return
	}

	// Items without an expiration date get one estimated in the background.
	if item.ExpirationDate == "" && ic.taskClient != nil {
		_, _ = ic.taskClient.Add(tasks.EstimateExpirationTask{
			UserID: item.UserID,
			ItemID: item.ID,
		}).Save()
	}

	created, err := ic.inventory.GetByID(GetUserID(c), item.ID)
	if err != nil || created == nil {
		respondCreated(c, gin.H{"item": item})
		return
	}
	respondCreated(c, gin.H{"item": created})
}

type updateItemRequest struct {
	Quantity       *float64 `json:"quantity"`
	QuantityType   *string  `json:"quantityType"`
	LocationID     *uint    `json:"locationId"`
	ExpirationDate *string  `json:"expirationDate"`
	OpenedStatus   *bool    `json:"openedStatus"`
}

// UpdateItem applies a partial update and records which fields changed.
// PATCH /api/inventory/:id
func (ic *InventoryController) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	item, err := ic.inventory.GetByID(GetUserID(c), id)
	if err != nil {
		respondInternalError(c, err, "get inventory item")
		return
	}
	if item == nil {
		respondNotFound(c, "inventory item")
		return
	}

	old := *item
	var changed []string

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			respondValidation(c, "quantity must be greater than zero")
			return
		}
		item.Quantity = *req.Quantity
		changed = append(changed, "quantity")
	}
	if req.QuantityType != nil {
		qt := entities.QuantityType(*req.QuantityType)
		if !qt.IsValid() {
			respondValidation(c, "invalid quantityType")
			return
		}
		item.QuantityType = qt
		changed = append(changed, "quantity_type")
	}
	if req.LocationID != nil {
		location, err := ic.locations.GetByID(*req.LocationID)
		if err != nil {
			respondInternalError(c, err, "resolve location")
			return
		}
		if location == nil {
			respondValidation(c, "unknown location")
			return
		}
		item.LocationID = location.ID
		changed = append(changed, "location_id")
	}
	if req.ExpirationDate != nil {
		if *req.ExpirationDate != "" && !extraction.ValidDate(*req.ExpirationDate) {
			respondValidation(c, "expirationDate must be YYYY-MM-DD")
			return
		}
		item.ExpirationDate = *req.ExpirationDate
		changed = append(changed, "expiration_date")
	}
	if req.OpenedStatus != nil {
		item.OpenedStatus = *req.OpenedStatus
		changed = append(changed, "opened_status")
	}

	if len(changed) == 0 {
		respondValidation(c, "no fields to update")
		return
	}

	if err := ic.inventory.Update(&old, item, changed); err != nil {
		respondInternalError(c, err, "update inventory item")
		return
	}

	updated, err := ic.inventory.GetByID(GetUserID(c), id)
	if err != nil || updated == nil {
		c.JSON(http.StatusOK, gin.H{"item": item})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": updated})
}

// DeleteItem removes an item from the inventory.
// DELETE /api/inventory/:id
func (ic *InventoryController) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := ic.inventory.GetByID(GetUserID(c), id)
	if err != nil {
		respondInternalError(c, err, "get inventory item")
		return
	}
	if existing == nil {
		respondNotFound(c, "inventory item")
		return
	}

	if err := ic.inventory.Delete(GetUserID(c), id); err != nil {
		respondInternalError(c, err, "delete inventory item")
		return
	}

	respondSuccess(c, "item removed")
}

// GetItemHistory returns the change history for an item, newest first.
// GET /api/inventory/:id/history
func (ic *InventoryController) GetItemHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ic.inventory.GetByID(GetUserID(c), id)
	if err != nil {
		respondInternalError(c, err, "get inventory item")
		return
	}
	if item == nil {
		respondNotFound(c, "inventory item")
		return
	}

	events, err := ic.inventory.ListEvents(id)
	if err != nil {
		respondInternalError(c, err, "list item history")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
