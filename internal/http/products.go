package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pantry/internal/catalog"
)

type ProductsController struct {
	store   ProductStore
	catalog *catalog.OpenFoodFactsClient
}

func NewProductsController(store ProductStore, catalogClient *catalog.OpenFoodFactsClient) *ProductsController {
	return &ProductsController{store: store, catalog: catalogClient}
}

// ListProducts returns the whole product catalog ordered by name.
// GET /api/products
func (pc *ProductsController) ListProducts(c *gin.Context) {
	products, err := pc.store.GetAll()
	if err != nil {
		respondInternalError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type lookupRequest struct {
	Barcode string `json:"barcode"`
}

// LookupProduct resolves a barcode to a product, checking locally linked
// barcodes first and falling back to the external catalog. Catalog hits
// are saved and linked so the next scan resolves without a network call.
// POST /api/products/lookup
func (pc *ProductsController) LookupProduct(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		respondValidation(c, "barcode is required")
		return
	}

	local, err := pc.store.GetByBarcode(barcode)
	if err != nil {
		respondInternalError(c, err, "look up barcode")
		return
	}
	if local != nil {
		c.JSON(http.StatusOK, gin.H{"product": local, "source": "local"})
		return
	}

	if pc.catalog == nil {
		respondNotFound(c, "product")
		return
	}

	info, err := pc.catalog.LookupBarcode(c.Request.Context(), barcode)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if info == nil {
		respondNotFound(c, "product")
		return
	}

	product, err := pc.store.Create(info.Name, info.Category, info.ImageURL)
	if err != nil {
		respondInternalError(c, err, "save product")
		return
	}
	if err := pc.store.LinkBarcode(barcode, product.ID); err != nil {
		respondInternalError(c, err, "link barcode")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "source": "catalog"})
}
