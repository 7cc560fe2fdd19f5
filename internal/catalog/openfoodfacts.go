// Package catalog resolves scanned barcodes to product details via the
// Open Food Facts public API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ProductInfo contains product details resolved from a barcode.
type ProductInfo struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// OpenFoodFactsClient fetches product data from the Open Food Facts API.
type OpenFoodFactsClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewOpenFoodFactsClient creates a new Open Food Facts client with rate limiting.
func NewOpenFoodFactsClient(baseURL string) *OpenFoodFactsClient {
	if baseURL == "" {
		baseURL = "https://world.openfoodfacts.org"
	}
	return &OpenFoodFactsClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// LookupBarcode resolves a barcode to product details. Returns (nil, nil)
// when the barcode is unknown to the catalog.
func (c *OpenFoodFactsClient) LookupBarcode(ctx context.Context, barcode string) (*ProductInfo, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("empty barcode")
	}

	c.rateLimiter.wait()

	url := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Pantry/1.0 (https://github.com/mrlokans/pantry)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch barcode data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result offResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// status 1 means the product exists in the catalog
	if result.Status != 1 || result.Product == nil {
		return nil, nil
	}

	return convertProduct(result.Product), nil
}

func convertProduct(p *offProduct) *ProductInfo {
	info := &ProductInfo{
		Name: "Unknown product",
	}

	if p.ProductName != "" {
		info.Name = p.ProductName
	} else if p.ProductNameEn != "" {
		info.Name = p.ProductNameEn
	}

	// Categories arrive as a comma-separated list; keep the first segment.
	if p.Categories != "" {
		info.Category = strings.TrimSpace(strings.SplitN(p.Categories, ",", 2)[0])
	}

	switch {
	case p.ImageURL != "":
		info.ImageURL = p.ImageURL
	case p.ImageFrontURL != "":
		info.ImageURL = p.ImageFrontURL
	case p.ImageFrontSmallURL != "":
		info.ImageURL = p.ImageFrontSmallURL
	}

	return info
}

// Open Food Facts API response types (internal)

type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

type offProduct struct {
	ProductName        string `json:"product_name"`
	ProductNameEn      string `json:"product_name_en"`
	Categories         string `json:"categories"`
	ImageURL           string `json:"image_url"`
	ImageFrontURL      string `json:"image_front_url"`
	ImageFrontSmallURL string `json:"image_front_small_url"`
}
