// Package estimation asks the model for a shelf-life estimate when an item
// has no explicit expiration date. It shares the extraction client and
// rate limiter mechanics but returns a single dated estimate instead of a
// list of items.
package estimation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrlokans/pantry/internal/apierror"
	"github.com/mrlokans/pantry/internal/extraction"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Request describes the item to estimate. Category is optional.
type Request struct {
	ProductName  string `json:"productName"`
	Category     string `json:"category,omitempty"`
	LocationName string `json:"locationName"`
	OpenedStatus bool   `json:"openedStatus"`
}

type Estimate struct {
	ExpirationDate      string     `json:"expirationDate"`
	DaysUntilExpiration int        `json:"daysUntilExpiration"`
	ConfidenceLevel     Confidence `json:"confidenceLevel"`
}

type completer interface {
	CompleteWithLimit(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Estimator struct {
	client    completer
	limiter   *extraction.RateLimiter
	maxTokens int

	now func() time.Time // injectable for tests
}

func NewEstimator(client *extraction.Client, limiter *extraction.RateLimiter, maxTokens int) *Estimator {
	return &Estimator{
		client:    client,
		limiter:   limiter,
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// Estimate returns a conservative expiration estimate for the item. The
// returned date is today plus the model's day count.
func (e *Estimator) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return nil, apierror.Validation("productName is required")
	}
	if strings.TrimSpace(req.LocationName) == "" {
		return nil, apierror.Validation("locationName is required")
	}

	if allowed, retryAfter := e.limiter.Allow(); !allowed {
		return nil, apierror.RateLimited(retryAfter)
	}

	reply, err := e.client.CompleteWithLimit(ctx, expirationPrompt(req), e.maxTokens)
	if err != nil {
		return nil, err
	}

	raw, err := extraction.ScrapeObject(reply)
	if err != nil {
		return nil, err
	}

	days, ok := raw["daysUntilExpiration"].(float64)
	if !ok || days < 0 {
		return nil, apierror.MalformedResponse("invalid daysUntilExpiration in response")
	}

	levelRaw, _ := raw["confidenceLevel"].(string)
	level := Confidence(strings.ToUpper(levelRaw))
	switch level {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		return nil, apierror.MalformedResponse("invalid confidenceLevel in response")
	}

	dayCount := int(days)
	expiration := e.now().AddDate(0, 0, dayCount).Format("2006-01-02")

	return &Estimate{
		ExpirationDate:      expiration,
		DaysUntilExpiration: dayCount,
		ConfidenceLevel:     level,
	}, nil
}

func expirationPrompt(req Request) string {
	opened := "Unopened"
	if req.OpenedStatus {
		opened = "Opened"
	}

	category := ""
	if req.Category != "" {
		category = fmt.Sprintf("Category: %s\n", req.Category)
	}

	return fmt.Sprintf(`You are a food safety expert. Estimate the expiration date for a food item based on the following information:

Product Name: %s
%sStorage Location: %s
Opened Status: %s

Please provide your estimate in the following JSON format:
{
  "daysUntilExpiration": <number of days>,
  "confidenceLevel": "HIGH" | "MEDIUM" | "LOW"
}

Consider:
- Product type and typical shelf life
- Storage location (pantry items last longer than fridge items, freezer items last longest)
- Opened items generally expire faster than unopened items
- Be conservative with estimates for safety

Respond ONLY with valid JSON, no additional text.`, req.ProductName, category, req.LocationName, opened)
}
