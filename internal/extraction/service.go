package extraction

import (
	"context"

	"github.com/mrlokans/pantry/internal/apierror"
)

// Service runs the full extraction pipeline: rate limit check, prompt
// construction, model call, JSON scrape and item validation.
type Service struct {
	client  *Client
	limiter *RateLimiter
}

func NewService(client *Client, limiter *RateLimiter) *Service {
	return &Service{
		client:  client,
		limiter: limiter,
	}
}

// Parse extracts normalized inventory items from free-form text. Returns a
// rate limit error with a retry-after hint when the outbound budget is
// exhausted. An empty slice is a valid outcome, not an error.
func (s *Service) Parse(ctx context.Context, text string) ([]ParsedItem, error) {
	if allowed, retryAfter := s.limiter.Allow(); !allowed {
		return nil, apierror.RateLimited(retryAfter)
	}

	reply, err := s.client.Complete(ctx, InventoryPrompt(text))
	if err != nil {
		return nil, err
	}

	candidates, err := ScrapeItems(reply)
	if err != nil {
		return nil, err
	}

	return ValidateItems(candidates), nil
}
