package extraction

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mrlokans/pantry/internal/apierror"
)

// Models are told to respond with bare JSON but regularly wrap it in prose
// or code fences. Scraping takes the widest bracketed span instead of
// requiring a clean body.
var (
	jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)
	jsonAnyPattern   = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)
)

// ScrapeItems extracts candidate item objects from a model reply. It
// prefers a JSON array; a lone object is accepted and wrapped into a
// single-element slice.
func ScrapeItems(text string) ([]any, error) {
	match := jsonArrayPattern.FindString(text)
	if match == "" {
		fallback := jsonAnyPattern.FindString(text)
		if fallback == "" {
			return nil, apierror.MalformedResponse("no JSON found in extraction API response")
		}
		if strings.HasPrefix(fallback, "{") {
			var single map[string]any
			if err := json.Unmarshal([]byte(fallback), &single); err != nil {
				return nil, apierror.MalformedResponse("failed to parse single item from response")
			}
			return []any{single}, nil
		}
		match = fallback
	}

	var result []any
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return nil, apierror.MalformedResponse("failed to parse JSON from extraction API response")
	}

	return result, nil
}

// ScrapeObject extracts a single JSON object from a model reply.
func ScrapeObject(text string) (map[string]any, error) {
	match := jsonAnyPattern.FindString(text)
	if match == "" || !strings.HasPrefix(match, "{") {
		return nil, apierror.MalformedResponse("no JSON object found in extraction API response")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return nil, apierror.MalformedResponse("failed to parse JSON from extraction API response")
	}

	return result, nil
}
