package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hashes-market-client/internal/models"
)

// maxLookupBatch is the hard cap the API places on one search request.
const maxLookupBatch = 250

// IdentifyHash asks the marketplace which algorithms a hash value could
// belong to. With extended=false only the best guess comes back. No
// authentication required.
func (client *Client) IdentifyHash(ctx context.Context, hashValue string, extended bool) ([]string, error) {
	query := url.Values{}
	query.Set("hash", hashValue)
	query.Set("extended", strconv.FormatBool(extended))

	payload, err := client.transport.Request(ctx, http.MethodGet, "/identifier", query, nil, false)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Algorithms []models.FlexString `json:"algorithms"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}
	names := make([]string, 0, len(envelope.Algorithms))
	for _, algorithm := range envelope.Algorithms {
		names = append(names, algorithm.String())
	}
	return names, nil
}

// LookupHashes runs one bulk plaintext search. Input is trimmed and
// de-duplicated preserving first occurrence; the call is a single batched
// POST, so callers must pre-chunk sets larger than 250 themselves.
func (client *Client) LookupHashes(ctx context.Context, hashes []string) (models.LookupResponse, error) {
	cleaned := dedupeHashes(hashes)
	if len(cleaned) == 0 {
		return models.LookupResponse{}, newError(ErrorTypeEmptyInput, "Please provide at least one hash to search.")
	}
	if len(cleaned) > maxLookupBatch {
		return models.LookupResponse{}, newError(ErrorTypeBatchTooLarge, "The API allows up to 250 hashes per lookup request.")
	}

	form := url.Values{"hashes[]": cleaned}
	payload, err := client.transport.Request(ctx, http.MethodPost, "/search", nil, form, true)
	if err != nil {
		return models.LookupResponse{}, err
	}

	var response models.LookupResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return models.LookupResponse{}, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}
	return response, nil
}

func dedupeHashes(hashes []string) []string {
	seen := make(map[string]struct{}, len(hashes))
	cleaned := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		trimmed := strings.TrimSpace(hash)
		if trimmed == "" {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}
	return cleaned
}
