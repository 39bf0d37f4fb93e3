package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hashes-market-client/internal/config"
	"hashes-market-client/internal/logger"
)

// Transport dispatches authenticated JSON requests to the marketplace API and
// validates the response envelope. It owns the API key; reads and writes are
// last-writer-wins.
type Transport struct {
	configuration *config.Config
	logger        *logger.Logger
	httpClient    *http.Client

	keyMutex sync.RWMutex
	apiKey   string
}

// NewTransport creates a transport over a shared connection pool
func NewTransport(configuration *config.Config, logger *logger.Logger) *Transport {
	httpTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
	}
	return &Transport{
		configuration: configuration,
		logger:        logger,
		httpClient:    &http.Client{Timeout: configuration.RequestTimeout, Transport: httpTransport},
		apiKey:        strings.TrimSpace(configuration.APIKey),
	}
}

// SetAPIKey replaces the stored credential. An empty key returns the
// transport to the unauthenticated state.
func (transport *Transport) SetAPIKey(apiKey string) {
	transport.keyMutex.Lock()
	transport.apiKey = strings.TrimSpace(apiKey)
	transport.keyMutex.Unlock()
}

// APIKey returns the stored credential
func (transport *Transport) APIKey() string {
	transport.keyMutex.RLock()
	defer transport.keyMutex.RUnlock()
	return transport.apiKey
}

// Request performs one API call and returns the validated raw JSON object
// body. The caller's query and form containers are never mutated: the
// credential is injected into copies, as a `key` query parameter on GET and a
// `key` body field otherwise.
func (transport *Transport) Request(ctx context.Context, method, path string, query url.Values, form url.Values, requiresAuth bool) ([]byte, error) {
	apiKey := transport.APIKey()
	if requiresAuth && apiKey == "" {
		return nil, newError(ErrorTypeAuthRequired, "An API key is required for this action.")
	}

	requestQuery := cloneValues(query)
	requestForm := cloneValues(form)
	if requiresAuth {
		if method == http.MethodGet {
			requestQuery.Set("key", apiKey)
		} else {
			requestForm.Set("key", apiKey)
		}
	}

	var body io.Reader
	if method != http.MethodGet && len(requestForm) > 0 {
		body = strings.NewReader(requestForm.Encode())
	}

	request, err := http.NewRequestWithContext(ctx, method, transport.configuration.APIBaseURL+path, body)
	if err != nil {
		return nil, wrapError(ErrorTypeRequestFailed, "Request failed", err)
	}
	if len(requestQuery) > 0 {
		request.URL.RawQuery = requestQuery.Encode()
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	transport.logger.Debugf("Marketplace request: %s %s", method, path)

	response, err := transport.httpClient.Do(request)
	if err != nil {
		return nil, wrapError(ErrorTypeRequestFailed, "Request failed", err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, wrapError(ErrorTypeRequestFailed, "Request failed", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, newError(ErrorTypeRequestFailed, fmt.Sprintf("Request failed with status %d", response.StatusCode))
	}

	return validatePayload(payload)
}

// validatePayload enforces the marketplace envelope: the body must decode as
// a JSON object, and a top-level success=false carries the server's reason.
func validatePayload(payload []byte) ([]byte, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}
	object, isObject := decoded.(map[string]interface{})
	if !isObject {
		return nil, newError(ErrorTypeAPIRejected, "Unexpected API response format.")
	}
	if flag, isBool := object["success"].(bool); isBool && !flag {
		message := "API request failed."
		if reason, ok := object["message"].(string); ok && reason != "" {
			message = reason
		}
		return nil, newError(ErrorTypeAPIRejected, message)
	}
	return payload, nil
}

func cloneValues(values url.Values) url.Values {
	cloned := url.Values{}
	for key, entries := range values {
		cloned[key] = append([]string(nil), entries...)
	}
	return cloned
}
