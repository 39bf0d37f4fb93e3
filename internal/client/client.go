package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"hashes-market-client/internal/config"
	"hashes-market-client/internal/logger"
	"hashes-market-client/internal/models"

	"golang.org/x/sync/singleflight"
)

// Client is the façade a desktop or service front-end talks to. Every
// operation is synchronous and blocking; callers run them on their own
// workers. Shared state is limited to the credential (last-writer-wins) and
// the conversion-rate cache.
type Client struct {
	configuration  *config.Config
	logger         *logger.Logger
	transport      *Transport
	downloadClient *http.Client

	ratesMutex sync.RWMutex
	ratesCache models.RatesCacheEntry
	ratesGroup singleflight.Group
}

// New creates a marketplace client
func New(configuration *config.Config, logger *logger.Logger) *Client {
	// Left-list files can be large; the download client bounds the wait
	// for headers only, not the whole body read. Compression stays off so
	// Content-Length reflects the bytes actually streamed.
	downloadTransport := &http.Transport{
		DisableCompression:    true,
		ResponseHeaderTimeout: configuration.RequestTimeout,
	}
	return &Client{
		configuration:  configuration,
		logger:         logger,
		transport:      NewTransport(configuration, logger),
		downloadClient: &http.Client{Transport: downloadTransport},
	}
}

// SetCredential replaces the API key used for authenticated calls. An empty
// string returns the client to the unauthenticated state.
func (client *Client) SetCredential(apiKey string) {
	client.transport.SetAPIKey(apiKey)
}

// Credential returns the API key currently in use
func (client *Client) Credential() string {
	return client.transport.APIKey()
}

// GetBalance returns the account balance per currency
func (client *Client) GetBalance(ctx context.Context) (map[string]string, error) {
	payload, err := client.transport.Request(ctx, http.MethodGet, "/balance", nil, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeStringMap(payload)
}

// decodeStringMap flattens a JSON object into string values, dropping the
// success/message envelope keys. Numbers keep their wire representation.
func decodeStringMap(payload []byte) (map[string]string, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var decoded map[string]interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return nil, wrapError(ErrorTypeInvalidResponse, "Received invalid JSON from the marketplace.", err)
	}
	result := make(map[string]string, len(decoded))
	for key, value := range decoded {
		if key == "success" || key == "message" {
			continue
		}
		switch typed := value.(type) {
		case string:
			result[key] = typed
		case json.Number:
			result[key] = typed.String()
		case bool:
			result[key] = strconv.FormatBool(typed)
		case nil:
			result[key] = ""
		default:
			encoded, _ := json.Marshal(typed)
			result[key] = string(encoded)
		}
	}
	return result, nil
}
