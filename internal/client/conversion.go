package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hashes-market-client/internal/models"
)

// GetConversionRates returns the currency→rate table, served from the
// in-process cache while it is younger than the configured TTL. A fresh fetch
// replaces the whole table atomically, and concurrent cache misses collapse
// into a single remote call.
func (client *Client) GetConversionRates(ctx context.Context) (map[string]string, error) {
	client.ratesMutex.RLock()
	entry := client.ratesCache
	client.ratesMutex.RUnlock()
	if entry.Rates != nil && time.Since(entry.FetchedAt) < client.configuration.ConversionCacheTTL {
		return entry.Rates, nil
	}

	result, err, _ := client.ratesGroup.Do("conversion", func() (interface{}, error) {
		payload, fetchErr := client.transport.Request(ctx, http.MethodGet, "/conversion", nil, nil, false)
		if fetchErr != nil {
			return nil, fetchErr
		}
		rates, decodeErr := decodeStringMap(payload)
		if decodeErr != nil {
			return nil, decodeErr
		}
		client.ratesMutex.Lock()
		client.ratesCache = models.RatesCacheEntry{Rates: rates, FetchedAt: time.Now()}
		client.ratesMutex.Unlock()
		client.logger.Debugf("Refreshed conversion rates for %d currencies", len(rates))
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]string), nil
}

// ConvertToUSD formats amount×rate for display. Credits carry no exchange
// rate and always yield "N/A"; unknown currencies and an unreachable rates
// endpoint degrade to a zero value instead of an error.
func (client *Client) ConvertToUSD(ctx context.Context, amount float64, currency string) string {
	if strings.EqualFold(currency, "credits") {
		return "N/A"
	}
	rates, err := client.GetConversionRates(ctx)
	if err != nil {
		client.logger.Warnf("Conversion rates unavailable: %v", err)
		return "$0.00"
	}
	rate, known := rates[strings.ToUpper(currency)]
	if !known {
		return "$0.00"
	}
	numericRate, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return "$0.00"
	}
	return fmt.Sprintf("$%.3f", amount*numericRate)
}
