package client

import (
	"context"
	"reflect"
	"testing"
	"time"

	"hashes-market-client/internal/testutils"

	"github.com/gin-gonic/gin"
)

func TestGetConversionRates_CachesWithinTTL(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())
	ctx := context.Background()

	first, err := marketClient.GetConversionRates(ctx)
	if err != nil {
		t.Fatalf("GetConversionRates() first call error = %v", err)
	}
	second, err := marketClient.GetConversionRates(ctx)
	if err != nil {
		t.Fatalf("GetConversionRates() second call error = %v", err)
	}

	if server.Hits("/conversion") != 1 {
		t.Errorf("GetConversionRates() fetch count = %d, want 1", server.Hits("/conversion"))
	}
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Errorf("GetConversionRates() second call returned a different table, want the cached one")
	}
}

func TestGetConversionRates_RefreshesAfterTTL(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	cfg := testutils.MockConfigForServer(server)
	cfg.ConversionCacheTTL = 10 * time.Millisecond
	marketClient := New(cfg, testutils.MockLogger())
	ctx := context.Background()

	if _, err := marketClient.GetConversionRates(ctx); err != nil {
		t.Fatalf("GetConversionRates() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := marketClient.GetConversionRates(ctx); err != nil {
		t.Fatalf("GetConversionRates() error = %v", err)
	}

	if server.Hits("/conversion") != 2 {
		t.Errorf("GetConversionRates() fetch count = %d, want 2", server.Hits("/conversion"))
	}
}

func TestConvertToUSD_Credits(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	if got := marketClient.ConvertToUSD(context.Background(), 100, "credits"); got != "N/A" {
		t.Errorf("ConvertToUSD(credits) = %q, want %q", got, "N/A")
	}
	if got := marketClient.ConvertToUSD(context.Background(), 100, "CREDITS"); got != "N/A" {
		t.Errorf("ConvertToUSD(CREDITS) = %q, want %q", got, "N/A")
	}
	if server.Hits("/conversion") != 0 {
		t.Errorf("ConvertToUSD(credits) fetched rates, want no network call")
	}
}

func TestConvertToUSD_UnknownCurrency(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	if got := marketClient.ConvertToUSD(context.Background(), 100, "ZZZ"); got != "$0.00" {
		t.Errorf("ConvertToUSD(ZZZ) = %q, want %q", got, "$0.00")
	}
}

func TestConvertToUSD_KnownCurrency(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	if got := marketClient.ConvertToUSD(context.Background(), 0.001, "btc"); got != "$65.000" {
		t.Errorf("ConvertToUSD(0.001 BTC) = %q, want %q", got, "$65.000")
	}
}

func TestConvertToUSD_RatesUnavailable(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()
	server.SetPayload("/conversion", gin.H{"success": false, "message": "Temporarily unavailable."})

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	if got := marketClient.ConvertToUSD(context.Background(), 100, "BTC"); got != "$0.00" {
		t.Errorf("ConvertToUSD() with failing rates endpoint = %q, want %q", got, "$0.00")
	}
}
