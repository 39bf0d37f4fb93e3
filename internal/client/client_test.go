package client

import (
	"context"
	"testing"

	"hashes-market-client/internal/testutils"

	"github.com/gin-gonic/gin"
)

func TestGetBalance(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()
	server.SetPayload("/balance", gin.H{
		"success": true,
		"message": "",
		"credits": "1250",
		"BTC":     "0.00310000",
		"XMR":     0,
	})

	marketClient := New(testutils.MockConfigForServer(server), testutils.MockLogger())

	balance, err := marketClient.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("GetBalance() error = %v", err)
	}
	if balance["credits"] != "1250" || balance["BTC"] != "0.00310000" {
		t.Errorf("GetBalance() = %v, want credits 1250 and BTC 0.00310000", balance)
	}
	if balance["XMR"] != "0" {
		t.Errorf("GetBalance() XMR = %q, want numeric wire value kept as %q", balance["XMR"], "0")
	}
	// The envelope keys are metadata, not currencies.
	if _, present := balance["success"]; present {
		t.Errorf("GetBalance() kept the success envelope key: %v", balance)
	}
	if _, present := balance["message"]; present {
		t.Errorf("GetBalance() kept the message envelope key: %v", balance)
	}
}

func TestGetBalance_AuthRequired(t *testing.T) {
	server := testutils.NewMockMarketServer()
	defer server.Close()

	cfg := testutils.MockConfigForServer(server)
	cfg.APIKey = ""
	marketClient := New(cfg, testutils.MockLogger())

	_, err := marketClient.GetBalance(context.Background())
	if errorType, _ := TypeOf(err); errorType != ErrorTypeAuthRequired {
		t.Errorf("GetBalance() error type = %v, want ErrorTypeAuthRequired", errorType)
	}
	if server.Hits("/balance") != 0 {
		t.Errorf("GetBalance() hit the network before the credential check")
	}
}
