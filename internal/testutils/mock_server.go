package testutils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
)

// MockMarketServer emulates the marketplace JSON API and the left-list file
// host for tests. API payloads, file contents, and forced failures are all
// configurable per path; every request is counted and its parameters kept for
// assertions.
type MockMarketServer struct {
	server *httptest.Server

	mu          sync.Mutex
	hits        map[string]int
	payloads    map[string]gin.H
	files       map[string][]byte
	fileFail    map[string]int
	lastQueries map[string]url.Values
	lastForms   map[string]url.Values
}

// NewMockMarketServer creates a mock marketplace with default responses
func NewMockMarketServer() *MockMarketServer {
	gin.SetMode(gin.TestMode)

	mock := &MockMarketServer{
		hits:        make(map[string]int),
		payloads:    make(map[string]gin.H),
		files:       make(map[string][]byte),
		fileFail:    make(map[string]int),
		lastQueries: make(map[string]url.Values),
		lastForms:   make(map[string]url.Values),
	}
	mock.SetupDefaultResponses()

	engine := gin.New()
	api := engine.Group("/en/api")
	api.GET("/algorithms", mock.apiHandler("/algorithms", false))
	api.GET("/conversion", mock.apiHandler("/conversion", false))
	api.GET("/identifier", mock.apiHandler("/identifier", false))
	api.GET("/jobs", mock.apiHandler("/jobs", true))
	api.GET("/balance", mock.apiHandler("/balance", true))
	api.POST("/search", mock.apiHandler("/search", true))

	// Anything outside /en/api is treated as a left-list file download.
	engine.NoRoute(mock.fileHandler)

	mock.server = httptest.NewServer(engine)
	return mock
}

// SetupDefaultResponses installs a small but realistic marketplace state
func (m *MockMarketServer) SetupDefaultResponses() {
	m.payloads["/algorithms"] = gin.H{
		"success": true,
		"list": []gin.H{
			{"id": 0, "algorithmName": "MD5"},
			{"id": 220, "algorithmName": "Blowfish"},
			{"id": 2811, "algorithmName": "IPB/MYBB"},
		},
	}
	m.payloads["/conversion"] = gin.H{
		"success": true,
		"BTC":     "65000.00",
		"XMR":     "165.29",
		"LTC":     "84.50",
	}
	m.payloads["/jobs"] = gin.H{
		"success": true,
		"list": []gin.H{
			{
				"id": 101, "createdAt": "2024-04-01 10:00:00", "lastUpdate": "2024-04-02 09:00:00",
				"algorithmId": 0, "algorithmName": "MD5",
				"totalHashes": 1000, "foundHashes": 100, "leftHashes": 900, "maxCracksNeeded": 900,
				"currency": "BTC", "pricePerHash": "0.00000010", "pricePerHashUsd": "0.0065",
				"leftList": "/download/leftlist/101.txt", "hints": "",
			},
			{
				"id": 102, "createdAt": "2024-04-03 10:00:00", "lastUpdate": "2024-04-03 11:00:00",
				"algorithmId": 220, "algorithmName": "Blowfish",
				"totalHashes": 50, "foundHashes": 0, "leftHashes": 50, "maxCracksNeeded": 50,
				"currency": "XMR", "pricePerHash": "0.00010000", "pricePerHashUsd": "0.0165",
				"leftList": "/download/leftlist/102.txt", "hints": "wordlist likely",
			},
		},
	}
	m.payloads["/balance"] = gin.H{
		"success": true,
		"credits": "1250",
		"BTC":     "0.00310000",
		"XMR":     "0",
		"LTC":     "0.75",
	}
	m.payloads["/identifier"] = gin.H{
		"success":    true,
		"algorithms": []string{"MD5", "NTLM"},
	}
	m.payloads["/search"] = gin.H{
		"success": true,
		"founds": []gin.H{
			{"hash": "5f4dcc3b5aa765d61d8327deb882cf99", "salt": "", "plaintext": "password", "algorithm": "MD5"},
		},
		"count": 1,
		"cost":  10,
	}

	m.files["/download/leftlist/101.txt"] = []byte("aaaa\nbbbb\n")
	m.files["/download/leftlist/102.txt"] = []byte("cccc\n")
}

func (m *MockMarketServer) apiHandler(path string, requiresKey bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Request.ParseForm()

		m.mu.Lock()
		m.hits[path]++
		m.lastQueries[path] = c.Request.URL.Query()
		m.lastForms[path] = c.Request.PostForm
		payload, configured := m.payloads[path]
		m.mu.Unlock()

		if requiresKey {
			key := c.Query("key")
			if key == "" {
				key = c.Request.PostFormValue("key")
			}
			if key == "" || key == "invalid-key" {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid API key."})
				return
			}
		}
		if !configured {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Unknown endpoint."})
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

func (m *MockMarketServer) fileHandler(c *gin.Context) {
	path := c.Request.URL.Path

	m.mu.Lock()
	m.hits[path]++
	forcedStatus, forced := m.fileFail[path]
	content, present := m.files[path]
	m.mu.Unlock()

	if forced {
		c.String(forcedStatus, "download error")
		return
	}
	if !present {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// URL returns the mock server URL
func (m *MockMarketServer) URL() string {
	return m.server.URL
}

// APIBaseURL returns the base URL of the JSON API side
func (m *MockMarketServer) APIBaseURL() string {
	return m.server.URL + "/en/api"
}

// Close closes the mock server
func (m *MockMarketServer) Close() {
	m.server.Close()
}

// SetPayload sets a custom API response for a path (e.g. "/jobs")
func (m *MockMarketServer) SetPayload(path string, payload gin.H) {
	m.mu.Lock()
	m.payloads[path] = payload
	m.mu.Unlock()
}

// SetFile sets the contents served for a left-list path
func (m *MockMarketServer) SetFile(path string, content []byte) {
	m.mu.Lock()
	m.files[path] = content
	m.mu.Unlock()
}

// FailFile forces a status code for a left-list path
func (m *MockMarketServer) FailFile(path string, status int) {
	m.mu.Lock()
	m.fileFail[path] = status
	m.mu.Unlock()
}

// Hits reports how many requests a path has received
func (m *MockMarketServer) Hits(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

// LastQuery returns the query parameters of the last request to a path
func (m *MockMarketServer) LastQuery(path string) url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQueries[path]
}

// LastForm returns the form body of the last request to a path
func (m *MockMarketServer) LastForm(path string) url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastForms[path]
}
