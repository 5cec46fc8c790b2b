package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"realty-auctions/internal/bidding"
	model "realty-auctions/internal/models"
	"realty-auctions/internal/notification"
	"realty-auctions/internal/repository"
	"realty-auctions/internal/resolver"
	"realty-auctions/internal/server"
)

// SetupTestRouter initializes the router with an in-memory repository and a
// log-only dispatcher for integration testing.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	dispatcher := notification.LogDispatcher{}
	service := bidding.NewBiddingService(repo, dispatcher, nil)
	res := resolver.NewAuctionResolver(repo, dispatcher, nil)
	return server.SetupRouter(service, res)
}

// SetupTestRouterWithAuctions initializes the router and seeds the repo with auctions.
func SetupTestRouterWithAuctions(auctions ...model.Auction) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()

	for _, auction := range auctions {
		if err := repo.CreateAuction(auction); err != nil {
			panic(err)
		}
	}

	dispatcher := notification.LogDispatcher{}
	service := bidding.NewBiddingService(repo, dispatcher, nil)
	res := resolver.NewAuctionResolver(repo, dispatcher, nil)
	return server.SetupRouter(service, res)
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}
