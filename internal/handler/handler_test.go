package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crediwise/internal/auth"
	"crediwise/internal/config"
	"crediwise/internal/domain"
	"crediwise/internal/recommend"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testTokens() *auth.TokenService {
	return auth.NewTokenService(config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour})
}

func newTestRouter(t *testing.T, store *MockStore) *gin.Engine {
	t.Helper()
	return NewRouter(Deps{
		Store:  store,
		Engine: recommend.NewEngine(recommend.MustDefaultTable()),
		Tokens: testTokens(),
	})
}

func doRequest(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	store := NewMockStore()
	r := newTestRouter(t, store)

	w := doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])

	w = doRequest(r, http.MethodGet, "/health?deep=1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["store"])

	store.PingErr = assert.AnError
	w = doRequest(r, http.MethodGet, "/health?deep=1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decodeBody(t, w)["status"])

	// Liveness does not touch the store.
	w = doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, NewMockStore())
	doRequest(r, http.MethodGet, "/health", "")

	w := doRequest(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestCards(t *testing.T) {
	yearly := int64(120)
	savings := 2.5
	store := NewMockStore()
	store.Cards = []domain.Card{{ID: "c1", Name: "Alpha", YearlyRewards: &yearly, Rewards: []any{}, CategoryHighlights: []domain.Highlight{}}}
	store.Offers = []domain.ComparisonOffer{{CardName: "Alpha", Offer: "2% back", EstimatedSavings: &savings}}
	r := newTestRouter(t, store)

	w := doRequest(r, http.MethodGet, "/cards", "")
	require.Equal(t, http.StatusOK, w.Code)
	cards := decodeBody(t, w)["cards"].([]any)
	require.Len(t, cards, 1)
	card := cards[0].(map[string]any)
	assert.Equal(t, "Alpha", card["name"])
	assert.Equal(t, 120.0, card["yearlyRewards"])
	assert.Equal(t, []any{}, card["categoryHighlights"])

	w = doRequest(r, http.MethodGet, "/cards/comparison", "")
	require.Equal(t, http.StatusOK, w.Code)
	offers := decodeBody(t, w)["offers"].([]any)
	require.Len(t, offers, 1)
	assert.Equal(t, map[string]any{"cardName": "Alpha", "offer": "2% back", "estimatedSavings": 2.5}, offers[0])
}

func TestCards_Empty(t *testing.T) {
	r := newTestRouter(t, NewMockStore())

	w := doRequest(r, http.MethodGet, "/cards", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cards":[]}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/cards/comparison", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"offers":[]}`, w.Body.String())
}

func TestCards_StoreFailure(t *testing.T) {
	store := NewMockStore()
	store.ListCardsErr = assert.AnError
	store.OffersErr = assert.AnError
	r := newTestRouter(t, store)

	w := doRequest(r, http.MethodGet, "/cards", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": "Failed to fetch cards"}, decodeBody(t, w))

	w = doRequest(r, http.MethodGet, "/cards/comparison", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": "Failed to fetch comparison offers"}, decodeBody(t, w))
}
