package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/cards", "200"))
	RecordHTTPRequest("GET", "/cards", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/cards", "200")))

	beforeUnmatched := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("select", "cards"))

	RecordStoreQuery("select", "cards", time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(StoreQueryErrors.WithLabelValues("select", "cards")))

	RecordStoreQuery("select", "cards", time.Millisecond, errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(StoreQueryErrors.WithLabelValues("select", "cards")))
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(CheckoutRecommendations.WithLabelValues("Wayfair"))
	RecordRecommendation("Wayfair")
	RecordRecommendation("Wayfair")
	assert.Equal(t, before+2, testutil.ToFloat64(CheckoutRecommendations.WithLabelValues("Wayfair")))
}
