// internal/handler/checkout.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"crediwise/internal/domain"
	"crediwise/internal/metrics"
	"crediwise/internal/recommend"
	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	engine *recommend.Engine
	store  storage.CheckoutStorage
	now    func() time.Time
}

func NewCheckoutHandler(engine *recommend.Engine, store storage.CheckoutStorage) *CheckoutHandler {
	return &CheckoutHandler{engine: engine, store: store, now: time.Now}
}

// checkoutSummary is the short form shown by the browser extension.
type checkoutSummary struct {
	Message     string             `json:"message"`
	BestCard    recommend.BestCard `json:"bestCard"`
	Domain      *string            `json:"domain"`
	GeneratedAt string             `json:"generatedAt"`
}

type comparisonEntry struct {
	CardName         string  `json:"cardName"`
	Offer            string  `json:"offer"`
	EstimatedSavings float64 `json:"estimatedSavings"`
}

// checkoutDetail is the full document behind a checkout token.
type checkoutDetail struct {
	Domain      *string                  `json:"domain"`
	GeneratedAt string                   `json:"generatedAt"`
	BestCard    recommend.BestCard       `json:"bestCard"`
	Comparison  []comparisonEntry        `json:"comparison"`
	Raw         recommend.Recommendation `json:"raw"`
}

// CreateCheckout godoc
// @Summary Recommend a card for a checkout page
// @Description Computes the recommendation for a merchant domain and amount and stores it under a token
// @Tags checkout
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]string
// @Router /checkout [post]
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	body := readObject(c)
	domainName := optionalString(body["domain"])
	url := optionalString(body["url"])

	var amount *float64
	if v, ok := recommend.ParseAmount(body["amount"]); ok {
		amount = &v
	}

	var lookup string
	if domainName != nil {
		lookup = *domainName
	}
	rec := h.engine.Compute(lookup, amount)
	metrics.RecordRecommendation(rec.Website)

	generatedAt := h.now().UTC().Format(time.RFC3339Nano)
	summary := checkoutSummary{
		Message:     summaryMessage(rec.BestCard.Name, lookup),
		BestCard:    rec.BestCard,
		Domain:      domainName,
		GeneratedAt: generatedAt,
	}

	comparison := make([]comparisonEntry, 0, len(rec.OtherCards))
	for _, card := range rec.OtherCards {
		comparison = append(comparison, comparisonEntry{
			CardName:         card.Name,
			Offer:            card.RatePercent + " back",
			EstimatedSavings: card.NetBenefit,
		})
	}

	token, err := h.store.CreateCheckout(c.Request.Context(), domain.CheckoutRecord{
		Domain:  domainName,
		URL:     url,
		Summary: summary,
		Payload: checkoutDetail{
			Domain:      domainName,
			GeneratedAt: generatedAt,
			BestCard:    rec.BestCard,
			Comparison:  comparison,
			Raw:         rec,
		},
	})
	if err != nil {
		slog.Error("Failed to store checkout recommendation", "error", err, "domain", lookup)
		respondError(c, http.StatusInternalServerError, "Failed to store recommendation")
		return
	}

	slog.Info("Checkout recommendation stored", "token", token, "website", rec.Website, "best_card", rec.BestCard.Name)
	c.JSON(http.StatusOK, gin.H{"token": token, "summary": summary})
}

func summaryMessage(bestCard, domainName string) string {
	if domainName != "" {
		return bestCard + " looks best for " + domainName + "."
	}
	return bestCard + " looks best for this checkout."
}

// GetCheckout godoc
// @Summary Get a stored checkout recommendation
// @Param token path string true "Checkout token"
// @Success 200 {object} domain.CheckoutRecord
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /checkout/{token} [get]
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	token := c.Param("token")
	// Tokens are uuids; anything else cannot exist.
	if _, err := uuid.Parse(token); err != nil {
		respondError(c, http.StatusNotFound, "Recommendation not found")
		return
	}

	rec, err := h.store.FindCheckout(c.Request.Context(), token)
	if err != nil {
		slog.Error("Failed to fetch checkout recommendation", "error", err, "token", token)
		respondError(c, http.StatusInternalServerError, "Failed to fetch recommendation")
		return
	}
	if rec == nil {
		respondError(c, http.StatusNotFound, "Recommendation not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}
