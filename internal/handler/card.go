package handler

import (
	"log/slog"
	"net/http"

	"crediwise/internal/domain"
	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	store storage.CardStorage
}

func NewCardHandler(store storage.CardStorage) *CardHandler {
	return &CardHandler{store: store}
}

// ListCards godoc
// @Summary List the card catalog ordered by name
// @Success 200 {object} map[string][]domain.Card
// @Failure 500 {object} map[string]string
// @Router /cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.store.ListCards(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch cards", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch cards")
		return
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// ListComparison godoc
// @Summary List comparison offers
// @Success 200 {object} map[string][]domain.ComparisonOffer
// @Failure 500 {object} map[string]string
// @Router /cards/comparison [get]
func (h *CardHandler) ListComparison(c *gin.Context) {
	offers, err := h.store.ListComparisonOffers(c.Request.Context())
	if err != nil {
		slog.Error("Failed to fetch comparison offers", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch comparison offers")
		return
	}
	if offers == nil {
		offers = []domain.ComparisonOffer{}
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}
