package handler

import (
	"log/slog"
	"net/http"

	"crediwise/internal/domain"
	"crediwise/internal/middleware"
	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
)

type SavingsHandler struct {
	store storage.SavingsStorage
}

func NewSavingsHandler(store storage.SavingsStorage) *SavingsHandler {
	return &SavingsHandler{store: store}
}

// GetSavings godoc
// @Summary Savings dashboard
// @Description Per-user aggregate when one exists, otherwise the legacy global metrics
// @Param user_id query string false "User ID; defaults to the session user"
// @Success 200 {object} domain.SavingsSummary
// @Router /savings [get]
func (h *SavingsHandler) GetSavings(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString(middleware.UserIDKey)
	}

	if userID != "" {
		summary, err := h.store.FindUserSavings(ctx, userID)
		switch {
		case err != nil:
			slog.Error("Failed to fetch user savings", "error", err, "user_id", userID)
		case summary != nil:
			c.JSON(http.StatusOK, summary)
			return
		}
	}

	legacy, err := h.store.ListSavingsMetrics(ctx)
	if err != nil {
		slog.Error("Failed to fetch savings metrics", "error", err)
		c.JSON(http.StatusOK, domain.EmptySavings())
		return
	}
	if legacy == nil {
		legacy = []domain.SavingsMetric{}
	}

	out := domain.EmptySavings()
	out.TotalSavings = storage.LegacyTotal(legacy)
	out.CategoryBreakdown = legacy
	c.JSON(http.StatusOK, out)
}
