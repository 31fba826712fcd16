// internal/handler/user.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"crediwise/internal/auth"
	"crediwise/internal/middleware"
	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	msgMissingFields = "Missing required fields"
	msgInvalidEmail  = "Invalid email"
	msgCardIDsList   = "cardIds must be a list"
	msgCardIDsUUID   = "cardIds must contain card ids"
)

type UserHandler struct {
	users        storage.UserStorage
	cards        storage.CardStorage
	tokens       *auth.TokenService
	secureCookie bool
}

func NewUserHandler(users storage.UserStorage, cards storage.CardStorage, tokens *auth.TokenService, secureCookie bool) *UserHandler {
	return &UserHandler{users: users, cards: cards, tokens: tokens, secureCookie: secureCookie}
}

type LoginRequest struct {
	Email     string `json:"email" validate:"notblank,mailformat"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
}

func (r *LoginRequest) normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// loginFailure picks the caller-facing message; missing fields win over a
// malformed address.
func loginFailure(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			if e.Tag() == "notblank" {
				return msgMissingFields
			}
		}
	}
	return msgInvalidEmail
}

// Login godoc
// @Summary Log in or sign up by e-mail
// @Description Returns the existing user for the e-mail or creates one, and sets a session cookie
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "User details"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = LoginRequest{}
	}
	req.normalize()

	if err := validateStruct(req); err != nil {
		slog.Debug("Login rejected", "error", err)
		respondError(c, http.StatusBadRequest, loginFailure(err))
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		slog.Error("Failed to fetch user", "error", err, "email", req.Email)
		respondError(c, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if user == nil {
		user, err = h.users.CreateUser(ctx, req.Email, req.FirstName, req.LastName)
		if err != nil {
			slog.Error("Failed to create user", "error", err, "email", req.Email)
			respondError(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
		slog.Info("User created", "user_id", user.ID)
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		slog.Error("Failed to issue session token", "error", err, "user_id", user.ID)
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}
	h.setSessionCookie(c, token, int(h.tokens.ExpiresIn().Seconds()))

	c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags users
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *UserHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	// Cross-origin requests only carry SameSite=None cookies.
	if h.secureCookie {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}

// GetUserCards godoc
// @Summary List the cards a user selected
// @Param id path string true "User ID"
// @Success 200 {object} map[string][]string
// @Failure 500 {object} map[string]string
// @Router /users/{id}/cards [get]
func (h *UserHandler) GetUserCards(c *gin.Context) {
	userID := c.Param("id")
	ids, err := h.cards.ListUserCardIDs(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to fetch user cards", "error", err, "user_id", userID)
		respondError(c, http.StatusInternalServerError, "Failed to fetch cards")
		return
	}
	if ids == nil {
		ids = []any{}
	}
	c.JSON(http.StatusOK, gin.H{"cardIds": ids})
}

// SaveUserCards godoc
// @Summary Replace a user's card selection
// @Param id path string true "User ID"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /users/{id}/cards [post]
func (h *UserHandler) SaveUserCards(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	exists, err := h.users.UserExists(ctx, userID)
	if err != nil {
		slog.Error("Failed to verify user", "error", err, "user_id", userID)
	}
	if err != nil || !exists {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	cardIDs, ok := readObject(c)["cardIds"].([]any)
	if !ok {
		respondError(c, http.StatusBadRequest, msgCardIDsList)
		return
	}
	if !allUUIDs(cardIDs) {
		respondError(c, http.StatusBadRequest, msgCardIDsUUID)
		return
	}

	if err := h.cards.ReplaceUserCards(ctx, userID, cardIDs); err != nil {
		slog.Error("Failed to update user cards", "error", err, "user_id", userID, "count", len(cardIDs))
		respondError(c, http.StatusInternalServerError, "Failed to update cards")
		return
	}

	slog.Info("User cards updated", "user_id", userID, "count", len(cardIDs))
	c.JSON(http.StatusOK, gin.H{"cardIds": cardIDs})
}

// allUUIDs reports whether every element is a UUID string.
func allUUIDs(ids []any) bool {
	for _, v := range ids {
		s, ok := v.(string)
		if !ok {
			return false
		}
		if _, err := uuid.Parse(s); err != nil {
			return false
		}
	}
	return true
}
