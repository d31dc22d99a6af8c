package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/middleware"
	"github.com/crudmaker/Bank-REST/internal/service"
	"github.com/crudmaker/Bank-REST/pkg/utils"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *logrus.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

// GetAll handles retrieving a page of the requester's cards
func (h *CardHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	page, pageSize := pageParams(r)

	cards, err := h.cardService.GetUserCards(r.Context(), userID, page, pageSize)
	if err != nil {
		h.logger.Warnf("Failed to get cards for user %d: %v", userID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cards)
}

// Block handles an owner's request to block a card
func (h *CardHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	cardID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	card, err := h.cardService.BlockCard(r.Context(), cardID, userID)
	if err != nil {
		h.logger.Warnf("Failed to block card %d: %v", cardID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, card)
}

// pageParams parses page and page_size query parameters
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
