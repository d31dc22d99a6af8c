package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/middleware"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/service"
	"github.com/crudmaker/Bank-REST/pkg/utils"
)

// TransferHandler handles transfer requests
type TransferHandler struct {
	transferService service.TransferService
	logger          *logrus.Logger
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService service.TransferService, logger *logrus.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Transfer handles a fund movement between two of the requester's cards
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "user ID not found in context")
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.transferService.PerformTransfer(r.Context(), &req, userID); err != nil {
		h.logger.Warnf("Transfer failed for user %d: %v", userID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "transfer completed successfully"})
}
