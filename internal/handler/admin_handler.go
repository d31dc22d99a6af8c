package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/service"
	"github.com/crudmaker/Bank-REST/pkg/utils"
)

// AdminHandler handles administrative card and user management requests.
// The router guards these routes with the ADMIN role.
type AdminHandler struct {
	adminService service.AdminService
	logger       *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// CreateCard handles administrative card creation
func (h *AdminHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req models.CardCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	card, err := h.adminService.CreateCard(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("Failed to create card: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, card)
}

// GetAllCards handles listing all cards
func (h *AdminHandler) GetAllCards(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	cards, err := h.adminService.GetAllCards(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Warnf("Failed to list cards: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, cards)
}

// UpdateCardStatus handles administrative card status changes
func (h *AdminHandler) UpdateCardStatus(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	var req struct {
		Status models.CardStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	card, err := h.adminService.UpdateCardStatus(r.Context(), cardID, req.Status)
	if err != nil {
		h.logger.Warnf("Failed to update status of card %d: %v", cardID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, card)
}

// DeleteCard handles administrative card deletion
func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	if err := h.adminService.DeleteCard(r.Context(), cardID); err != nil {
		h.logger.Warnf("Failed to delete card %d: %v", cardID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "card deleted successfully"})
}

// GetAllUsers handles listing users
func (h *AdminHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	users, err := h.adminService.GetAllUsers(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Warnf("Failed to list users: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// GetUser handles retrieving a single user
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.adminService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Warnf("Failed to get user %d: %v", userID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateUserRole handles role changes
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.adminService.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		h.logger.Warnf("Failed to update role of user %d: %v", userID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// UpdateUserLock handles locking and unlocking user accounts
func (h *AdminHandler) UpdateUserLock(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req struct {
		Locked bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	user, err := h.adminService.UpdateUserLock(r.Context(), userID, req.Locked)
	if err != nil {
		h.logger.Warnf("Failed to update lock status of user %d: %v", userID, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}
