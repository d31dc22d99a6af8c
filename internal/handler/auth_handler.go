package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/service"
	"github.com/crudmaker/Bank-REST/pkg/utils"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authService service.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg models.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	id, err := h.authService.Register(r.Context(), &reg)
	if err != nil {
		h.logger.Warnf("Failed to register user: %v", err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"user_id": id})
}

// Login handles user login and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var login models.UserLogin
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	token, err := h.authService.Login(r.Context(), &login)
	if err != nil {
		h.logger.Warnf("Failed login attempt for %q: %v", login.Username, err)
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, token)
}
