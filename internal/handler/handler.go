package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/configs"
	"github.com/crudmaker/Bank-REST/internal/service"
)

// Dependencies contains handler dependencies
type Dependencies struct {
	Services *service.Service
	Logger   *logrus.Logger
	Config   *configs.Config
}

// Handler contains all HTTP handlers for the application
type Handler struct {
	Auth     *AuthHandler
	Card     *CardHandler
	Transfer *TransferHandler
	Admin    *AdminHandler
}

// NewHandler creates a new Handler with all subhandlers
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(deps.Services.Auth, deps.Logger),
		Card:     NewCardHandler(deps.Services.Card, deps.Logger),
		Transfer: NewTransferHandler(deps.Services.Transfer, deps.Logger),
		Admin:    NewAdminHandler(deps.Services.Admin, deps.Logger),
	}
}
