package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/configs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

// CardService defines card lifecycle operations available to owners
type CardService interface {
	BlockCard(ctx context.Context, cardID, requesterID int64) (*models.CardResponse, error)
	GetUserCards(ctx context.Context, ownerID int64, page, pageSize int) (*models.CardPage, error)
}

// TransferService defines fund movement between a requester's own cards
type TransferService interface {
	PerformTransfer(ctx context.Context, transfer *models.TransferRequest, requesterID int64) error
}

// SweeperService expires stale active cards
type SweeperService interface {
	Run(ctx context.Context, now time.Time) (int, error)
}

// AdminService defines administrative card and user management
type AdminService interface {
	CreateCard(ctx context.Context, req *models.CardCreate) (*models.CardResponse, error)
	GetAllCards(ctx context.Context, page, pageSize int) (*models.CardPage, error)
	UpdateCardStatus(ctx context.Context, cardID int64, status models.CardStatus) (*models.CardResponse, error)
	DeleteCard(ctx context.Context, cardID int64) error
	GetAllUsers(ctx context.Context, page, pageSize int) (*models.UserPage, error)
	GetUserByID(ctx context.Context, userID int64) (*models.UserResponse, error)
	UpdateUserRole(ctx context.Context, userID int64, role models.Role) (*models.UserResponse, error)
	UpdateUserLock(ctx context.Context, userID int64, locked bool) (*models.UserResponse, error)
}

// AuthService defines registration and login
type AuthService interface {
	Register(ctx context.Context, reg *models.UserRegistration) (int64, error)
	Login(ctx context.Context, login *models.UserLogin) (*models.TokenResponse, error)
}

// EmailService sends user notifications
type EmailService interface {
	SendTransferNotification(ctx context.Context, userID, fromCardID, toCardID int64, amount decimal.Decimal) error
}

// Dependencies contains dependencies for services
type Dependencies struct {
	Repos  *repository.Repository
	Logger *logrus.Logger
	Config *configs.Config
	Cipher *crypto.CardCipher
	Masker *crypto.Masker
}

// Service is a composition of all services
type Service struct {
	Card     CardService
	Transfer TransferService
	Sweeper  SweeperService
	Admin    AdminService
	Auth     AuthService
	Email    EmailService
}

// NewService creates a new service with all sub-services
func NewService(deps Dependencies) *Service {
	email := NewEmailService(deps)
	return &Service{
		Card:     NewCardService(deps),
		Transfer: NewTransferService(deps, email),
		Sweeper:  NewSweeperService(deps),
		Admin:    NewAdminService(deps),
		Auth:     NewAuthService(deps),
		Email:    email,
	}
}
