package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

// AdminSvc is an implementation of the service.AdminService interface.
// Callers are expected to have verified the ADMIN role already.
type AdminSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	cipher *crypto.CardCipher
	masker *crypto.Masker
}

// NewAdminService creates a new AdminSvc
func NewAdminService(deps Dependencies) *AdminSvc {
	return &AdminSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		cipher: deps.Cipher,
		masker: deps.Masker,
	}
}

// CreateCard creates an ACTIVE card for a user with a caller-supplied
// number, future expiry date and non-negative initial balance
func (s *AdminSvc) CreateCard(ctx context.Context, req *models.CardCreate) (*models.CardResponse, error) {
	s.logger.Infof("Admin creating card for user %d", req.UserID)

	if err := req.Validate(time.Now()); err != nil {
		return nil, errs.Wrap(errs.InvalidOperation, err.Error(), err)
	}

	user, err := s.repos.User.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.CardNumber)
	encrypted, err := s.cipher.Encrypt(number)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		OwnerID:         user.ID,
		NumberEncrypted: encrypted,
		Number:          number,
		ExpiryDate:      req.ExpiryDate,
		Status:          models.CardStatusActive,
		Balance:         req.InitialBalance,
	}

	id, err := s.repos.Card.Create(ctx, card)
	if err != nil {
		return nil, err
	}
	card.ID = id

	s.logger.Infof("Successfully created card %d for user %d", id, user.ID)

	return mapToCardResponse(card, s.cipher, s.masker, user.OwnerName)
}

// GetAllCards returns one page of all cards ordered by card id
func (s *AdminSvc) GetAllCards(ctx context.Context, page, pageSize int) (*models.CardPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	cards, err := s.repos.Card.GetAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.Card.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*models.CardResponse, 0, len(cards))
	for _, card := range cards {
		owner, err := s.repos.User.GetByID(ctx, card.OwnerID)
		if err != nil {
			return nil, err
		}
		resp, err := mapToCardResponse(card, s.cipher, s.masker, owner.OwnerName)
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}

	return &models.CardPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// UpdateCardStatus sets a card's status. Statuses only move forward: a
// BLOCKED or EXPIRED card cannot be returned to ACTIVE.
func (s *AdminSvc) UpdateCardStatus(ctx context.Context, cardID int64, status models.CardStatus) (*models.CardResponse, error) {
	s.logger.Infof("Admin updating status for card %d to %s", cardID, status)

	if !models.ValidCardStatus(status) {
		return nil, errs.Newf(errs.InvalidOperation, "Unknown card status: %s", status)
	}

	card, err := s.repos.Card.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if status == models.CardStatusActive && card.Status != models.CardStatusActive {
		s.logger.Warnf("Rejected reactivation of %s card %d", card.Status, cardID)
		return nil, errs.Newf(errs.InvalidOperation, "A %s card cannot be reactivated.", card.Status)
	}

	if card.Status != status {
		if err := s.repos.Card.UpdateStatus(ctx, cardID, card.Status, status); err != nil {
			return nil, err
		}
		card.Status = status
	}

	s.logger.Infof("Successfully updated status for card %d", cardID)

	owner, err := s.repos.User.GetByID(ctx, card.OwnerID)
	if err != nil {
		return nil, err
	}

	return mapToCardResponse(card, s.cipher, s.masker, owner.OwnerName)
}

// DeleteCard removes a card permanently
func (s *AdminSvc) DeleteCard(ctx context.Context, cardID int64) error {
	s.logger.Infof("Admin deleting card %d", cardID)

	exists, err := s.repos.Card.Exists(ctx, cardID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.Newf(errs.NotFound, "Card not found with id: %d", cardID)
	}

	if err := s.repos.Card.Delete(ctx, cardID); err != nil {
		return err
	}

	s.logger.Infof("Successfully deleted card %d", cardID)
	return nil
}

// GetAllUsers returns one page of users ordered by id
func (s *AdminSvc) GetAllUsers(ctx context.Context, page, pageSize int) (*models.UserPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	users, err := s.repos.User.GetAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.User.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, user.ToResponse())
	}

	return &models.UserPage{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// GetUserByID returns a single user
func (s *AdminSvc) GetUserByID(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUserRole sets a user's role
func (s *AdminSvc) UpdateUserRole(ctx context.Context, userID int64, role models.Role) (*models.UserResponse, error) {
	s.logger.Infof("Admin updating role for user %d to %s", userID, role)

	if !models.ValidRole(role) {
		return nil, errs.Newf(errs.InvalidOperation, "Unknown role: %s", role)
	}

	if err := s.repos.User.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}

// UpdateUserLock locks or unlocks a user account
func (s *AdminSvc) UpdateUserLock(ctx context.Context, userID int64, locked bool) (*models.UserResponse, error) {
	action := "unlocking"
	if locked {
		action = "locking"
	}
	s.logger.Infof("Admin %s user %d", action, userID)

	if err := s.repos.User.UpdateLocked(ctx, userID, locked); err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, userID)
}
