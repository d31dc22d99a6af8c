package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/internal/errs"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CardSvc is an implementation of the service.CardService interface
type CardSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	cipher *crypto.CardCipher
	masker *crypto.Masker
}

// NewCardService creates a new CardSvc
func NewCardService(deps Dependencies) *CardSvc {
	return &CardSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		cipher: deps.Cipher,
		masker: deps.Masker,
	}
}

// BlockCard blocks a card on the owner's request. Blocking an already
// blocked card is an error, not a no-op.
func (s *CardSvc) BlockCard(ctx context.Context, cardID, requesterID int64) (*models.CardResponse, error) {
	s.logger.Infof("User %d requesting to block card %d", requesterID, cardID)

	card, err := s.repos.Card.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if card.OwnerID != requesterID {
		s.logger.Warnf("Access denied for user %d to card %d", requesterID, cardID)
		return nil, errs.New(errs.AccessDenied, "Access denied. You are not the owner of this card.")
	}

	if card.Status == models.CardStatusBlocked {
		s.logger.Warnf("Attempted to block an already blocked card %d", cardID)
		return nil, errs.New(errs.InvalidOperation, "Card is already blocked.")
	}

	if err := s.repos.Card.UpdateStatus(ctx, cardID, card.Status, models.CardStatusBlocked); err != nil {
		return nil, err
	}

	card.Status = models.CardStatusBlocked
	s.logger.Infof("Card %d was successfully blocked by user %d", cardID, requesterID)

	owner, err := s.repos.User.GetByID(ctx, card.OwnerID)
	if err != nil {
		return nil, err
	}

	return mapToCardResponse(card, s.cipher, s.masker, owner.OwnerName)
}

// GetUserCards returns one page of the owner's cards with masked numbers.
// Pages are 1-based and ordered by card id, so repeated calls with the
// same arguments return the same page.
func (s *CardSvc) GetUserCards(ctx context.Context, ownerID int64, page, pageSize int) (*models.CardPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	owner, err := s.repos.User.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cards, err := s.repos.Card.GetByOwner(ctx, ownerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repos.Card.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.CardResponse, 0, len(cards))
	for _, card := range cards {
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

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// mapToCardResponse decrypts the stored number, masks it and builds the
// client representation. A decryption failure propagates as a cipher
// fault; it is never reinterpreted as a missing card.
func mapToCardResponse(card *models.Card, cipher *crypto.CardCipher, masker *crypto.Masker, ownerName string) (*models.CardResponse, error) {
	number := card.Number
	if number == "" {
		decrypted, err := cipher.Decrypt(card.NumberEncrypted)
		if err != nil {
			return nil, err
		}
		number = decrypted
	}

	return &models.CardResponse{
		ID:               card.ID,
		MaskedCardNumber: masker.MaskCardNumber(number),
		OwnerName:        ownerName,
		ExpiryDate:       card.ExpiryDate.Format("2006-01-02"),
		Status:           card.Status,
		Balance:          card.Balance,
	}, nil
}
