package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CardStatus defines the lifecycle status of a card
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

// ValidCardStatus reports whether s is a known card status
func ValidCardStatus(s CardStatus) bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// Card represents a bank card. The card number is stored encrypted; the
// plaintext number only exists transiently after decryption and is never
// persisted.
type Card struct {
	ID              int64           `json:"id" db:"id"`
	OwnerID         int64           `json:"owner_id" db:"owner_id"`
	NumberEncrypted string          `json:"-" db:"card_number_encrypted"`
	Number          string          `json:"-" db:"-"`
	ExpiryDate      time.Time       `json:"expiry_date" db:"expiry_date"`
	Status          CardStatus      `json:"status" db:"status"`
	Balance         decimal.Decimal `json:"balance" db:"balance"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsExpiredAt reports whether the card's expiry date has passed relative
// to the given date. This is independent of Status: a card can be
// date-expired before the sweeper has flipped it.
func (c *Card) IsExpiredAt(now time.Time) bool {
	return c.ExpiryDate.Before(truncateToDay(now))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CardCreate represents an administrative card creation request
type CardCreate struct {
	UserID         int64           `json:"user_id"`
	CardNumber     string          `json:"card_number"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// Validate validates card creation data
func (c *CardCreate) Validate(now time.Time) error {
	number := strings.TrimSpace(c.CardNumber)
	if number == "" {
		return errors.New("card number must not be blank")
	}
	if len(number) < 13 || len(number) > 19 {
		return errors.New("card number must contain 13 to 19 digits")
	}
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return errors.New("card number must contain 13 to 19 digits")
		}
	}
	if !validLuhn(number) {
		return errors.New("invalid card number")
	}
	if !c.ExpiryDate.After(now) {
		return errors.New("expiry date must be in the future")
	}
	if c.InitialBalance.IsNegative() {
		return errors.New("initial balance must be zero or positive")
	}
	return nil
}

// validLuhn checks the Luhn check digit of a card number
func validLuhn(number string) bool {
	sum := 0
	alternate := false

	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')

		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		alternate = !alternate
	}

	return sum%10 == 0
}

// CardResponse represents a card as presented to clients, with the
// number masked
type CardResponse struct {
	ID               int64           `json:"id"`
	MaskedCardNumber string          `json:"masked_card_number"`
	OwnerName        string          `json:"owner_name"`
	ExpiryDate       string          `json:"expiry_date"`
	Status           CardStatus      `json:"status"`
	Balance          decimal.Decimal `json:"balance"`
}

// CardPage is a single page of card responses
type CardPage struct {
	Items    []*CardResponse `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}
