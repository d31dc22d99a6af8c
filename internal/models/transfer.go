package models

import "github.com/shopspring/decimal"

// TransferRequest represents a request to move funds between two cards
// owned by the requester
type TransferRequest struct {
	FromCardID int64           `json:"from_card_id"`
	ToCardID   int64           `json:"to_card_id"`
	Amount     decimal.Decimal `json:"amount"`
}
