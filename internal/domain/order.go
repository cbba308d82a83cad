package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPreparing OrderStatus = "Hazırlanıyor"
	StatusShipped   OrderStatus = "Kargolandı"
	StatusDelivered OrderStatus = "Teslim Edildi"
	StatusCancelled OrderStatus = "İptal Edildi"
)

var OrderStatuses = []OrderStatus{StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentBankTransfer is the only payment label; payment itself is simulated.
const PaymentBankTransfer = "Bank Transfer"

// Currency reported back to the buyer on confirmation.
const Currency = "USD"

type Order struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	DisplayName     string          `json:"ucp_name"`
	SenderCharacter string          `json:"sender_character"`
	FullName        string          `json:"full_name"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	Items           []LineItem      `json:"items"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"payment_method"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewOrder is the creation payload sent by checkout.
type NewOrder struct {
	Username        string
	DisplayName     string
	SenderCharacter string
	FullName        string
	Address         string
	Phone           string
	Items           []LineItem
	Total           decimal.Decimal
	PaymentMethod   string
}
