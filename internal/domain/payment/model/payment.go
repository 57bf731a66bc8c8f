package model

import (
	"time"

	baseModel "resto_pay/pkg/model"
)

// Payment is one attempt to settle an order. An order may accumulate several
// payments across retries but at most one ever reaches paid.
type Payment struct {
	baseModel.BaseModel
	StoreID string  `gorm:"type:uuid;index" json:"storeId"`
	OrderID string  `gorm:"type:uuid;index;not null" json:"orderId"`
	Amount  float64 `gorm:"not null" json:"amount"`
	Method  string  `gorm:"not null" json:"method"`           // cash, bank_qr, payos
	Status  string  `gorm:"default:'pending'" json:"status"`  // pending, processing, paid, expired, failed, cancelled

	// TransactionID is the bank or gateway reference once paid. For manual
	// cash confirmation a timestamp stands in.
	TransactionID string `json:"transactionId,omitempty"`

	// MatchToken correlates an unstructured bank webhook to this payment.
	// First 8 hex chars of the payment id, uppercase. Stable contract.
	MatchToken string `gorm:"index" json:"matchToken,omitempty"`

	// TransferContent is the expected transfer description: the configured
	// prefix immediately followed by the match token.
	TransferContent string `json:"transferContent,omitempty"`

	// OrderCode is the external checkout order code for gateway payments.
	OrderCode int64 `gorm:"index" json:"orderCode,omitempty"`

	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	ConfirmedBy string     `json:"confirmedBy,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusExpired    = "expired"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"

	MethodCash   = "cash"
	MethodBankQR = "bank_qr"
	MethodPayOS  = "payos"
)

// IsTerminal reports whether the payment can no longer transition.
func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case StatusPaid, StatusExpired, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
