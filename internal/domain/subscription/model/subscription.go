package model

import (
	"time"

	baseModel "resto_pay/pkg/model"
)

// Subscription is a store's platform subscription. Billing UI lives
// elsewhere; this service only activates a subscription when its gateway
// payment is confirmed by webhook.
type Subscription struct {
	baseModel.BaseModel
	StoreID   string     `gorm:"type:uuid;index" json:"storeId"`
	Plan      string     `json:"plan"`
	Status    string     `gorm:"default:'pending'" json:"status"` // pending, active, expired, cancelled
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// SubscriptionPayment is a gateway payment settling a subscription rather
// than an order. It shares the aggregator webhook with order payments and is
// resolved first by order code.
type SubscriptionPayment struct {
	baseModel.BaseModel
	SubscriptionID string     `gorm:"type:uuid;index" json:"subscriptionId"`
	StoreID        string     `gorm:"type:uuid;index" json:"storeId"`
	OrderCode      int64      `gorm:"uniqueIndex" json:"orderCode"`
	Amount         float64    `json:"amount"`
	Status         string     `gorm:"default:'pending'" json:"status"`
	TransactionID  string     `json:"transactionId,omitempty"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
}

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)
