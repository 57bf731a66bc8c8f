package model

import (
	baseModel "resto_pay/pkg/model"
)

// Order is a placed customer order. It is created by order placement
// (outside this service); here it is only read and projected onto when a
// payment reaches a terminal state.
type Order struct {
	baseModel.BaseModel
	StoreID       string  `gorm:"type:uuid;index" json:"storeId"`
	TotalAmount   float64 `gorm:"not null" json:"totalAmount"`
	PaymentStatus string  `gorm:"default:'pending'" json:"paymentStatus"` // pending, processing, paid
	Status        string  `gorm:"default:'pending'" json:"status"`        // pending, preparing, ready, completed, cancelled
}

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusPaid       = "paid"

	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)
