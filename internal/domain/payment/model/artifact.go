package model

import "time"

// Artifact is the method-specific object handed back to the client after
// initiation: cash instructions, a bank QR, or a hosted-checkout redirect.
type Artifact struct {
	PaymentID string  `json:"payment_id"`
	Method    string  `json:"payment_method"`
	Amount    float64 `json:"amount"`

	// cash
	Instructions string `json:"instructions,omitempty"`

	// bank_qr
	QRImageURL      string     `json:"qr_image_url,omitempty"`
	BankName        string     `json:"bank_name,omitempty"`
	AccountNumber   string     `json:"account_number,omitempty"`
	AccountHolder   string     `json:"account_holder,omitempty"`
	TransferContent string     `json:"transfer_content,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`

	// payos
	CheckoutURL string `json:"checkout_url,omitempty"`
	OrderCode   int64  `json:"order_code,omitempty"`
}

// CustomerInfo is what the order flow knows about the paying customer.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
