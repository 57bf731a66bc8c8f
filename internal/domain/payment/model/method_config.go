package model

import (
	"encoding/json"
	"errors"

	baseModel "resto_pay/pkg/model"
)

// PaymentMethodConfig is the per-store, per-method configuration. It is owned
// by store settings; this service only reads it, freshly at each initiation.
// Settings is decoded into the method-specific variant below and validated
// before any payment is created.
type PaymentMethodConfig struct {
	baseModel.BaseModel
	StoreID     string          `gorm:"type:uuid;index:idx_store_method,unique" json:"storeId"`
	Method      string          `gorm:"index:idx_store_method,unique" json:"method"`
	DisplayName string          `json:"displayName"`
	Enabled     bool            `gorm:"default:false" json:"enabled"`
	Settings    json.RawMessage `gorm:"type:jsonb" json:"settings"`
}

// BankQRSettings are the fields a bank_qr config must carry.
type BankQRSettings struct {
	BankName      string `json:"bank_name"`
	BankBIN       string `json:"bank_bin"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

// Validate checks all required transfer fields are present.
func (s *BankQRSettings) Validate() error {
	if s.BankName == "" || s.BankBIN == "" || s.AccountNumber == "" || s.AccountHolder == "" {
		return errors.New("bank_qr settings require bank_name, bank_bin, account_number and account_holder")
	}
	return nil
}

// PayOSSettings are the gateway credentials a payos config must carry.
type PayOSSettings struct {
	ClientID    string `json:"client_id"`
	APIKey      string `json:"api_key"`
	ChecksumKey string `json:"checksum_key"`
}

func (s *PayOSSettings) Validate() error {
	if s.ClientID == "" || s.APIKey == "" || s.ChecksumKey == "" {
		return errors.New("payos settings require client_id, api_key and checksum_key")
	}
	return nil
}

// BankQRSettings decodes and validates the bank_qr variant.
func (c *PaymentMethodConfig) BankQRSettings() (*BankQRSettings, error) {
	var s BankQRSettings
	if err := json.Unmarshal(c.Settings, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// PayOSSettings decodes and validates the payos variant.
func (c *PaymentMethodConfig) PayOSSettings() (*PayOSSettings, error) {
	var s PayOSSettings
	if err := json.Unmarshal(c.Settings, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
