package repository

import (
	"resto_pay/internal/domain/payment/model"

	"gorm.io/gorm"
)

// MethodConfigRepository reads per-store payment method configuration.
// The rows are owned by store settings; this service never writes them and
// re-reads on every initiation so config edits take effect immediately.
type MethodConfigRepository interface {
	Get(storeID, method string) (*model.PaymentMethodConfig, error)
}

type methodConfigRepository struct {
	db *gorm.DB
}

func NewMethodConfigRepository(db *gorm.DB) MethodConfigRepository {
	return &methodConfigRepository{db: db}
}

func (r *methodConfigRepository) Get(storeID, method string) (*model.PaymentMethodConfig, error) {
	var cfg model.PaymentMethodConfig
	err := r.db.Where("store_id = ? AND method = ?", storeID, method).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
